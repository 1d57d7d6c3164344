package punch

import "context"

// Ingestor stores a batch of punches and folds them into attendance days.
type Ingestor interface {
	Ingest(ctx context.Context, batch Batch) (IngestResult, error)
}
