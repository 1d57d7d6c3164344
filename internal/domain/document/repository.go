package document

import "context"

type TemplateRepository interface {
	Create(ctx context.Context, t Template) (Template, error)
	GetByID(ctx context.Context, id string) (Template, error)
	GetDefault(ctx context.Context, kind Kind) (Template, error)
	// FindByName returns nil when no template of kind has that name.
	FindByName(ctx context.Context, kind Kind, name string) (*Template, error)
	List(ctx context.Context, kind *Kind) ([]Template, error)
	Update(ctx context.Context, t Template) (Template, error)
	Delete(ctx context.Context, id string) error
	// ClearDefault unsets the default flag on every template of kind.
	ClearDefault(ctx context.Context, kind Kind) error
}

type DocumentRepository interface {
	Create(ctx context.Context, d Document) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]Document, int64, error)
}
