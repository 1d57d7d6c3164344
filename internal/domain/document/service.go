package document

import "context"

type DocumentService interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (TemplateResponse, error)
	ListTemplates(ctx context.Context, kind *Kind) ([]TemplateResponse, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id string) error

	Generate(ctx context.Context, req GenerateRequest) (DocumentResponse, error)
	Get(ctx context.Context, id string) (DocumentResponse, error)
	List(ctx context.Context, filter DocumentFilter) (ListDocumentResponse, error)
	Download(ctx context.Context, id string) (File, error)

	// RenderKind renders the default template of kind without storing it.
	RenderKind(ctx context.Context, kind Kind, title string, values map[string]string) (File, error)

	// SeedTemplates installs the built-in templates. Existing templates of
	// the same name are only replaced when force is set.
	SeedTemplates(ctx context.Context, force bool) (SeedResult, error)
}
