package document

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/resignation"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/numwords"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-hr-go/internal/service/file"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// builtinKinds are installed by SeedTemplates and used when a kind has no
// default template in the database.
var builtinKinds = []document.Kind{
	document.KindOfferLetter,
	document.KindIncrementLetter,
	document.KindSalarySlip,
	document.KindRelievingLetter,
}

func builtinName(kind document.Kind) string {
	return "Standard " + kind.Title()
}

func builtinBody(kind document.Kind) (string, error) {
	b, err := templateFS.ReadFile("templates/" + string(kind) + ".html")
	if err != nil {
		return "", fmt.Errorf("no built-in template for %s: %w", kind, err)
	}
	return string(b), nil
}

type DocumentServiceImpl struct {
	tx           postgresql.Transactor
	templates    document.TemplateRepository
	documents    document.DocumentRepository
	users        user.UserRepository
	resignations resignation.ResignationRepository
	files        file.FileService
	renderer     pdf.Renderer
	now          func() time.Time
}

func NewDocumentService(
	tx postgresql.Transactor,
	templates document.TemplateRepository,
	documents document.DocumentRepository,
	users user.UserRepository,
	resignations resignation.ResignationRepository,
	files file.FileService,
	renderer pdf.Renderer,
) document.DocumentService {
	return &DocumentServiceImpl{
		tx:           tx,
		templates:    templates,
		documents:    documents,
		users:        users,
		resignations: resignations,
		files:        files,
		renderer:     renderer,
		now:          time.Now,
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func filename(title string, format document.Format) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "document"
	}
	return slug + "." + string(format)
}

// render fills body and converts it to PDF, falling back to the filled
// HTML when the PDF renderer fails.
func (s *DocumentServiceImpl) render(title, body string, values map[string]string) document.File {
	htmlDoc := document.Render(body, values)

	out, err := s.renderer.Render(title, htmlDoc)
	if err != nil || len(out) == 0 {
		slog.Warn("PDF rendering failed, serving HTML", "title", title, "error", err)
		return document.File{
			Filename:    filename(title, document.FormatHTML),
			ContentType: document.FormatHTML.ContentType(),
			Format:      document.FormatHTML,
			Content:     []byte(htmlDoc),
		}
	}
	return document.File{
		Filename:    filename(title, document.FormatPDF),
		ContentType: document.FormatPDF.ContentType(),
		Format:      document.FormatPDF,
		Content:     out,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02 January 2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// letterValues are the placeholders every letter can use.
func letterValues(u user.User, now time.Time) map[string]string {
	annual := u.BasicSalary.Mul(decimal.NewFromInt(12))
	return map[string]string{
		"name":             u.FullName,
		"email":            u.Email,
		"employee_code":    deref(u.EmployeeCode),
		"designation":      deref(u.Designation),
		"office":           deref(u.OfficeName),
		"joining_date":     formatDate(u.JoiningDate),
		"relieving_date":   formatDate(u.RelievingDate),
		"monthly_salary":   "Rs. " + numwords.Grouped(u.BasicSalary),
		"annual_ctc":       "Rs. " + numwords.Grouped(annual),
		"annual_ctc_words": numwords.Rupees(annual),
		"effective_date":   formatDate(&now),
		"date":             formatDate(&now),
	}
}

func canAccess(actor user.Actor, d document.Document) bool {
	return actor.IsHR() || actor.UserID == d.UserID
}

// CreateTemplate implements document.DocumentService.
func (s *DocumentServiceImpl) CreateTemplate(ctx context.Context, req document.CreateTemplateRequest) (document.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return document.TemplateResponse{}, err
	}

	var created document.Template
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		if req.IsDefault {
			if err := s.templates.ClearDefault(txCtx, document.Kind(req.Kind)); err != nil {
				return err
			}
		}
		var err error
		created, err = s.templates.Create(txCtx, document.Template{
			Kind:      document.Kind(req.Kind),
			Name:      strings.TrimSpace(req.Name),
			Body:      req.Body,
			IsDefault: req.IsDefault,
		})
		return err
	})
	if err != nil {
		return document.TemplateResponse{}, err
	}
	return document.NewTemplateResponse(created), nil
}

// GetTemplate implements document.DocumentService.
func (s *DocumentServiceImpl) GetTemplate(ctx context.Context, id string) (document.TemplateResponse, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return document.TemplateResponse{}, err
	}
	return document.NewTemplateResponse(t), nil
}

// ListTemplates implements document.DocumentService.
func (s *DocumentServiceImpl) ListTemplates(ctx context.Context, kind *document.Kind) ([]document.TemplateResponse, error) {
	list, err := s.templates.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	resp := make([]document.TemplateResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, document.NewTemplateResponse(t))
	}
	return resp, nil
}

// UpdateTemplate implements document.DocumentService.
func (s *DocumentServiceImpl) UpdateTemplate(ctx context.Context, req document.UpdateTemplateRequest) (document.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return document.TemplateResponse{}, err
	}

	var updated document.Template
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		t, err := s.templates.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if req.Body != nil {
			t.Body = *req.Body
		}
		if req.IsDefault != nil {
			if *req.IsDefault && !t.IsDefault {
				if err := s.templates.ClearDefault(txCtx, t.Kind); err != nil {
					return err
				}
			}
			t.IsDefault = *req.IsDefault
		}
		updated, err = s.templates.Update(txCtx, t)
		return err
	})
	if err != nil {
		return document.TemplateResponse{}, err
	}
	return document.NewTemplateResponse(updated), nil
}

// DeleteTemplate implements document.DocumentService.
func (s *DocumentServiceImpl) DeleteTemplate(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}

// templateFor picks the requested template, the kind's default, or the
// built-in body, in that order.
func (s *DocumentServiceImpl) templateFor(ctx context.Context, kind document.Kind, id *string) (*string, string, error) {
	if id != nil {
		t, err := s.templates.GetByID(ctx, *id)
		if err != nil {
			return nil, "", err
		}
		if t.Kind != kind {
			return nil, "", document.ErrTemplateNotFound
		}
		return &t.ID, t.Body, nil
	}

	t, err := s.templates.GetDefault(ctx, kind)
	switch {
	case err == nil:
		return &t.ID, t.Body, nil
	case errors.Is(err, document.ErrNoDefaultTemplate):
		body, err := builtinBody(kind)
		return nil, body, err
	default:
		return nil, "", err
	}
}

// Generate implements document.DocumentService.
func (s *DocumentServiceImpl) Generate(ctx context.Context, req document.GenerateRequest) (document.DocumentResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}
	kind := document.Kind(req.Kind)

	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	if kind == document.KindRelievingLetter && u.RelievingDate == nil {
		accepted, err := s.resignations.LatestAccepted(ctx, u.ID)
		if err != nil {
			return document.DocumentResponse{}, fmt.Errorf("failed to load resignation: %w", err)
		}
		if accepted == nil {
			return document.DocumentResponse{}, document.ErrNotRelieved
		}
		u.RelievingDate = &accepted.LastWorkingDay
	}

	templateID, body, err := s.templateFor(ctx, kind, req.TemplateID)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	values := letterValues(u, s.now())
	for k, v := range req.Fields {
		values[k] = v
	}

	title := fmt.Sprintf("%s - %s", kind.Title(), u.FullName)
	out := s.render(title, body, values)

	path, err := s.files.SaveDocument(ctx, u.ID, string(kind), string(out.Format), out.Content)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	doc := document.Document{
		UserID:     u.ID,
		TemplateID: templateID,
		Kind:       kind,
		Title:      title,
		Context:    values,
		FilePath:   path,
		Format:     out.Format,
	}
	if actor.UserID != "" {
		doc.CreatedBy = &actor.UserID
	}
	created, err := s.documents.Create(ctx, doc)
	if err != nil {
		if delErr := s.files.DeleteFile(ctx, path); delErr != nil {
			slog.Error("Failed to remove orphaned document file", "path", path, "error", delErr)
		}
		return document.DocumentResponse{}, fmt.Errorf("failed to record document: %w", err)
	}
	created.UserName = &u.FullName

	slog.Info("Document generated", "document_id", created.ID, "user_id", u.ID, "kind", kind, "format", out.Format)
	return document.NewDocumentResponse(created, downloadURL(created.ID)), nil
}

func downloadURL(id string) string {
	return "/api/v1/documents/" + id + "/download"
}

func (s *DocumentServiceImpl) getAccessible(ctx context.Context, id string) (document.Document, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return document.Document{}, err
	}
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	if !canAccess(actor, d) {
		return document.Document{}, document.ErrForbidden
	}
	return d, nil
}

// Get implements document.DocumentService.
func (s *DocumentServiceImpl) Get(ctx context.Context, id string) (document.DocumentResponse, error) {
	d, err := s.getAccessible(ctx, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return document.NewDocumentResponse(d, downloadURL(d.ID)), nil
}

// List implements document.DocumentService.
func (s *DocumentServiceImpl) List(ctx context.Context, filter document.DocumentFilter) (document.ListDocumentResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return document.ListDocumentResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return document.ListDocumentResponse{}, err
	}
	if !actor.IsHR() {
		filter.UserID = &actor.UserID
	}

	docs, total, err := s.documents.List(ctx, filter)
	if err != nil {
		return document.ListDocumentResponse{}, fmt.Errorf("failed to list documents: %w", err)
	}
	resp := document.ListDocumentResponse{Documents: make([]document.DocumentResponse, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, document.NewDocumentResponse(d, downloadURL(d.ID)))
	}
	resp.Meta = pagination.NewMeta(filter.Params, total, len(docs))
	return resp, nil
}

// Download implements document.DocumentService.
func (s *DocumentServiceImpl) Download(ctx context.Context, id string) (document.File, error) {
	d, err := s.getAccessible(ctx, id)
	if err != nil {
		return document.File{}, err
	}
	content, err := s.files.Read(ctx, d.FilePath)
	if err != nil {
		return document.File{}, err
	}
	return document.File{
		Filename:    filename(d.Title, d.Format),
		ContentType: d.Format.ContentType(),
		Format:      d.Format,
		Content:     content,
	}, nil
}

// RenderKind implements document.DocumentService.
func (s *DocumentServiceImpl) RenderKind(ctx context.Context, kind document.Kind, title string, values map[string]string) (document.File, error) {
	_, body, err := s.templateFor(ctx, kind, nil)
	if err != nil {
		return document.File{}, err
	}
	return s.render(title, body, values), nil
}

// SeedTemplates implements document.DocumentService.
func (s *DocumentServiceImpl) SeedTemplates(ctx context.Context, force bool) (document.SeedResult, error) {
	var result document.SeedResult

	for _, kind := range builtinKinds {
		body, err := builtinBody(kind)
		if err != nil {
			return result, err
		}
		name := builtinName(kind)

		err = s.tx.InTx(ctx, func(txCtx context.Context) error {
			existing, err := s.templates.FindByName(txCtx, kind, name)
			if err != nil {
				return err
			}

			switch {
			case existing == nil:
				_, err := s.templates.GetDefault(txCtx, kind)
				hasDefault := err == nil
				if err != nil && !errors.Is(err, document.ErrNoDefaultTemplate) {
					return err
				}
				if _, err := s.templates.Create(txCtx, document.Template{
					Kind:      kind,
					Name:      name,
					Body:      body,
					IsDefault: !hasDefault,
				}); err != nil {
					return err
				}
				result.Created++
			case force:
				existing.Body = body
				if _, err := s.templates.Update(txCtx, *existing); err != nil {
					return err
				}
				result.Updated++
			default:
				result.Skipped++
			}
			return nil
		})
		if err != nil {
			return result, fmt.Errorf("failed to seed %s template: %w", kind, err)
		}
	}

	slog.Info("Document templates seeded", "created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	return result, nil
}
