package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type templateRepositoryImpl struct {
	db *database.DB
}

func NewTemplateRepository(db *database.DB) document.TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

const templateColumns = `id, kind, name, body, is_default, created_at, updated_at`

func scanTemplate(row pgx.Row) (document.Template, error) {
	var t document.Template
	err := row.Scan(&t.ID, &t.Kind, &t.Name, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create implements document.TemplateRepository.
func (r *templateRepositoryImpl) Create(ctx context.Context, t document.Template) (document.Template, error) {
	query := `
		INSERT INTO document_templates (kind, name, body, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + templateColumns
	return scanTemplate(GetQuerier(ctx, r.db).QueryRow(ctx, query, t.Kind, t.Name, t.Body, t.IsDefault))
}

// GetByID implements document.TemplateRepository.
func (r *templateRepositoryImpl) GetByID(ctx context.Context, id string) (document.Template, error) {
	t, err := scanTemplate(GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT `+templateColumns+` FROM document_templates WHERE id = $1`, id))
	if err != nil {
		return document.Template{}, notFound(err, document.ErrTemplateNotFound)
	}
	return t, nil
}

// GetDefault implements document.TemplateRepository.
func (r *templateRepositoryImpl) GetDefault(ctx context.Context, kind document.Kind) (document.Template, error) {
	t, err := scanTemplate(GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT `+templateColumns+` FROM document_templates WHERE kind = $1 AND is_default`, kind))
	if err != nil {
		return document.Template{}, notFound(err, document.ErrNoDefaultTemplate)
	}
	return t, nil
}

// FindByName implements document.TemplateRepository.
func (r *templateRepositoryImpl) FindByName(ctx context.Context, kind document.Kind, name string) (*document.Template, error) {
	t, err := scanTemplate(GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT `+templateColumns+` FROM document_templates WHERE kind = $1 AND name = $2 ORDER BY created_at LIMIT 1`, kind, name))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// List implements document.TemplateRepository.
func (r *templateRepositoryImpl) List(ctx context.Context, kind *document.Kind) ([]document.Template, error) {
	var c conditions
	if kind != nil {
		c.add("kind = $%d", *kind)
	}
	rows, err := GetQuerier(ctx, r.db).Query(ctx,
		`SELECT `+templateColumns+` FROM document_templates `+c.where()+` ORDER BY kind, is_default DESC, name`, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []document.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Update implements document.TemplateRepository.
func (r *templateRepositoryImpl) Update(ctx context.Context, t document.Template) (document.Template, error) {
	query := `
		UPDATE document_templates
		SET name = $1, body = $2, is_default = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + templateColumns
	updated, err := scanTemplate(GetQuerier(ctx, r.db).QueryRow(ctx, query, t.Name, t.Body, t.IsDefault, t.ID))
	if err != nil {
		return document.Template{}, notFound(err, document.ErrTemplateNotFound)
	}
	return updated, nil
}

// Delete implements document.TemplateRepository.
func (r *templateRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM document_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return document.ErrTemplateNotFound
	}
	return nil
}

// ClearDefault implements document.TemplateRepository.
func (r *templateRepositoryImpl) ClearDefault(ctx context.Context, kind document.Kind) error {
	_, err := GetQuerier(ctx, r.db).Exec(ctx,
		`UPDATE document_templates SET is_default = FALSE, updated_at = NOW() WHERE kind = $1 AND is_default`, kind)
	return err
}

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

const documentColumns = `
	g.id, g.user_id, g.template_id, g.kind, g.title, g.context, g.file_path,
	g.format, g.created_by, g.created_at, u.full_name`

const documentFrom = `FROM generated_documents g JOIN users u ON u.id = g.user_id`

func scanDocument(row pgx.Row) (document.Document, error) {
	var (
		d      document.Document
		rawCtx []byte
	)
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.TemplateID,
		&d.Kind,
		&d.Title,
		&rawCtx,
		&d.FilePath,
		&d.Format,
		&d.CreatedBy,
		&d.CreatedAt,
		&d.UserName,
	)
	if err != nil {
		return document.Document{}, err
	}
	if len(rawCtx) > 0 {
		if err := json.Unmarshal(rawCtx, &d.Context); err != nil {
			return document.Document{}, fmt.Errorf("failed to unmarshal document context: %w", err)
		}
	}
	return d, nil
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, d document.Document) (document.Document, error) {
	rawCtx, err := json.Marshal(d.Context)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to marshal document context: %w", err)
	}

	query := `
		INSERT INTO generated_documents (user_id, template_id, kind, title, context, file_path, format, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id string
	err = GetQuerier(ctx, r.db).QueryRow(ctx, query,
		d.UserID, d.TemplateID, d.Kind, d.Title, rawCtx, d.FilePath, d.Format, d.CreatedBy,
	).Scan(&id)
	if err != nil {
		return document.Document{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (document.Document, error) {
	d, err := scanDocument(GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT `+documentColumns+` `+documentFrom+` WHERE g.id = $1`, id))
	if err != nil {
		return document.Document{}, notFound(err, document.ErrDocumentNotFound)
	}
	return d, nil
}

// List implements document.DocumentRepository.
func (r *documentRepositoryImpl) List(ctx context.Context, filter document.DocumentFilter) ([]document.Document, int64, error) {
	var c conditions
	if filter.UserID != nil {
		c.add("g.user_id = $%d", *filter.UserID)
	}
	if filter.Kind != nil {
		c.add("g.kind = $%d", *filter.Kind)
	}

	q := GetQuerier(ctx, r.db)
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) `+documentFrom+` `+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY g.created_at DESC LIMIT %s OFFSET %s`,
		documentColumns, documentFrom, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}
