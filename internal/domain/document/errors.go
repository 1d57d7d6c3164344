package document

import "errors"

var (
	ErrTemplateNotFound  = errors.New("document template not found")
	ErrNoDefaultTemplate = errors.New("no default template for this document kind")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrForbidden         = errors.New("you cannot access this document")
	ErrNotRelieved       = errors.New("relieving letter requires an accepted resignation or relieving date")
)
