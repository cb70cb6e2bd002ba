package form

import "errors"

var (
	// ErrEmptyDocument is returned when the OpenAPI payload is blank.
	ErrEmptyDocument = errors.New("form: openapi document is empty")
	// ErrOperationNotFound is returned when the requested operation id is not
	// part of the document.
	ErrOperationNotFound = errors.New("form: operation not found")
	// ErrNoRequestBody is returned when the operation has no JSON request body.
	ErrNoRequestBody = errors.New("form: operation has no json request body")
)
