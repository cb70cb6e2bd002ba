package loan

import "fmt"

// ValidationError reports a form value that cannot be turned into a record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("loan: %s: %s", e.Field, e.Message)
}

func fieldError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
