package form

import (
	_ "embed"
)

//go:embed openapi/loans.yaml
var defaultDocument []byte

// DefaultDocument returns a copy of the bundled OpenAPI document for
// /api/loans.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}
