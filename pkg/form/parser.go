package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation is the part of an OpenAPI operation the form builder needs.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody *openapi3.Schema
}

// ParseOperations loads an OpenAPI document and indexes its operations by
// operationId. References are resolved and the document is validated.
func ParseOperations(ctx context.Context, data []byte) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("form: load openapi document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("form: validate openapi document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("form: openapi document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		collectOperation(operations, http.MethodGet, path, item.Get)
		collectOperation(operations, http.MethodPost, path, item.Post)
		collectOperation(operations, http.MethodPut, path, item.Put)
		collectOperation(operations, http.MethodPatch, path, item.Patch)
		collectOperation(operations, http.MethodDelete, path, item.Delete)
	}
	return operations, nil
}

func collectOperation(target map[string]Operation, method, path string, op *openapi3.Operation) {
	if op == nil {
		return
	}
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	target[id] = Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		RequestBody: requestSchema(op.RequestBody),
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	media, ok := body.Value.Content["application/json"]
	if !ok || media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}
