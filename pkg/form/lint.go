package form

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
)

// Violation is one unsupported form hint found by Lint.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint checks the x-loanform extensions on every request body property of the
// document. Keys no adapter reads and non-scalar values are reported, sorted
// by location.
func Lint(ctx context.Context, data []byte) ([]Violation, error) {
	operations, err := ParseOperations(ctx, data)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []Violation
	for _, id := range ids {
		op := operations[id]
		if op.RequestBody == nil {
			continue
		}
		result = append(result, lintSchema([]string{"operation", id, "requestBody"}, op.RequestBody)...)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result, nil
}

func lintSchema(path []string, schema *openapi3.Schema) []Violation {
	result := lintExtensions(path, schema.Extensions)

	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		ref := schema.Properties[key]
		if ref == nil || ref.Value == nil {
			continue
		}
		result = append(result, lintSchema(appendPath(path, "properties."+key), ref.Value)...)
	}
	return result
}

func lintExtensions(path []string, extensions map[string]any) []Violation {
	value, ok := extensions[pkgmodel.ExtensionKey]
	if !ok {
		return nil
	}
	nested, ok := value.(map[string]any)
	if !ok {
		return []Violation{{
			Location: formatLocation(path),
			Message:  fmt.Sprintf("%s must be an object, found %T", pkgmodel.ExtensionKey, value),
		}}
	}

	keys := make([]string, 0, len(nested))
	for key := range nested {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	for _, key := range keys {
		location := formatLocation(appendPath(path, key))
		if !pkgmodel.IsAllowedExtensionKey(key) {
			result = append(result, Violation{
				Location: location,
				Message: fmt.Sprintf("unsupported UI extension key %q (supported: %s)",
					key, strings.Join(pkgmodel.AllowedExtensionKeys(), ", ")),
			})
			continue
		}
		switch nested[key].(type) {
		case string, bool, float64, int, int64:
		default:
			result = append(result, Violation{
				Location: location,
				Message:  fmt.Sprintf("value for %q must be a string, number, or boolean (got %T)", key, nested[key]),
			})
		}
	}
	return result
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
