package tui

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText drops all markup from help text and decodes the entities the
// sanitizer leaves behind, so the prompt shows readable text.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainSanitizer().Sanitize(trimmed)))
}

func plainSanitizer() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}
