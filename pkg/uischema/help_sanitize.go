package uischema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// sanitizeHelpText keeps a handful of inline elements and drops everything
// else.
func sanitizeHelpText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AllowURLSchemes("https")
		policy.AllowElements("a")
		helpPolicy = policy
	})
	return helpPolicy
}
