package model

import (
	"fmt"
	"strings"
)

// ExtensionKey is the vendor extension carrying form hints in the OpenAPI
// document.
const ExtensionKey = "x-loanform"

// ParseUIExtensions flattens the x-loanform extension object into string
// metadata. Nested objects are skipped. It returns nil when nothing applies.
func ParseUIExtensions(ext map[string]any) map[string]string {
	raw, ok := ext[ExtensionKey].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	out := make(map[string]string, len(raw))
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		switch typed := value.(type) {
		case nil, map[string]any, []any:
			continue
		case string:
			if trimmed := strings.TrimSpace(typed); trimmed != "" {
				out[key] = trimmed
			}
		default:
			out[key] = fmt.Sprint(typed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var allowedExtensionKeys = []string{"cli.help", "placeholder", "step", "widget"}

// AllowedExtensionKeys lists the x-loanform keys the adapters read.
func AllowedExtensionKeys() []string {
	return append([]string(nil), allowedExtensionKeys...)
}

// IsAllowedExtensionKey reports whether key is read by any adapter.
func IsAllowedExtensionKey(key string) bool {
	for _, allowed := range allowedExtensionKeys {
		if allowed == key {
			return true
		}
	}
	return false
}
