package vanilla

import (
	"sort"
	"strings"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "lf-" + trimmed
}

// inputType maps a field to the HTML input type.
func inputType(fieldType, format, widget string) string {
	switch {
	case widget == "email" || format == "email":
		return "email"
	case format == "date":
		return "date"
	case widget == "tel":
		return "tel"
	case fieldType == "integer" || fieldType == "number" || widget == "currency":
		return "number"
	default:
		return "text"
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := strings.TrimSpace(vars[key])
		if value == "" || strings.ContainsAny(value, ";{}<>") {
			continue
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
