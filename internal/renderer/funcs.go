package renderer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFuncs returns the functions installed in every new Environment.
//
//	title    "hello world" -> "Hello World"
//	upper    "a" -> "A"
//	lower    "A" -> "a"
//	trim     strips leading and trailing white space
//	default  {{.name | default "anonymous"}}
func DefaultFuncs() map[string]any {
	return map[string]any{
		"title":   title,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"trim":    strings.TrimSpace,
		"default": defaultValue,
	}
}

func title(s string) string {
	return cases.Title(language.English).String(s)
}

// defaultValue returns def when v is nil or empty.
func defaultValue(def, v any) any {
	if isEmpty(v) {
		return def
	}
	return v
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case fmt.Stringer:
		return val.String() == ""
	default:
		return false
	}
}
