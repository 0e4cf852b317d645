package renderer

import (
	"path"
	"strings"
)

// AutoescapePolicy decides from a template name whether its output is
// HTML-escaped.
type AutoescapePolicy func(name string) bool

// SelectAutoescape returns a policy enabling escaping for templates whose
// extension is one of exts. Extensions are matched case-insensitively, with
// or without the leading dot. With no extensions the policy covers html, htm
// and xml.
func SelectAutoescape(exts ...string) AutoescapePolicy {
	if len(exts) == 0 {
		exts = []string{"html", "htm", "xml"}
	}

	enabled := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			enabled[ext] = true
		}
	}

	return func(name string) bool {
		ext := strings.TrimPrefix(path.Ext(name), ".")
		return enabled[strings.ToLower(ext)]
	}
}

// NeverAutoescape disables escaping for every template.
func NeverAutoescape(string) bool { return false }
