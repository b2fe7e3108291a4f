package errors

import (
	"slices"
	"strings"
	"unicode"
)

// maxNameLength bounds display and group names accepted from external input.
const maxNameLength = 256

// ValidateDisplayName checks a node name taken from a definition file or an
// API request. The registry accepts any string; loaders run this first so a
// blank name never collapses into the degenerate "r_" identifier. Names may
// span lines (DOT labels honor newlines and tabs); other control characters
// are rejected.
func ValidateDisplayName(name string) error {
	return checkName("node", name, "\n\t")
}

// ValidateGroupName checks a group name. The empty name means "no group".
// Group names label a subgraph on one line, so every control character is
// rejected.
func ValidateGroupName(name string) error {
	if name == "" {
		return nil
	}
	return checkName("group", name, "")
}

func checkName(kind, name, allowed string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return New(ErrCodeInvalidInput, "%s name cannot be blank", kind)
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidInput, "%s name too long (max %d bytes)", kind, maxNameLength)
	}
	if i := strings.IndexFunc(name, func(r rune) bool {
		return unicode.IsControl(r) && !strings.ContainsRune(allowed, r)
	}); i >= 0 {
		return New(ErrCodeInvalidInput, "%s name contains control character %U at byte %d", kind, []rune(name[i:])[0], i)
	}
	return nil
}

// ValidateFormat checks that format is one of supported.
func ValidateFormat(format string, supported []string) error {
	if slices.Contains(supported, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(supported, ", "))
}
