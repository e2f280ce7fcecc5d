package logger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Sanitizer masks sensitive parameter values before they are logged.
// Parameter names are derived from the compared property (password_3),
// so detection works on the name rather than on the query text.
type Sanitizer struct {
	sensitiveFields []string
	maskValue       string
	// Compiled patterns for faster matching
	patterns []*regexp.Regexp
}

// paramSuffix strips the generated counter from a parameter name.
var paramSuffix = regexp.MustCompile(`_\d+$`)

// NewSanitizer creates a new sanitizer with the specified sensitive field names.
// If no fields are provided, a default set of common sensitive field names is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = []string{
			"password", "passwd", "pwd",
			"token", "api_key", "apikey", "api_token",
			"secret", "auth", "authorization",
			"credit_card", "card_number", "cvv", "cvc",
			"ssn", "social_security",
			"private_key", "priv_key",
		}
	}

	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		// Match whole snake_case segments of the parameter name
		pattern := regexp.MustCompile(`(^|_)` + regexp.QuoteMeta(toSnake(field)) + `($|_)`)
		patterns = append(patterns, pattern)
	}

	return &Sanitizer{
		sensitiveFields: sensitiveFields,
		maskValue:       "***REDACTED***",
		patterns:        patterns,
	}
}

// IsSensitive reports whether a parameter name refers to a sensitive field.
func (s *Sanitizer) IsSensitive(name string) bool {
	base := toSnake(paramSuffix.ReplaceAllString(name, ""))
	for _, pattern := range s.patterns {
		if pattern.MatchString(base) {
			return true
		}
	}
	return false
}

// MaskParams returns a copy of params with sensitive values replaced by the mask value.
// The original map is not modified.
func (s *Sanitizer) MaskParams(params map[string]any) map[string]any {
	masked := make(map[string]any, len(params))
	for name, value := range params {
		if s.IsSensitive(name) {
			masked[name] = s.maskValue
		} else {
			masked[name] = value
		}
	}
	return masked
}

// FormatParams renders parameters as a stable, sorted string for logging.
// Sensitive values should be masked using MaskParams before calling this.
func (s *Sanitizer) FormatParams(params map[string]any) string {
	if len(params) == 0 {
		return "{}"
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + s.formatValue(params[name])
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// formatValue formats a single parameter value for logging.
// Truncates very long strings to prevent log pollution.
func (s *Sanitizer) formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	str := fmt.Sprintf("%v", v)

	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}

	return str
}

// toSnake lower-cases a camelCase name into snake_case segments.
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
