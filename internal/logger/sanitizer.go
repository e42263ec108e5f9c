package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitizer masks user home directories and secrets in log output.
//
// Roots and relative paths are logged constantly, so every string value is
// rewritten with the same rules as the message. Values under sensitive keys
// (password, token, ...) are masked entirely. Non-string values are left as is.
type Sanitizer struct {
	rules []SanitizeRule
}

// SanitizeRule is one rewrite applied to messages and string values
type SanitizeRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewSanitizer creates a sanitizer with the default rules
func NewSanitizer() *Sanitizer {
	return &Sanitizer{rules: defaultSanitizeRules()}
}

func defaultSanitizeRules() []SanitizeRule {
	return []SanitizeRule{
		// Unix and macOS home directories
		{regexp.MustCompile(`/home/[^/\s]+`), "/home/***"},
		{regexp.MustCompile(`/Users/[^/\s]+`), "/Users/***"},

		// Windows profiles, any drive letter or UNC share
		{regexp.MustCompile(`(?i)[A-Z]:\\Users\\[^\\\s]+`), "***:\\Users\\***"},
		{regexp.MustCompile(`(?i)\\\\[^\\]+\\[^\\]+\\Users\\[^\\\s]+`), "\\\\***\\***\\Users\\***"},

		// Credentials embedded in URLs and key=value pairs
		{regexp.MustCompile(`://[^/\s:@]+:[^/\s@]+@`), "://***:***@"},
		{regexp.MustCompile(`(?i)(password|passwd|token|secret)=\S+`), "$1=***"},
	}
}

// Sanitize applies every rule to input
func (s *Sanitizer) Sanitize(input string) string {
	for _, rule := range s.rules {
		input = rule.Pattern.ReplaceAllString(input, rule.Replacement)
	}
	return input
}

// SanitizeArgs sanitizes slog style key/value arguments.
// The input slice is never modified.
func (s *Sanitizer) SanitizeArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}

		var value string
		switch v := result[i+1].(type) {
		case string:
			value = v
		case error:
			value = v.Error()
		case fmt.Stringer:
			value = v.String()
		default:
			continue
		}

		if isSensitiveKey(key) {
			result[i+1] = maskValue(value)
		} else {
			result[i+1] = s.Sanitize(value)
		}
	}

	return result
}

var sensitiveKeys = []string{"password", "passwd", "token", "secret", "credential", "api_key", "apikey"}

// isSensitiveKey reports whether values under key must be masked
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sk := range sensitiveKeys {
		if strings.Contains(lower, sk) {
			return true
		}
	}
	return false
}

// maskValue keeps at most the first and last character
func maskValue(value string) string {
	switch {
	case len(value) <= 2:
		return "***"
	case len(value) <= 8:
		return value[:1] + "***"
	default:
		return value[:1] + "***" + value[len(value)-1:]
	}
}
