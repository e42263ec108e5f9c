package walker

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Ning0612/Dirdiff/internal/domain"
)

// Matcher holds compiled exclusion globs.
//
// A pattern containing "/" is matched against the whole relative path,
// any other pattern against the base name. A trailing "/" is accepted and
// ignored, so "node_modules/" and "node_modules" are equivalent.
type Matcher struct {
	full []glob.Glob
	base []glob.Glob
}

// NewMatcher compiles patterns; an empty list yields a matcher that never matches
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range patterns {
		pattern := strings.TrimSuffix(strings.TrimSpace(raw), "/")
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", domain.ErrInvalidPattern, raw, err)
		}

		if strings.Contains(pattern, "/") {
			m.full = append(m.full, g)
		} else {
			m.base = append(m.base, g)
		}
	}
	return m, nil
}

// Match reports whether the slash separated relative path is excluded
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}

	for _, g := range m.full {
		if g.Match(rel) {
			return true
		}
	}

	base := path.Base(rel)
	for _, g := range m.base {
		if g.Match(base) {
			return true
		}
	}
	return false
}
