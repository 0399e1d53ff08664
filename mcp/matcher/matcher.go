package matcher

import "strings"

// None is a pattern that matches nothing; it lets a config disable every
// candidate without leaving the list empty (which means "use defaults").
const None = "none"

// Match reports whether name satisfies pattern using common CLI semantics
// adopted across the project.
func Match(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == "" || pattern == None {
		return false
	}
	return strings.HasPrefix(name, pattern)
}

// MatchAny reports whether name is selected by patterns. Patterns prefixed
// with "!" exclude matching names and take precedence over inclusions.
func MatchAny(patterns []string, name string) bool {
	matched := false
	for _, pattern := range patterns {
		if excluded, ok := strings.CutPrefix(pattern, "!"); ok {
			if Match(excluded, name) {
				return false
			}
			continue
		}
		if Match(pattern, name) {
			matched = true
		}
	}
	return matched
}
