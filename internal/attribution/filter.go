package attribution

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// defaultIgnorePatterns are always skipped regardless of configuration.
var defaultIgnorePatterns = []string{
	".git",
	"node_modules",
	"vendor",
	"*.min.js",
	"*.lock",
	"go.sum",
	"package-lock.json",
}

// Filter decides which tracked files an attribution run skips.
// A pattern without a slash is matched against each path component, so
// "vendor" skips "a/vendor/b.go". A pattern with a slash is matched against
// the whole slash-separated path with doublestar rules, so "docs/**/*.txt"
// works too.
type Filter struct {
	patterns []string
}

// NewFilter creates a Filter with the default patterns merged with any
// additional user-supplied patterns. Duplicates are removed.
func NewFilter(extra []string) *Filter {
	seen := make(map[string]struct{}, len(defaultIgnorePatterns)+len(extra))
	var merged []string
	for _, p := range append(append([]string{}, defaultIgnorePatterns...), extra...) {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			merged = append(merged, p)
		}
	}
	return &Filter{patterns: merged}
}

// ShouldIgnore reports whether a repository-relative path matches any pattern.
func (f *Filter) ShouldIgnore(filePath string) bool {
	cleaned := path.Clean(strings.TrimPrefix(filePath, "./"))
	components := strings.Split(cleaned, "/")

	for _, pattern := range f.patterns {
		if strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, cleaned); matched {
				return true
			}
			continue
		}
		for _, component := range components {
			if matched, _ := doublestar.Match(pattern, component); matched {
				return true
			}
		}
	}
	return false
}

// Apply returns the paths that are not ignored, preserving order.
func (f *Filter) Apply(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !f.ShouldIgnore(p) {
			out = append(out, p)
		}
	}
	return out
}
