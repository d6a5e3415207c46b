// Package identity maps raw git name/email pairs onto canonical contributor
// identities and answers per-author file-ignore questions.
package identity

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar"

	"github.com/anthropic/linecredit/internal/config"
)

// UnknownAuthorName is the name git reports for lines that are not
// attributable to any commit author, and the name of UnknownAuthor.
const UnknownAuthorName = "-"

// Author is a canonical contributor identity. Two authors are the same
// contributor when their names are equal.
type Author struct {
	Name        string
	ignoreGlobs []string
}

// UnknownAuthor is returned for identities that cannot be resolved.
var UnknownAuthor = &Author{Name: UnknownAuthorName}

// NewAuthor creates an Author that ignores files matching any of ignoreGlobs.
// Globs use doublestar syntax, so "docs/**" matches everything under docs.
func NewAuthor(name string, ignoreGlobs []string) *Author {
	return &Author{Name: name, ignoreGlobs: ignoreGlobs}
}

// Equal reports whether a and b are the same contributor.
func (a *Author) Equal(b *Author) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name
}

// IsUnknown reports whether a is the unknown-author sentinel.
func (a *Author) IsUnknown() bool {
	return a == nil || a.Name == UnknownAuthorName
}

// IsIgnoringFile reports whether the author's ignore globs match filePath.
func (a *Author) IsIgnoringFile(filePath string) bool {
	if a == nil {
		return false
	}
	filePath = strings.TrimPrefix(filePath, "./")
	for _, g := range a.ignoreGlobs {
		matched, err := doublestar.Match(g, filePath)
		if err != nil {
			log.Printf("identity: bad ignore glob %q for %s: %v", g, a.Name, err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// String returns the author's canonical name.
func (a *Author) String() string {
	if a == nil {
		return UnknownAuthorName
	}
	return a.Name
}

// Resolver turns a raw name/email pair from git into an Author.
type Resolver interface {
	Resolve(name, email string) *Author
}

// Registry resolves identities from configured authors. With no configured
// authors every distinct git name becomes its own Author; once authors are
// configured, unmatched identities resolve to UnknownAuthor.
type Registry struct {
	open bool

	mu      sync.Mutex
	byName  map[string]*Author
	byEmail map[string]*Author
}

// NewRegistry builds a Registry from the configured authors. Each entry's
// name, aliases and emails all resolve to the same Author. Aliases that look
// like email addresses are matched as emails.
func NewRegistry(entries []config.AuthorConfig) *Registry {
	r := &Registry{
		open:    len(entries) == 0,
		byName:  make(map[string]*Author),
		byEmail: make(map[string]*Author),
	}
	for _, e := range entries {
		a := NewAuthor(e.Name, e.IgnoreGlobs)
		r.byName[e.Name] = a
		for _, alias := range e.Aliases {
			if strings.Contains(alias, "@") {
				r.byEmail[strings.ToLower(alias)] = a
				continue
			}
			r.byName[alias] = a
		}
		for _, email := range e.Emails {
			r.byEmail[strings.ToLower(email)] = a
		}
	}
	return r
}

// Resolve returns the Author for a git name/email pair. Names are matched
// exactly, emails case-insensitively; the name wins when both match.
func (r *Registry) Resolve(name, email string) *Author {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.Trim(strings.TrimSpace(email), "<>"))

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.byName[name]; ok {
		return a
	}
	if a, ok := r.byEmail[email]; ok && email != "" {
		return a
	}
	if !r.open || name == "" || name == UnknownAuthorName {
		return UnknownAuthor
	}

	a := NewAuthor(name, nil)
	r.byName[name] = a
	return a
}

// Authors returns the distinct authors known to the registry, sorted by name.
func (r *Registry) Authors() []*Author {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[*Author]bool)
	var out []*Author
	for _, a := range r.byName {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
