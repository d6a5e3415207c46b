package attribution

import "testing"

func TestFilterDefaultPatterns(t *testing.T) {
	f := NewFilter(nil)

	cases := []struct {
		path string
		want bool
	}{
		{".git/config", true},
		{"node_modules/package.json", true},
		{"web/node_modules/react/index.js", true},
		{"vendor/github.com/x/y.go", true},
		{"static/app.min.js", true},
		{"go.sum", true},
		{"Cargo.lock", true},
		{"main.go", false},
		{"src/app.ts", false},
		{"internal/vendors/list.go", false},
		{"README.md", false},
	}

	for _, tc := range cases {
		if got := f.ShouldIgnore(tc.path); got != tc.want {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestFilterCustomPatterns(t *testing.T) {
	f := NewFilter([]string{"*.log", "tmp", "docs/**/*.txt", ""})

	cases := []struct {
		path string
		want bool
	}{
		{"app.log", true},
		{"logs/error.log", true},
		{"app.txt", false},
		{"tmp/cache", true},
		{"data/tmp/file", true},
		{"docs/a/b/notes.txt", true},
		{"docs/notes.txt", true},
		{"src/docs/notes.txt", false},
		{"./tmp/x", true},
		// Default patterns still work.
		{"vendor/x.go", true},
	}

	for _, tc := range cases {
		if got := f.ShouldIgnore(tc.path); got != tc.want {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestFilterDuplicatePatterns(t *testing.T) {
	f := NewFilter([]string{".git", "vendor", "vendor"})
	if len(f.patterns) != len(defaultIgnorePatterns) {
		t.Errorf("patterns = %v, want defaults only", f.patterns)
	}
}

func TestFilterApply(t *testing.T) {
	f := NewFilter([]string{"*.md"})
	got := f.Apply([]string{"a.go", "README.md", "vendor/b.go", "c/d.go"})
	want := []string{"a.go", "c/d.go"}
	if len(got) != len(want) {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Apply[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
