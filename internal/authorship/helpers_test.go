package authorship

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

var (
	hashA = strings.Repeat("a", 40)
	hashB = strings.Repeat("b", 40)
	hashC = strings.Repeat("c", 40)
	hashD = strings.Repeat("d", 40)
	hashE = strings.Repeat("e", 40)
)

// fakeQuerier serves canned git responses and records every query.
type fakeQuerier struct {
	mu      sync.Mutex
	parents map[string][]string
	diffs   map[string]string // "from..to"
	blames  map[string]string // "commit:path:line"
	err     error
	queries []string
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		parents: make(map[string][]string),
		diffs:   make(map[string]string),
		blames:  make(map[string]string),
	}
}

func (f *fakeQuerier) record(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
}

func (f *fakeQuerier) ParentCommits(_ context.Context, commitHash string) ([]string, error) {
	f.record("parents " + commitHash)
	if f.err != nil {
		return nil, f.err
	}
	return f.parents[commitHash], nil
}

func (f *fakeQuerier) Diff(_ context.Context, from, to string) (string, error) {
	f.record("diff " + from + ".." + to)
	if f.err != nil {
		return "", f.err
	}
	return f.diffs[from+".."+to], nil
}

func (f *fakeQuerier) BlameLine(_ context.Context, commitHash, filePath string, lineNumber int) (string, error) {
	key := fmt.Sprintf("%s:%s:%d", commitHash, filePath, lineNumber)
	f.record("blame " + key)
	if f.err != nil {
		return "", f.err
	}
	out, ok := f.blames[key]
	if !ok {
		return "", fmt.Errorf("no blame for %s", key)
	}
	return out, nil
}

// edit records that commit (child of parent) replaced deleted with added at
// line preLine of path.
func (f *fakeQuerier) edit(parent, commit, path string, preLine int, deleted, added string) {
	f.parents[commit] = append(f.parents[commit], parent)
	f.diffs[parent+".."+commit] = fileDiff(path, preLine, []string{deleted}, []string{added})
}

// blame records that line of path at commit was last written by author in
// blamedCommit at unix time secs.
func (f *fakeQuerier) blame(commit, path string, line int, blamedCommit, author string, secs int64) {
	f.blames[fmt.Sprintf("%s:%s:%d", commit, path, line)] = porcelain(blamedCommit, author, secs)
}

func fileDiff(path string, preLine int, deleted, added []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("index 1111111..2222222 100644\n")
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", preLine, len(deleted), preLine, len(added))
	for _, l := range deleted {
		b.WriteString("-" + l + "\n")
	}
	for _, l := range added {
		b.WriteString("+" + l + "\n")
	}
	return b.String()
}

func porcelain(hash, author string, secs int64) string {
	email := strings.ToLower(author) + "@example.com"
	return fmt.Sprintf(`%s 4 4 1
author %s
author-mail <%s>
author-time %d
author-tz +0000
committer %s
committer-mail <%s>
committer-time %d
committer-tz +0000
summary change
filename Main.java
	line
`, hash, author, email, secs, author, email, secs)
}

func assertQueried(t *testing.T, f *fakeQuerier, want string) {
	t.Helper()
	for _, q := range f.queries {
		if q == want {
			return
		}
	}
	t.Errorf("query %q not issued; got %v", want, f.queries)
}
