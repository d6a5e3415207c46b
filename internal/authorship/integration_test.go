package authorship_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropic/linecredit/internal/authorship"
	"github.com/anthropic/linecredit/internal/gitint"
	"github.com/anthropic/linecredit/internal/identity"
)

type testRepo struct {
	t   *testing.T
	dir string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := &testRepo{t: t, dir: t.TempDir()}
	r.git("init")
	r.git("symbolic-ref", "HEAD", "refs/heads/main")
	r.git("config", "user.email", "test@test.com")
	r.git("config", "user.name", "Test")
	return r
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func (r *testRepo) commit(file, content, author string) string {
	r.t.Helper()
	path := filepath.Join(r.dir, file)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatal(err)
	}
	r.git("add", file)
	r.git("-c", "user.name="+author, "-c", "user.email="+strings.ToLower(author)+"@example.com",
		"commit", "-m", "edit "+file)
	return r.git("rev-parse", "HEAD")
}

func TestAnalyze_RealRepository(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("Main.java", "class Main {\nint depthLimit = 10;\n}\n", "Alice")
	minor := repo.commit("Main.java", "class Main {\nint maxDepthLimit = 10;\n}\n", "Bob")
	major := repo.commit("Main.java", "class Main {\nreturn compute(alpha, beta, gamma);\n}\n", "Bob")

	client, err := gitint.Open(repo.dir)
	if err != nil {
		t.Fatal(err)
	}
	registry := identity.NewRegistry(nil)
	bob := registry.Resolve("Bob", "bob@example.com")
	a := authorship.NewAnalyzer(client, registry, authorship.DefaultPolicy())
	ctx := context.Background()

	full, err := a.Analyze(ctx, "Main.java", "int maxDepthLimit = 10;", minor, bob)
	if err != nil {
		t.Fatal(err)
	}
	if full {
		t.Error("minor edit of Alice's line should not give Bob full credit")
	}

	full, err = a.Analyze(ctx, "Main.java", "return compute(alpha, beta, gamma);", major, bob)
	if err != nil {
		t.Fatal(err)
	}
	if !full {
		t.Error("rewritten line should give Bob full credit")
	}

	alice := registry.Resolve("Alice", "alice@example.com")
	full, err = a.Analyze(ctx, "Main.java", "int depthLimit = 10;", repo.git("rev-parse", "HEAD~2"), alice)
	if err != nil {
		t.Fatal(err)
	}
	if !full {
		t.Error("line in the root commit should give Alice full credit")
	}
}

func TestAnalyze_RealRepositorySameAuthorChain(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("Main.java", "int depth = 10;\n", "Alice")
	repo.commit("Main.java", "int depthLimit = 10;\n", "Bob")
	head := repo.commit("Main.java", "int maxDepthLimit = 10;\n", "Bob")

	client, err := gitint.Open(repo.dir)
	if err != nil {
		t.Fatal(err)
	}
	registry := identity.NewRegistry(nil)
	a := authorship.NewAnalyzer(client, registry, authorship.DefaultPolicy())

	full, err := a.Analyze(context.Background(), "Main.java", "int maxDepthLimit = 10;", head,
		registry.Resolve("Bob", "bob@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if full {
		t.Error("Bob's chain of cosmetic edits traces back to Alice and should not get full credit")
	}
}
