package diffparse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const twoFileDiff = `diff --git a/src/main.go b/src/main.go
index 3b18e51..a1c2d3f 100644
--- a/src/main.go
+++ b/src/main.go
@@ -12,5 +20,7 @@ func main() {
 ctx := context.Background()
-int depthLimit = 10;
+int maxDepthLimit = 10;
+int breadthLimit = 5;
 run(ctx)
-cleanup()
+defer cleanup()
+log.Println("done")
 return
diff --git a/README.md b/README.md
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/README.md
@@ -0,0 +1 @@
+# title
`

func TestParseFiles_TwoFiles(t *testing.T) {
	files, err := ParseFiles(twoFileDiff)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ParseFiles returned %d files, want 2", len(files))
	}

	want := FileDiff{
		PreImagePath:  "src/main.go",
		PostImagePath: "src/main.go",
		Hunks: []Hunk{{
			Header:        "@@ -12,5 +20,7 @@ func main() {",
			PreImageStart: 12,
			Lines: []Line{
				{Kind: Context, Content: "ctx := context.Background()", PreImageLine: 12},
				{Kind: Deleted, Content: "int depthLimit = 10;", PreImageLine: 13},
				{Kind: Added, Content: "int maxDepthLimit = 10;"},
				{Kind: Added, Content: "int breadthLimit = 5;"},
				{Kind: Context, Content: "run(ctx)", PreImageLine: 14},
				{Kind: Deleted, Content: "cleanup()", PreImageLine: 15},
				{Kind: Added, Content: "defer cleanup()"},
				{Kind: Added, Content: `log.Println("done")`},
				{Kind: Context, Content: "return", PreImageLine: 16},
			},
		}},
	}
	if diff := cmp.Diff(want, files[0]); diff != "" {
		t.Errorf("first file mismatch (-want +got):\n%s", diff)
	}

	if !files[1].IsAddedFile() {
		t.Errorf("README.md PreImagePath = %q, want added sentinel", files[1].PreImagePath)
	}
	if files[1].PostImagePath != "README.md" {
		t.Errorf("README.md PostImagePath = %q", files[1].PostImagePath)
	}
}

func TestParseFiles_PreImageNumbering(t *testing.T) {
	// The first pre-image line is numbered by the header; Added lines never
	// consume a number.
	raw := "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -12,5 +20,7 @@\n+a1\n-d1\n+a2\n c1\n-d2\n-d3\n+a3\n c2\n"
	files, err := ParseFiles(raw)
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, l := range files[0].Hunks[0].Lines {
		if l.Kind != Added {
			got = append(got, l.PreImageLine)
		}
	}
	want := []int{12, 13, 14, 15, 16}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pre-image numbering mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFiles_MultipleHunks(t *testing.T) {
	raw := `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,2 @@
-old one
+new one
 keep
@@ -40 +40 @@ trailing context
-old forty
+new forty
`
	files, err := ParseFiles(raw)
	if err != nil {
		t.Fatal(err)
	}
	hunks := files[0].Hunks
	if len(hunks) != 2 {
		t.Fatalf("got %d hunks, want 2", len(hunks))
	}
	if hunks[1].PreImageStart != 40 {
		t.Errorf("second hunk PreImageStart = %d, want 40", hunks[1].PreImageStart)
	}
	del := hunks[1].DeletedLines()
	if len(del) != 1 || del[0].PreImageLine != 40 || del[0].Content != "old forty" {
		t.Errorf("second hunk deleted lines = %+v", del)
	}
}

func TestParseFiles_DeletedLineLooksLikeHeader(t *testing.T) {
	raw := "diff --git a/x.md b/x.md\n--- a/x.md\n+++ b/x.md\n@@ -3,2 +3,2 @@\n--- separator\n+++ separator\n plain\n"
	files, err := ParseFiles(raw)
	if err != nil {
		t.Fatal(err)
	}
	f := files[0]
	if f.PreImagePath != "x.md" || f.PostImagePath != "x.md" {
		t.Errorf("paths = %q, %q; hunk body must not overwrite them", f.PreImagePath, f.PostImagePath)
	}
	lines := f.Hunks[0].Lines
	if lines[0].Kind != Deleted || lines[0].Content != "-- separator" {
		t.Errorf("lines[0] = %+v", lines[0])
	}
	if lines[1].Kind != Added || lines[1].Content != "++ separator" {
		t.Errorf("lines[1] = %+v", lines[1])
	}
}

func TestParseFiles_NoNewlineMarker(t *testing.T) {
	raw := "diff --git a/n b/n\n--- a/n\n+++ b/n\n@@ -1 +1 @@\n-last\n\\ No newline at end of file\n+last line\n\\ No newline at end of file\n"
	files, err := ParseFiles(raw)
	if err != nil {
		t.Fatal(err)
	}
	lines := files[0].Hunks[0].Lines
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
}

func TestParseFiles_RenameAndQuotedPaths(t *testing.T) {
	raw := "diff --git a/old name.txt b/new name.txt\nsimilarity index 90%\nrename from old name.txt\nrename to new name.txt\n--- \"a/old name.txt\"\n+++ \"b/new name.txt\"\n@@ -1 +1 @@\n-x\n+y\n"
	files, err := ParseFiles(raw)
	if err != nil {
		t.Fatal(err)
	}
	if files[0].PreImagePath != "old name.txt" || files[0].PostImagePath != "new name.txt" {
		t.Errorf("paths = %q -> %q", files[0].PreImagePath, files[0].PostImagePath)
	}
	if got := ForPath(files, "old name.txt"); len(got) != 0 {
		t.Errorf("ForPath(old name) = %d chunks, renames are not followed", len(got))
	}
	if got := ForPath(files, "new name.txt"); len(got) != 1 {
		t.Errorf("ForPath(new name) = %d chunks, want 1", len(got))
	}
}

func TestParseFiles_BinaryChunkHasNoHunks(t *testing.T) {
	raw := "diff --git a/img.png b/img.png\nindex 1..2 100644\nBinary files a/img.png and b/img.png differ\n"
	files, err := ParseFiles(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || len(files[0].Hunks) != 0 || files[0].PostImagePath != "" {
		t.Errorf("binary chunk parsed as %+v", files)
	}
}

func TestParseFiles_Empty(t *testing.T) {
	files, err := ParseFiles("")
	if err != nil || files != nil {
		t.Errorf("ParseFiles(\"\") = %v, %v; want nil, nil", files, err)
	}
}

func TestParseHunkHeader(t *testing.T) {
	cases := []struct {
		header  string
		want    int
		wantErr bool
	}{
		{header: "@@ -12,5 +20,7 @@", want: 12},
		{header: "@@ -1 +1 @@", want: 1},
		{header: "@@ -0,0 +1,3 @@", want: 0},
		{header: "@@ -7,2 +7 @@ func x() {", want: 7},
		{header: "@@ garbage @@", wantErr: true},
		{header: "@@ -a,1 +1 @@", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			got, err := ParseHunkHeader(tc.header)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedHunkHeader) {
					t.Errorf("err = %v, want ErrMalformedHunkHeader", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHunkHeader: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseHunkHeader = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseFiles_MalformedHeaderIsFatal(t *testing.T) {
	raw := "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ broken @@\n-x\n"
	if _, err := ParseFiles(raw); !errors.Is(err, ErrMalformedHunkHeader) {
		t.Errorf("ParseFiles err = %v, want ErrMalformedHunkHeader", err)
	}
}

func TestHunk_HasAddedLine(t *testing.T) {
	h := Hunk{Lines: []Line{
		{Kind: Deleted, Content: "target"},
		{Kind: Added, Content: "target plus more"},
		{Kind: Context, Content: "target"},
	}}
	if h.HasAddedLine("target") {
		t.Error("HasAddedLine matched a deleted/context line or a prefix")
	}
	h.Lines = append(h.Lines, Line{Kind: Added, Content: "target"})
	if !h.HasAddedLine("target") {
		t.Error("HasAddedLine = false, want true")
	}
}

func TestHunk_HasAddedLineIgnoresTrailingWhitespace(t *testing.T) {
	h := Hunk{Lines: []Line{{Kind: Added, Content: "int limit = 0;  \t"}}}
	cases := []struct {
		content string
		want    bool
	}{
		{"int limit = 0;", true},
		{"int limit = 0; ", true},
		{"int limit = 0;\r", true},
		{" int limit = 0;", false},
		{"int limit = 0", false},
	}
	for _, tc := range cases {
		if got := h.HasAddedLine(tc.content); got != tc.want {
			t.Errorf("HasAddedLine(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}
