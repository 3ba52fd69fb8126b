package diffparse

import (
	"testing"
)

const sampleDiff = `diff --git a/cmd/main.go b/cmd/main.go
index 1234567..89abcde 100644
--- a/cmd/main.go
+++ b/cmd/main.go
@@ -10,6 +10,7 @@ func main() {
 	run()
 	cleanup()
-	exit(1)
+	exit(0)
+	report()
 	flush()
 	done()
 	wait()
diff --git a/docs/logo.png b/docs/logo.png
index 0000000..1111111 100644
Binary files a/docs/logo.png and b/docs/logo.png differ
diff --git a/pkg/old.go b/pkg/new.go
similarity index 95%
rename from pkg/old.go
rename to pkg/new.go
index 2222222..3333333 100644
--- a/pkg/old.go
+++ b/pkg/new.go
@@ -1,2 +1,2 @@
 package pkg
-var x = 1
+var x = 2
`

func TestParseMultiFile(t *testing.T) {
	files := Parse(sampleDiff)
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}

	f := files[0]
	if f.Name != "cmd/main.go" {
		t.Errorf("expected name cmd/main.go, got %q", f.Name)
	}
	if f.Type != FileModified {
		t.Errorf("expected modified, got %v", f.Type)
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(f.Hunks))
	}
	h := f.Hunks[0]
	if h.OldStart != 10 || h.OldLines != 6 || h.NewStart != 10 || h.NewLines != 7 {
		t.Errorf("wrong hunk coordinates: %+v", h)
	}
	if h.Section != "func main() {" {
		t.Errorf("expected section 'func main() {', got %q", h.Section)
	}

	if !files[1].IsBinary {
		t.Error("expected second file to be binary")
	}
	if len(files[1].Hunks) != 0 {
		t.Error("binary file should have no hunks")
	}

	if files[2].Type != FileRenamedModified {
		t.Errorf("expected renamed+modified, got %v", files[2].Type)
	}
	if files[2].PrevName != "pkg/old.go" || files[2].Name != "pkg/new.go" {
		t.Errorf("wrong rename paths: %q -> %q", files[2].PrevName, files[2].Name)
	}
}

func TestParseBlocks(t *testing.T) {
	files := Parse(sampleDiff)
	blocks := files[0].Hunks[0].Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if !blocks[0].IsContext() || len(blocks[0].Context) != 2 {
		t.Errorf("first block should be 2 context lines, got %+v", blocks[0])
	}
	if blocks[1].IsContext() {
		t.Error("second block should be a change block")
	}
	if len(blocks[1].Deletions) != 1 || len(blocks[1].Additions) != 2 {
		t.Errorf("expected 1 deletion / 2 additions, got %d/%d",
			len(blocks[1].Deletions), len(blocks[1].Additions))
	}
	if !blocks[2].IsContext() || len(blocks[2].Context) != 3 {
		t.Errorf("third block should be 3 context lines, got %+v", blocks[2])
	}
}

func TestParseEmpty(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("empty input should yield no files, got %d", len(got))
	}
	if got := Parse("\n  \n"); len(got) != 0 {
		t.Errorf("blank input should yield no files, got %d", len(got))
	}
}

func TestParseNewAndDeleted(t *testing.T) {
	text := `diff --git a/added.txt b/added.txt
new file mode 100644
--- /dev/null
+++ b/added.txt
@@ -0,0 +1,2 @@
+hello
+world
diff --git a/gone.txt b/gone.txt
deleted file mode 100644
--- a/gone.txt
+++ /dev/null
@@ -1,1 +0,0 @@
-bye
`
	files := Parse(text)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Type != FileNew || files[0].Name != "added.txt" {
		t.Errorf("expected new added.txt, got %v %q", files[0].Type, files[0].Name)
	}
	if files[1].Type != FileDeleted || files[1].Name != "gone.txt" {
		t.Errorf("expected deleted gone.txt, got %v %q", files[1].Type, files[1].Name)
	}
}

func TestParseMalformedHunkSkipped(t *testing.T) {
	text := `--- a/x.txt
+++ b/x.txt
@@ garbage header @@
+nope
@@ -1,1 +1,1 @@
-a
+b
`
	files := Parse(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if len(files[0].Hunks) != 1 {
		t.Fatalf("expected the malformed hunk to be skipped, got %d hunks", len(files[0].Hunks))
	}
	if files[0].Hunks[0].OldStart != 1 {
		t.Errorf("wrong surviving hunk: %+v", files[0].Hunks[0])
	}
}

func TestStableIDs(t *testing.T) {
	first := Parse(sampleDiff)
	second := Parse(sampleDiff)
	if len(first) != len(second) {
		t.Fatal("reparse changed file count")
	}
	for i := range first {
		if first[i].ID() != second[i].ID() {
			t.Errorf("file id changed on reparse: %q vs %q", first[i].ID(), second[i].ID())
		}
		for j := range first[i].Hunks {
			a := first[i].Hunks[j].ID(first[i].ID())
			b := second[i].Hunks[j].ID(second[i].ID())
			if a != b {
				t.Errorf("hunk id changed on reparse: %q vs %q", a, b)
			}
		}
	}
	if first[2].ID() != "pkg/old.go->pkg/new.go" {
		t.Errorf("rename id should combine both names, got %q", first[2].ID())
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"no tabs", "plain text", 4, "plain text"},
		{"leading tab", "\tindented", 4, "    indented"},
		{"mid-line tab", "ab\tcd", 4, "ab  cd"},
		{"tab at stop", "abcd\tx", 4, "abcd    x"},
		{"two tabs", "\t\tdeep", 4, "        deep"},
		{"width 8", "\tx", 8, "        x"},
		{"width 2", "a\tb", 2, "a b"},
		{"zero width uses default", "\tx", 0, "    x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTabs(tt.input, tt.width); got != tt.expected {
				t.Errorf("ExpandTabs(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestParseTabsUsesConfiguredWidth(t *testing.T) {
	text := "--- a/f.go\n+++ b/f.go\n@@ -1,1 +1,1 @@\n-\told\n+\tnew\n"
	files := ParseTabs(text, 8)
	if len(files) != 1 || len(files[0].Hunks) != 1 {
		t.Fatalf("expected 1 file with 1 hunk, got %+v", files)
	}
	b := files[0].Hunks[0].Blocks[0]
	if b.Deletions[0] != "        old" {
		t.Errorf("deletion = %q, want 8-space indent", b.Deletions[0])
	}
	if b.Additions[0] != "        new" {
		t.Errorf("addition = %q, want 8-space indent", b.Additions[0])
	}
}

func TestContentTabExpansion(t *testing.T) {
	text := "--- a/t.go\n+++ b/t.go\n@@ -1,1 +1,1 @@\n-\told\n+\tnew\n"
	files := Parse(text)
	if len(files) != 1 || len(files[0].Hunks) != 1 {
		t.Fatal("parse failed")
	}
	b := files[0].Hunks[0].Blocks[0]
	if b.Deletions[0] != "    old" || b.Additions[0] != "    new" {
		t.Errorf("tabs not expanded: %q / %q", b.Deletions[0], b.Additions[0])
	}
}

func TestContextSample(t *testing.T) {
	h := &Hunk{Blocks: []Block{
		{Context: []string{"  foo()", "", "bar()"}},
		{Deletions: []string{"x"}, Additions: []string{"y"}},
		{Context: []string{"baz()", "quux()", "more()", "even()"}},
	}}
	got := h.ContextSample(5)
	want := []string{"foo()", "bar()", "baz()", "quux()", "more()"}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseTrailingNewline(t *testing.T) {
	// Real jj/git output always ends in a newline; the split's final
	// empty element must not become a phantom context line.
	files := Parse("--- a/f.go\n+++ b/f.go\n@@ -1,1 +1,1 @@\n-a\n+b\n")
	if len(files) != 1 || len(files[0].Hunks) != 1 {
		t.Fatalf("expected 1 file with 1 hunk, got %+v", files)
	}
	h := files[0].Hunks[0]
	if len(h.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %+v", len(h.Blocks), h.Blocks)
	}
	b := h.Blocks[0]
	if len(b.Context) != 0 || len(b.Deletions) != 1 || len(b.Additions) != 1 {
		t.Errorf("expected only the -a/+b pair, got %+v", b)
	}
}

func TestParseRowCountMatchesHeader(t *testing.T) {
	// The hunk body must hold exactly the line counts the header
	// declares, with and without a trailing newline.
	for _, text := range []string{
		"--- a/f.go\n+++ b/f.go\n@@ -2,3 +2,4 @@\n ctx\n-a\n+b\n+c\n ctx2\n",
		"--- a/f.go\n+++ b/f.go\n@@ -2,3 +2,4 @@\n ctx\n-a\n+b\n+c\n ctx2",
	} {
		files := Parse(text)
		if len(files) != 1 || len(files[0].Hunks) != 1 {
			t.Fatalf("expected 1 file with 1 hunk, got %+v", files)
		}
		h := files[0].Hunks[0]
		oldCount, newCount := 0, 0
		for _, b := range h.Blocks {
			oldCount += len(b.Context) + len(b.Deletions)
			newCount += len(b.Context) + len(b.Additions)
		}
		if oldCount != h.OldLines || newCount != h.NewLines {
			t.Errorf("body holds %d/%d lines, header declares %d/%d",
				oldCount, newCount, h.OldLines, h.NewLines)
		}
	}
}

func TestParseDashDashContent(t *testing.T) {
	// Deleting a line that starts "-- " (SQL comments) renders as
	// "--- ...", and adding one that starts "++ " renders as "+++ ...".
	// Neither may be mistaken for a file marker mid-hunk.
	text := "--- a/q.sql\n+++ b/q.sql\n@@ -1,3 +1,3 @@\n select 1;\n--- count rows\n+++ sum rows\n select 2;\n"
	files := Parse(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if len(files[0].Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(files[0].Hunks))
	}
	blocks := files[0].Hunks[0].Blocks
	if len(blocks) != 3 {
		t.Fatalf("expected ctx/change/ctx blocks, got %+v", blocks)
	}
	if blocks[1].Deletions[0] != "-- count rows" {
		t.Errorf("deletion lost: %+v", blocks[1])
	}
	if blocks[1].Additions[0] != "++ sum rows" {
		t.Errorf("addition lost: %+v", blocks[1])
	}
}
