package comments

import (
	"testing"

	"github.com/revtui/revtui/internal/diffparse"
)

// hunkFile builds a one-hunk file whose hunk carries the given context
// lines and one addition, starting at the given new-side line.
func hunkFile(name string, oldStart, oldLines, newStart, newLines int, context ...string) *diffparse.File {
	return &diffparse.File{
		Name: name,
		Hunks: []*diffparse.Hunk{{
			OldStart: oldStart,
			OldLines: oldLines,
			NewStart: newStart,
			NewLines: newLines,
			Blocks: []diffparse.Block{
				{Context: context},
				{Additions: []string{"added line"}},
			},
		}},
	}
}

func TestRelocateHunkAnchorExample(t *testing.T) {
	// The anchor remembers old=[10,3] new=[10,4] with context
	// foo()/bar(); the rewritten diff has the same change shifted to
	// new=[14,4]. Context overlap 1.0 and proximity 0.92 puts the
	// score around 0.976, well over the threshold.
	anchor := &Anchor{
		Kind: AnchorHunk, ID: "a.go@@-10,3+10,4", File: "a.go",
		OldStart: 10, OldLines: 3, NewStart: 10, NewLines: 4,
		Context: []string{"foo()", "bar()"},
		Entries: []Entry{{ID: "c1", Text: "check this"}},
	}
	files := []*diffparse.File{hunkFile("a.go", 13, 3, 14, 4, "foo()", "bar()")}

	changed := Relocate([]*Anchor{anchor}, files, DefaultPolicy())
	if !changed {
		t.Fatal("expected changed=true")
	}
	if anchor.Stale {
		t.Error("anchor should not be stale")
	}
	if anchor.NewStart != 14 || anchor.NewLines != 4 || anchor.OldStart != 13 {
		t.Errorf("coordinates not updated: %+v", anchor)
	}
	if anchor.ID != "a.go@@-13,3+14,4" {
		t.Errorf("anchor id should be renamed to the winning hunk's id, got %q", anchor.ID)
	}
	if len(anchor.Entries) != 1 {
		t.Error("relocation must not touch entries")
	}
}

func TestRelocateBelowThresholdGoesStale(t *testing.T) {
	// No shared context and a shift beyond the proximity range: the
	// anchor stays put and is marked stale.
	anchor := &Anchor{
		Kind: AnchorHunk, ID: "a.go@@-10,3+10,4", File: "a.go",
		OldStart: 10, OldLines: 3, NewStart: 10, NewLines: 4,
		Context: []string{"foo()", "bar()"},
		Entries: []Entry{{ID: "c1"}},
	}
	files := []*diffparse.File{hunkFile("a.go", 200, 3, 200, 4, "other()", "lines()")}

	changed := Relocate([]*Anchor{anchor}, files, DefaultPolicy())
	if !changed {
		t.Error("going stale is a change")
	}
	if !anchor.Stale {
		t.Error("anchor should be stale")
	}
	if anchor.NewStart != 10 || anchor.ID != "a.go@@-10,3+10,4" {
		t.Errorf("stale anchor must keep its coordinates: %+v", anchor)
	}
	if len(anchor.Entries) != 1 {
		t.Error("stale anchor must keep its entries")
	}
}

func TestRelocateIdempotent(t *testing.T) {
	anchor := &Anchor{
		Kind: AnchorHunk, ID: "a.go@@-10,3+10,4", File: "a.go",
		OldStart: 10, OldLines: 3, NewStart: 10, NewLines: 4,
		Context: []string{"foo()", "bar()"},
	}
	files := []*diffparse.File{hunkFile("a.go", 13, 3, 14, 4, "foo()", "bar()")}

	if !Relocate([]*Anchor{anchor}, files, DefaultPolicy()) {
		t.Fatal("first relocation should report a change")
	}
	if Relocate([]*Anchor{anchor}, files, DefaultPolicy()) {
		t.Error("second relocation against the unchanged diff should report changed=false")
	}
}

func TestRelocateStaleIdempotent(t *testing.T) {
	anchor := &Anchor{
		Kind: AnchorHunk, ID: "gone", File: "a.go",
		OldStart: 10, OldLines: 3, NewStart: 10, NewLines: 4,
	}
	var files []*diffparse.File // the file vanished entirely

	if !Relocate([]*Anchor{anchor}, files, DefaultPolicy()) {
		t.Error("first pass should mark stale and report change")
	}
	if Relocate([]*Anchor{anchor}, files, DefaultPolicy()) {
		t.Error("already-stale anchor staying stale is not a change")
	}
}

func TestRelocateNeverDropsComments(t *testing.T) {
	anchors := []*Anchor{
		{Kind: AnchorHunk, ID: "h1", File: "a.go", NewStart: 5, NewLines: 2,
			Entries: []Entry{{ID: "1"}, {ID: "2"}}},
		{Kind: AnchorLine, ID: "l1", File: "a.go", Line: 9, Side: NewSide,
			Entries: []Entry{{ID: "3"}}},
		{Kind: AnchorHunk, ID: "h2", File: "b.go", NewStart: 400, NewLines: 1,
			Entries: []Entry{{ID: "4"}, {ID: "5"}, {ID: "6"}}},
	}
	before := 0
	for _, a := range anchors {
		before += len(a.Entries)
	}

	files := []*diffparse.File{hunkFile("a.go", 5, 2, 5, 3, "ctx()")}
	Relocate(anchors, files, DefaultPolicy())

	after := 0
	for _, a := range anchors {
		after += len(a.Entries)
	}
	if before != after {
		t.Errorf("comment count changed: %d -> %d", before, after)
	}
}

func TestRelocateFirstComeClaiming(t *testing.T) {
	// Two anchors compete for the single hunk in the new diff; the
	// first in order wins, the second cannot take the same candidate.
	a1 := &Anchor{Kind: AnchorHunk, ID: "x", File: "a.go",
		NewStart: 14, NewLines: 4, Context: []string{"foo()", "bar()"}}
	a2 := &Anchor{Kind: AnchorHunk, ID: "y", File: "a.go",
		NewStart: 15, NewLines: 4, Context: []string{"foo()", "bar()"}}
	files := []*diffparse.File{hunkFile("a.go", 13, 3, 14, 4, "foo()", "bar()")}

	Relocate([]*Anchor{a1, a2}, files, DefaultPolicy())

	if a1.Stale {
		t.Error("first anchor should win the candidate")
	}
	if !a2.Stale {
		t.Error("second anchor must not relocate onto the claimed hunk")
	}
}

func TestRelocateLineAnchor(t *testing.T) {
	text := `diff --git a/m.go b/m.go
--- a/m.go
+++ b/m.go
@@ -18,3 +20,3 @@
 alpha()
 target()
 beta()
`
	files := diffparse.Parse(text)

	// The anchor was created on target() at new line 19, flanked by
	// alpha() and beta(); the rewritten diff shifted the block down.
	anchor := &Anchor{
		Kind: AnchorLine, ID: "line1", File: "m.go",
		Line: 19, Side: NewSide,
		Context: []string{"alpha()", "beta()"},
		Entries: []Entry{{ID: "c"}},
	}
	changed := Relocate([]*Anchor{anchor}, files, DefaultPolicy())
	if !changed {
		t.Fatal("expected relocation")
	}
	if anchor.Stale {
		t.Fatal("anchor should not be stale")
	}
	// target() sits at new line 21 in the rewritten diff.
	if anchor.Line != 21 {
		t.Errorf("expected line 21, got %d", anchor.Line)
	}
	if anchor.Side != NewSide {
		t.Errorf("side should stay new, got %q", anchor.Side)
	}
}

func TestRelocateLineAnchorSideRestriction(t *testing.T) {
	text := `--- a/m.go
+++ b/m.go
@@ -5,3 +5,2 @@
 keep()
-removed()
 tail()
`
	files := diffparse.Parse(text)

	// An old-side anchor may land on the deletion; a new-side anchor
	// must not.
	oldAnchor := &Anchor{Kind: AnchorLine, ID: "o", File: "m.go", Line: 6, Side: OldSide,
		Context: []string{"keep()", "tail()"}}
	Relocate([]*Anchor{oldAnchor}, files, DefaultPolicy())
	if oldAnchor.Stale {
		t.Error("old-side anchor should relocate")
	}
	if oldAnchor.Line != 6 {
		t.Errorf("old-side anchor should sit on line 6, got %d", oldAnchor.Line)
	}
}

func TestRelocateLineClaiming(t *testing.T) {
	text := `--- a/m.go
+++ b/m.go
@@ -1,1 +1,2 @@
 shared()
+fresh()
`
	files := diffparse.Parse(text)

	a1 := &Anchor{Kind: AnchorLine, ID: "p", File: "m.go", Line: 2, Side: NewSide,
		Context: []string{"shared()"}}
	a2 := &Anchor{Kind: AnchorLine, ID: "q", File: "m.go", Line: 2, Side: NewSide,
		Context: []string{"shared()"}}
	Relocate([]*Anchor{a1, a2}, files, DefaultPolicy())

	if a1.Stale && a2.Stale {
		t.Fatal("at least one anchor should relocate")
	}
	if !a1.Stale && !a2.Stale && a1.Line == a2.Line {
		t.Errorf("two anchors relocated onto the same line %d", a1.Line)
	}
}

func TestRelocateRevisionUpdatesHash(t *testing.T) {
	rc := &RevisionComments{
		CommitHash: "aaaa",
		Anchors: []*Anchor{{
			Kind: AnchorHunk, ID: "h", File: "a.go",
			NewStart: 14, NewLines: 4, Context: []string{"foo()", "bar()"},
		}},
	}
	files := []*diffparse.File{hunkFile("a.go", 13, 3, 14, 4, "foo()", "bar()")}
	RelocateRevision(rc, files, "bbbb", DefaultPolicy())
	if rc.CommitHash != "bbbb" {
		t.Errorf("fingerprint not recorded: %q", rc.CommitHash)
	}
}

func TestContextOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"x", "y"}, []string{"y", "x"}, 1.0},
		{"half", []string{"x", "y"}, []string{"x", "z"}, 0.5},
		{"disjoint", []string{"x"}, []string{"y"}, 0.0},
		{"asymmetric", []string{"x"}, []string{"x", "y", "z", "w"}, 0.25},
		{"trimmed", []string{"  x  "}, []string{"x"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contextOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("contextOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineProximity(t *testing.T) {
	tests := []struct {
		a, b int
		want float64
	}{
		{10, 10, 1.0},
		{10, 35, 0.5},
		{10, 60, 0.0},
		{10, 500, 0.0},
		{60, 10, 0.0},
	}
	for _, tt := range tests {
		if got := lineProximity(tt.a, tt.b, 50); got != tt.want {
			t.Errorf("lineProximity(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDeletionOnlyHunkProximityReference(t *testing.T) {
	// A deletion-only hunk with context has NewLines > 0, so both the
	// stored anchor and the candidate key proximity on NewStart even
	// though the hunk adds nothing.
	text := `--- a/f.go
+++ b/f.go
@@ -100,4 +50,3 @@
 ctx1
 ctx2
-gone
 ctx3
`
	files := diffparse.Parse(text)
	if len(files) != 1 || len(files[0].Hunks) != 1 {
		t.Fatalf("fixture should parse to one hunk, got %+v", files)
	}

	anchor := NewHunkAnchor(files[0], files[0].Hunks[0])
	cands := buildHunkCandidates(files)["f.go"]
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].start != anchor.start() {
		t.Errorf("candidate start %d and anchor start %d disagree", cands[0].start, anchor.start())
	}
	if anchor.start() != 50 {
		t.Errorf("expected the new-side start 50, got %d", anchor.start())
	}
}
