package worddiff

import (
	"strings"
	"testing"
)

func joinSide(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestComputeReconstruction(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"simple change", "foo bar baz", "foo qux baz"},
		{"identical", "same line", "same line"},
		{"empty old", "", "added text"},
		{"empty new", "removed text", ""},
		{"punctuation", "call(a, b)", "call(a, c)"},
		{"whitespace shift", "x := 1", "x :=  1"},
		{"unicode", "héllo wörld", "héllo wörd"},
		{"everything changed", "alpha beta", "gamma delta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.old, tt.new)
			if got := joinSide(res.Old); got != tt.old {
				t.Errorf("old side reconstructs to %q, want %q", got, tt.old)
			}
			if got := joinSide(res.New); got != tt.new {
				t.Errorf("new side reconstructs to %q, want %q", got, tt.new)
			}
		})
	}
}

func TestComputeKinds(t *testing.T) {
	res := Compute("return err", "return nil")

	for _, s := range res.Old {
		if s.Kind == Added {
			t.Errorf("old side must not contain Added segments: %+v", s)
		}
	}
	for _, s := range res.New {
		if s.Kind == Removed {
			t.Errorf("new side must not contain Removed segments: %+v", s)
		}
	}

	var removed, added []string
	for _, s := range res.Old {
		if s.Kind == Removed {
			removed = append(removed, s.Text)
		}
	}
	for _, s := range res.New {
		if s.Kind == Added {
			added = append(added, s.Text)
		}
	}
	if strings.Join(removed, "") != "err" {
		t.Errorf("expected removed %q, got %q", "err", strings.Join(removed, ""))
	}
	if strings.Join(added, "") != "nil" {
		t.Errorf("expected added %q, got %q", "nil", strings.Join(added, ""))
	}
}

func TestComputeIdentical(t *testing.T) {
	res := Compute("unchanged", "unchanged")
	if len(res.Old) != 1 || res.Old[0].Kind != Unchanged {
		t.Errorf("identical lines should be one unchanged segment, got %+v", res.Old)
	}
}

func TestShouldCompute(t *testing.T) {
	tests := []struct {
		dels, adds int
		want       bool
	}{
		{1, 1, true},
		{1, 2, false},
		{2, 1, false},
		{0, 1, false},
		{1, 0, false},
		{3, 3, false},
	}
	for _, tt := range tests {
		if got := ShouldCompute(tt.dels, tt.adds); got != tt.want {
			t.Errorf("ShouldCompute(%d, %d) = %v, want %v", tt.dels, tt.adds, got, tt.want)
		}
	}
}

func TestSplitWords(t *testing.T) {
	got := splitWords("foo(bar, 42)")
	want := []string{"foo", "(", "bar", ",", " ", "42", ")"}
	if len(got) != len(want) {
		t.Fatalf("splitWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
