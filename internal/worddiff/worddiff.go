// Package worddiff computes word-granularity intraline diffs between a
// deleted line and its matching added line.
package worddiff

import (
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SegmentKind tags a segment on either side of a word diff.
type SegmentKind int

const (
	Unchanged SegmentKind = iota
	Added
	Removed
)

// Segment is a contiguous piece of one side of the line. Concatenating
// a side's segment texts reproduces that side's input exactly.
type Segment struct {
	Text string
	Kind SegmentKind
}

// Result holds the two parallel segment sequences for a word diff.
type Result struct {
	Old []Segment
	New []Segment
}

// ShouldCompute reports whether a change block is eligible for word
// diffing. Only a 1:1 deletion/addition pairing is unambiguous; any
// other shape renders as plain line-level highlights.
func ShouldCompute(deletions, additions int) bool {
	return deletions == 1 && additions == 1
}

// Compute runs a word-granularity diff between one deleted line and
// one added line.
func Compute(oldLine, newLine string) Result {
	oldWords := splitWords(oldLine)
	newWords := splitWords(newLine)

	// Map word tokens to runes so diffmatchpatch aligns whole words,
	// the same trick its line mode uses.
	index := map[string]rune{}
	var table []string
	encode := func(words []string) []rune {
		out := make([]rune, 0, len(words))
		for _, w := range words {
			r, ok := index[w]
			if !ok {
				r = rune(len(table))
				index[w] = r
				table = append(table, w)
			}
			out = append(out, r)
		}
		return out
	}
	rOld := encode(oldWords)
	rNew := encode(newWords)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	decode := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteString(table[int(r)])
		}
		return b.String()
	}

	var res Result
	for _, d := range diffs {
		text := decode(d.Text)
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			res.Old = append(res.Old, Segment{Text: text, Kind: Unchanged})
			res.New = append(res.New, Segment{Text: text, Kind: Unchanged})
		case diffmatchpatch.DiffDelete:
			res.Old = append(res.Old, Segment{Text: text, Kind: Removed})
		case diffmatchpatch.DiffInsert:
			res.New = append(res.New, Segment{Text: text, Kind: Added})
		}
	}
	return res
}

// splitWords cuts a line into word and non-word runs. Whitespace and
// punctuation stay as their own tokens so nothing is lost.
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	var curClass int // 0 none, 1 word, 2 space, 3 other

	classOf := func(r rune) int {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			return 1
		case unicode.IsSpace(r):
			return 2
		default:
			return 3
		}
	}

	for _, r := range s {
		c := classOf(r)
		if c != curClass && cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
		curClass = c
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}
