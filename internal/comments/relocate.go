package comments

import (
	"fmt"
	"strings"

	"github.com/revtui/revtui/internal/diffparse"
	"github.com/revtui/revtui/internal/rows"
)

// Policy holds the relocation scoring constants. They are empirical
// policy, not derived values; the defaults are kept for behavioral
// compatibility and can be overridden through configuration.
type Policy struct {
	// Threshold is the minimum winning score for a relocation; below
	// it the anchor is marked stale instead.
	Threshold float64
	// ContextWeight and ProximityWeight blend context overlap against
	// positional drift when both sides carry context lines.
	ContextWeight   float64
	ProximityWeight float64
	// ProximityRange is the line distance at which proximity reaches
	// zero.
	ProximityRange float64
}

// DefaultPolicy returns the stock constants.
func DefaultPolicy() Policy {
	return Policy{
		Threshold:       0.4,
		ContextWeight:   0.7,
		ProximityWeight: 0.3,
		ProximityRange:  50,
	}
}

// RelocateRevision re-matches a revision's stored anchors against the
// freshly parsed diff for its rewritten content, then records the new
// content fingerprint. It reports whether any anchor changed.
func RelocateRevision(rc *RevisionComments, files []*diffparse.File, newHash string, pol Policy) bool {
	changed := Relocate(rc.Anchors, files, pol)
	rc.CommitHash = newHash
	return changed
}

// Relocate updates each anchor in place: either moved to its best
// match in the new diff (stale cleared) or left where it was with
// stale set. Comments are never dropped. Anchors are processed in
// order and each candidate satisfies at most one anchor.
func Relocate(anchors []*Anchor, files []*diffparse.File, pol Policy) bool {
	hunkCands := buildHunkCandidates(files)
	lineCands := buildLineCandidates(files)
	claimedHunks := map[string]bool{}
	claimedLines := map[string]bool{}

	changed := false
	for _, a := range anchors {
		switch a.Kind {
		case AnchorHunk:
			if relocateHunkAnchor(a, hunkCands[a.File], claimedHunks, pol) {
				changed = true
			}
		case AnchorLine:
			if relocateLineAnchor(a, lineCands[a.File], claimedLines, pol) {
				changed = true
			}
		}
	}
	return changed
}

// hunkCandidate is one hunk of the new diff, pre-digested for scoring.
type hunkCandidate struct {
	id      string
	file    string
	hunk    *diffparse.Hunk
	start   int
	context []string
}

func buildHunkCandidates(files []*diffparse.File) map[string][]*hunkCandidate {
	out := map[string][]*hunkCandidate{}
	for _, f := range files {
		fileID := f.ID()
		for _, h := range f.Hunks {
			// Same positional rule as Anchor.start so both sides of
			// the proximity score use the same reference.
			start := h.OldStart
			if h.NewLines > 0 {
				start = h.NewStart
			}
			c := &hunkCandidate{
				id:      h.ID(fileID),
				file:    f.Name,
				hunk:    h,
				start:   start,
				context: h.ContextSample(ContextLines),
			}
			out[f.Name] = append(out[f.Name], c)
			if f.PrevName != "" {
				// An anchor created before the rename still knows the
				// old path.
				out[f.PrevName] = append(out[f.PrevName], c)
			}
		}
	}
	return out
}

func relocateHunkAnchor(a *Anchor, cands []*hunkCandidate, claimed map[string]bool, pol Policy) bool {
	var best *hunkCandidate
	bestScore := -1.0
	for _, c := range cands {
		if claimed[c.id] {
			continue
		}
		score := scoreMatch(a.Context, c.context, a.start(), c.start, pol)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}

	if best == nil || bestScore < pol.Threshold {
		if !a.Stale {
			a.Stale = true
			return true
		}
		return false
	}

	prevID := a.ID
	wasStale := a.Stale
	claimed[best.id] = true
	a.ID = best.id
	a.File = best.file
	a.OldStart = best.hunk.OldStart
	a.OldLines = best.hunk.OldLines
	a.NewStart = best.hunk.NewStart
	a.NewLines = best.hunk.NewLines
	a.Context = best.context
	a.Stale = false
	return a.ID != prevID || wasStale
}

// lineCandidate is one (line, side) position of the new diff.
type lineCandidate struct {
	file    string
	line    int
	side    Side
	context []string
}

func (c *lineCandidate) key() string {
	return fmt.Sprintf("%s:%s:%d", c.file, c.side, c.line)
}

// buildLineCandidates flattens the new diff and lists every line
// position a comment could sit on: context lines count on both sides,
// additions only on the new side, deletions only on the old side.
func buildLineCandidates(files []*diffparse.File) map[string][]*lineCandidate {
	flat := rows.Flatten(files)

	// Group content rows by file, remembering each file's plain name
	// (anchors store paths, not rename-combined ids).
	names := map[string][]string{}
	for _, f := range files {
		ns := []string{f.Name}
		if f.PrevName != "" {
			ns = append(ns, f.PrevName)
		}
		names[f.ID()] = ns
	}
	perFile := map[string][]rows.Row{}
	for _, r := range flat {
		if r.Kind == rows.Content {
			perFile[r.FileID] = append(perFile[r.FileID], r)
		}
	}

	out := map[string][]*lineCandidate{}
	for fileID, content := range perFile {
		primary := names[fileID][0]
		for i, r := range content {
			ctx := surroundingContext(content, i)
			switch r.Line {
			case rows.ContextLine:
				addLineCandidate(out, names[fileID], &lineCandidate{file: primary, line: r.OldLine, side: OldSide, context: ctx})
				addLineCandidate(out, names[fileID], &lineCandidate{file: primary, line: r.NewLine, side: NewSide, context: ctx})
			case rows.AdditionLine:
				addLineCandidate(out, names[fileID], &lineCandidate{file: primary, line: r.NewLine, side: NewSide, context: ctx})
			case rows.DeletionLine:
				addLineCandidate(out, names[fileID], &lineCandidate{file: primary, line: r.OldLine, side: OldSide, context: ctx})
			}
		}
	}
	return out
}

func addLineCandidate(out map[string][]*lineCandidate, fileNames []string, c *lineCandidate) {
	for _, name := range fileNames {
		out[name] = append(out[name], c)
	}
}

// surroundingContext samples up to ContextLines trimmed non-empty
// lines around position i: 2 before, then up to 3 after.
func surroundingContext(content []rows.Row, i int) []string {
	var out []string
	for j := i - 2; j < i; j++ {
		if j < 0 {
			continue
		}
		if s := strings.TrimSpace(content[j].Text); s != "" {
			out = append(out, s)
		}
	}
	for j := i + 1; j <= i+3 && j < len(content); j++ {
		if len(out) >= ContextLines {
			break
		}
		if s := strings.TrimSpace(content[j].Text); s != "" {
			out = append(out, s)
		}
	}
	if len(out) > ContextLines {
		out = out[:ContextLines]
	}
	return out
}

func relocateLineAnchor(a *Anchor, cands []*lineCandidate, claimed map[string]bool, pol Policy) bool {
	side := a.Side.Normalize()
	var best *lineCandidate
	bestScore := -1.0
	for _, c := range cands {
		if c.side != side || claimed[c.key()] {
			continue
		}
		score := scoreMatch(a.Context, c.context, a.Line, c.line, pol)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}

	if best == nil || bestScore < pol.Threshold {
		if !a.Stale {
			a.Stale = true
			return true
		}
		return false
	}

	prevLine := a.Line
	prevFile := a.File
	wasStale := a.Stale
	claimed[best.key()] = true
	a.File = best.file
	a.Line = best.line
	a.Side = side
	a.Context = best.context
	a.Stale = false
	return a.Line != prevLine || a.File != prevFile || wasStale
}

// scoreMatch blends context overlap with line proximity. Context
// similarity dominates, but a perfect content match far away should
// not always beat a close positional candidate with no context.
func scoreMatch(anchorCtx, candCtx []string, anchorStart, candStart int, pol Policy) float64 {
	prox := lineProximity(anchorStart, candStart, pol.ProximityRange)
	if len(anchorCtx) == 0 || len(candCtx) == 0 {
		return prox
	}
	return pol.ContextWeight*contextOverlap(anchorCtx, candCtx) + pol.ProximityWeight*prox
}

// contextOverlap is |A ∩ B| / max(|A|, |B|) over trimmed context-line
// sets, order-insensitive.
func contextOverlap(a, b []string) float64 {
	setA := map[string]bool{}
	for _, s := range a {
		setA[strings.TrimSpace(s)] = true
	}
	setB := map[string]bool{}
	for _, s := range b {
		setB[strings.TrimSpace(s)] = true
	}
	inter := 0
	for s := range setA {
		if setB[s] {
			inter++
		}
	}
	maxLen := len(setA)
	if len(setB) > maxLen {
		maxLen = len(setB)
	}
	if maxLen == 0 {
		return 0
	}
	return float64(inter) / float64(maxLen)
}

// lineProximity is 1 − min(|Δ|/range, 1).
func lineProximity(a, b int, rng float64) float64 {
	d := float64(a - b)
	if d < 0 {
		d = -d
	}
	if rng <= 0 {
		rng = DefaultPolicy().ProximityRange
	}
	frac := d / rng
	if frac > 1 {
		frac = 1
	}
	return 1 - frac
}
