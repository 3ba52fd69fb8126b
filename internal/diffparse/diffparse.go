package diffparse

import (
	"fmt"
	"strconv"
	"strings"
)

// TabWidth is the number of spaces a tab expands to in stored content
// lines. Expanding up front means column math downstream never has to
// special-case tabs.
const TabWidth = 4

// FileType classifies how a file changed in a diff.
type FileType int

const (
	FileModified FileType = iota
	FileNew
	FileDeleted
	FileRenamed         // rename with no content change
	FileRenamedModified // rename plus content change
)

// String returns a short label for the file type.
func (t FileType) String() string {
	switch t {
	case FileNew:
		return "new"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	case FileRenamedModified:
		return "renamed+modified"
	default:
		return "modified"
	}
}

// File is one file's worth of a parsed unified diff. Immutable once
// produced by Parse.
type File struct {
	Name     string
	PrevName string // set for renames
	Type     FileType
	Hunks    []*Hunk
	IsBinary bool
}

// ID returns the stable identifier for this file. It survives
// reordering and filtering of the file list: "name", or
// "prev->name" for renames.
func (f *File) ID() string {
	if f.PrevName != "" && f.PrevName != f.Name {
		return f.PrevName + "->" + f.Name
	}
	return f.Name
}

// Hunk is a contiguous block of changes plus context within a file.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Section  string // trailing text of the @@ header, usually the enclosing function
	Blocks   []Block
}

// ID returns the stable identifier for this hunk within the given
// file. Two hunks are the same hunk iff their header coordinates match
// exactly; the body does not participate.
func (h *Hunk) ID(fileID string) string {
	return fmt.Sprintf("%s@@-%d,%d+%d,%d", fileID, h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

// ContextSample returns up to max trimmed, non-empty context lines
// from the hunk, in order. Comment anchors store these to recognize
// "the same change" after a rewrite.
func (h *Hunk) ContextSample(max int) []string {
	var out []string
	for _, b := range h.Blocks {
		for _, line := range b.Context {
			s := strings.TrimSpace(line)
			if s == "" {
				continue
			}
			out = append(out, s)
			if len(out) >= max {
				return out
			}
		}
	}
	return out
}

// Block is either a run of unchanged context lines, or a paired run of
// deletions followed by additions. Exactly one of the two shapes is
// populated.
type Block struct {
	Context   []string
	Deletions []string
	Additions []string
}

// IsContext reports whether the block holds context lines.
func (b *Block) IsContext() bool {
	return len(b.Context) > 0
}

// Parse turns unified-diff text (possibly multi-file) into a list of
// Files. Empty input yields an empty list. Malformed hunks are
// skipped rather than failing the whole parse.
func Parse(text string) []*File {
	return ParseTabs(text, TabWidth)
}

// ParseTabs is Parse with a caller-chosen tab expansion width.
func ParseTabs(text string, tabWidth int) []*File {
	var files []*File
	if strings.TrimSpace(text) == "" {
		return files
	}

	lines := strings.Split(text, "\n")
	var cur *File
	var curHunk *Hunk
	var curBlock *Block
	var oldRemain, newRemain int

	flushBlock := func() {
		if curHunk != nil && curBlock != nil {
			curHunk.Blocks = append(curHunk.Blocks, *curBlock)
		}
		curBlock = nil
	}
	flushHunk := func() {
		flushBlock()
		curHunk = nil
		oldRemain, newRemain = 0, 0
	}
	flushFile := func() {
		flushHunk()
		if cur != nil && (cur.Name != "" || cur.PrevName != "") {
			finishFile(cur)
			files = append(files, cur)
		}
		cur = nil
	}

	for _, line := range lines {
		// While the @@ header's line counts are unexhausted, every
		// line belongs to the hunk. Matching content first keeps a
		// deletion of a line starting "-- " (which renders as
		// "--- ...") from being misread as a file marker.
		if curHunk != nil && (oldRemain > 0 || newRemain > 0) {
			if line == "" {
				// A bare empty line inside a hunk is a context line
				// whose content is empty.
				line = " "
			}
			consumed := true
			switch line[0] {
			case ' ':
				if curBlock != nil && !curBlock.IsContext() && len(curBlock.Deletions)+len(curBlock.Additions) > 0 {
					flushBlock()
				}
				if curBlock == nil {
					curBlock = &Block{}
				}
				curBlock.Context = append(curBlock.Context, ExpandTabs(line[1:], tabWidth))
				oldRemain--
				newRemain--
			case '-':
				if curBlock != nil && (curBlock.IsContext() || len(curBlock.Additions) > 0) {
					flushBlock()
				}
				if curBlock == nil {
					curBlock = &Block{}
				}
				curBlock.Deletions = append(curBlock.Deletions, ExpandTabs(line[1:], tabWidth))
				oldRemain--
			case '+':
				if curBlock != nil && curBlock.IsContext() {
					flushBlock()
				}
				if curBlock == nil {
					curBlock = &Block{}
				}
				curBlock.Additions = append(curBlock.Additions, ExpandTabs(line[1:], tabWidth))
				newRemain--
			case '\\':
				// "\ No newline at end of file" - not content
			default:
				// The header promised more lines than the hunk has.
				// Close it and let the line match as a marker below.
				flushHunk()
				consumed = false
			}
			if consumed {
				if oldRemain <= 0 && newRemain <= 0 {
					flushHunk()
				}
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushFile()
			cur = &File{}
			a, b := parseGitHeaderPaths(line)
			cur.PrevName = a
			cur.Name = b

		case strings.HasPrefix(line, "rename from "):
			if cur != nil {
				cur.PrevName = strings.TrimPrefix(line, "rename from ")
			}
		case strings.HasPrefix(line, "rename to "):
			if cur != nil {
				cur.Name = strings.TrimPrefix(line, "rename to ")
			}
		case strings.HasPrefix(line, "new file mode"):
			if cur != nil {
				cur.Type = FileNew
			}
		case strings.HasPrefix(line, "deleted file mode"):
			if cur != nil {
				cur.Type = FileDeleted
			}
		case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
			if cur == nil {
				cur = &File{}
			}
			cur.IsBinary = true
			flushHunk()

		case strings.HasPrefix(line, "--- "):
			// Plain "diff -u" output has no "diff --git" separator, so
			// a new "---" marker after a parsed file starts the next one.
			if cur != nil && len(cur.Hunks) > 0 {
				flushFile()
			}
			if cur == nil {
				cur = &File{}
			}
			name := parseFileMarker(line[4:])
			if name != "" && cur.PrevName == "" {
				cur.PrevName = name
			}
			if name == "" && cur.Type == FileModified {
				cur.Type = FileNew
			}
		case strings.HasPrefix(line, "+++ "):
			if cur == nil {
				cur = &File{}
			}
			name := parseFileMarker(line[4:])
			if name != "" {
				cur.Name = name
			}
			if name == "" && cur.Type == FileModified {
				cur.Type = FileDeleted
			}

		case strings.HasPrefix(line, "@@ "):
			if cur == nil || cur.IsBinary {
				continue
			}
			flushHunk()
			h, ok := parseHunkHeader(line)
			if !ok {
				continue // malformed header, skip this hunk
			}
			curHunk = h
			cur.Hunks = append(cur.Hunks, h)
			oldRemain, newRemain = h.OldLines, h.NewLines
			if oldRemain <= 0 && newRemain <= 0 {
				flushHunk()
			}

		default:
			// Prose between files, index lines, mode lines.
		}
	}
	flushFile()

	return files
}

// finishFile settles the file type once all hunks are known.
func finishFile(f *File) {
	if f.Name == "" {
		f.Name = f.PrevName
	}
	if f.PrevName == f.Name {
		f.PrevName = ""
	}
	if f.PrevName != "" && f.Type == FileModified {
		if len(f.Hunks) == 0 && !f.IsBinary {
			f.Type = FileRenamed
		} else {
			f.Type = FileRenamedModified
		}
	}
	if f.Type == FileNew || f.Type == FileDeleted {
		f.PrevName = ""
	}
}

// parseGitHeaderPaths extracts the a/ and b/ paths from a
// "diff --git a/x b/y" line.
func parseGitHeaderPaths(line string) (string, string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	ai := strings.Index(rest, "a/")
	bi := strings.LastIndex(rest, " b/")
	if ai != 0 || bi < 0 {
		return "", ""
	}
	return rest[2:bi], rest[bi+3:]
}

// parseFileMarker handles the payload of a "--- " or "+++ " line,
// returning the bare path ("" for /dev/null).
func parseFileMarker(s string) string {
	// Strip a trailing tab-separated timestamp if present.
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	if s == "/dev/null" {
		return ""
	}
	s = strings.TrimPrefix(s, "a/")
	s = strings.TrimPrefix(s, "b/")
	return s
}

// parseHunkHeader parses "@@ -old,n +new,m @@ section".
func parseHunkHeader(line string) (*Hunk, bool) {
	rest := strings.TrimPrefix(line, "@@ ")
	end := strings.Index(rest, " @@")
	if end < 0 {
		return nil, false
	}
	ranges := rest[:end]
	section := strings.TrimSpace(rest[end+3:])

	parts := strings.Fields(ranges)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "-") || !strings.HasPrefix(parts[1], "+") {
		return nil, false
	}
	oldStart, oldLines, ok1 := parseRange(parts[0][1:])
	newStart, newLines, ok2 := parseRange(parts[1][1:])
	if !ok1 || !ok2 {
		return nil, false
	}
	return &Hunk{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
		Section:  section,
	}, true
}

// parseRange parses "start,count" or just "start" (count defaults to 1).
func parseRange(s string) (start, count int, ok bool) {
	count = 1
	if i := strings.IndexByte(s, ','); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, false
		}
		count = n
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return n, count, true
}

// ExpandTabs replaces tabs with spaces at width-column stops. A width
// of zero or less falls back to TabWidth.
func ExpandTabs(s string, width int) string {
	if width <= 0 {
		width = TabWidth
	}
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			for i := 0; i < n; i++ {
				b.WriteByte(' ')
			}
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
