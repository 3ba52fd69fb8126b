package comments

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"
)

// Store reads and writes the per-repository comment document.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the comment-store location for a repository,
// under the user's data directory with a filename derived from the
// repository path.
func DefaultPath(repoDir string) string {
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		abs = repoDir
	}
	name := fmt.Sprintf("%016x.json", xxh3.HashString(abs))
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", ".revtui", "comments", name)
	}
	return filepath.Join(home, ".local", "share", "revtui", "comments", name)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the comment document. A missing file yields an empty
// current-version document. A version-1 document is migrated in place
// and rewritten to disk. An unknown version resets to empty rather
// than failing: the loss is explicit, not silent corruption.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read comment store: %w", err)
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse comment store: %w", err)
	}

	switch probe.Version {
	case SchemaVersion:
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("failed to parse comment store: %w", err)
		}
		if st.Revisions == nil {
			st.Revisions = make(map[string]*RevisionComments)
		}
		return &st, nil

	case 1:
		var old stateV1
		if err := json.Unmarshal(data, &old); err != nil {
			return nil, fmt.Errorf("failed to parse v1 comment store: %w", err)
		}
		st := migrateV1(&old)
		if err := s.Save(st); err != nil {
			return nil, fmt.Errorf("failed to rewrite migrated store: %w", err)
		}
		return st, nil

	default:
		return NewState(), nil
	}
}

// Save writes the document atomically: temp file in the same
// directory, then rename over the target.
func (s *Store) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comment store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".comments-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace comment store: %w", err)
	}
	return nil
}

// Version-1 schema: per revision, a map of hunk id to anchor data
// instead of a flat anchor list.

type stateV1 struct {
	Version   int                   `json:"version"`
	Revisions map[string]revisionV1 `json:"revisions"`
}

type revisionV1 struct {
	CommitHash string            `json:"commitHash"`
	Hunks      map[string]hunkV1 `json:"hunks"`
}

type hunkV1 struct {
	Anchor   anchorV1 `json:"anchor"`
	Comments []Entry  `json:"comments"`
	Stale    bool     `json:"stale"`
}

type anchorV1 struct {
	File     string   `json:"file"`
	OldStart int      `json:"oldStart"`
	OldLines int      `json:"oldLines"`
	NewStart int      `json:"newStart"`
	NewLines int      `json:"newLines"`
	Context  []string `json:"context"`
}

// migrateV1 lifts a v1 document into v2 hunk anchors: location,
// context, comments and staleness carry over verbatim, and the anchor
// id is the v1 map key.
func migrateV1(old *stateV1) *State {
	st := NewState()
	for changeID, rev := range old.Revisions {
		rc := &RevisionComments{CommitHash: rev.CommitHash}

		ids := make([]string, 0, len(rev.Hunks))
		for id := range rev.Hunks {
			ids = append(ids, id)
		}
		sort.Strings(ids) // deterministic anchor order

		for _, id := range ids {
			h := rev.Hunks[id]
			rc.Anchors = append(rc.Anchors, &Anchor{
				Kind:     AnchorHunk,
				ID:       id,
				File:     h.Anchor.File,
				OldStart: h.Anchor.OldStart,
				OldLines: h.Anchor.OldLines,
				NewStart: h.Anchor.NewStart,
				NewLines: h.Anchor.NewLines,
				Context:  h.Anchor.Context,
				Entries:  h.Comments,
				Stale:    h.Stale,
			})
		}
		st.Revisions[changeID] = rc
	}
	return st
}
