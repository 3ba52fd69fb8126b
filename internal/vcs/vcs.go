// Package vcs shells out to the version-control backend to fetch diff
// text and content fingerprints for revisions.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Backend runs jj or git against one repository.
type Backend struct {
	tool string // "jj" or "git"
	dir  string
}

// New creates a backend for the repository at dir. An empty tool
// autodetects: jj when available and the repo has a .jj store, else
// git.
func New(tool, dir string) *Backend {
	if tool == "" {
		tool = detect(dir)
	}
	return &Backend{tool: tool, dir: dir}
}

// Tool returns which backend command is in use.
func (b *Backend) Tool() string {
	return b.tool
}

func detect(dir string) string {
	cmd := exec.Command("jj", "root")
	cmd.Dir = dir
	if err := cmd.Run(); err == nil {
		return "jj"
	}
	return "git"
}

// Diff returns the unified-diff text for a revision, optionally scoped
// to a path set.
func (b *Backend) Diff(ctx context.Context, rev string, paths []string) (string, error) {
	return b.run(ctx, diffArgs(b.tool, rev, paths))
}

func diffArgs(tool, rev string, paths []string) []string {
	switch tool {
	case "jj":
		return append([]string{"diff", "--git", "-r", rev}, paths...)
	default:
		return append([]string{"show", "--format=", "--patch", rev}, pathspec(paths)...)
	}
}

// CommitHash returns the revision's content fingerprint, used upstream
// to decide whether comment anchors need relocating.
func (b *Backend) CommitHash(ctx context.Context, rev string) (string, error) {
	var args []string
	switch b.tool {
	case "jj":
		args = []string{"log", "--no-graph", "-T", "commit_id", "-r", rev}
	default:
		args = []string{"rev-parse", rev}
	}
	out, err := b.run(ctx, args)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ChangeID returns the stable change identity for a revision. For jj
// this is the change id, which survives rewrites; git has no such
// notion, so the commit hash stands in.
func (b *Backend) ChangeID(ctx context.Context, rev string) (string, error) {
	if b.tool != "jj" {
		return b.CommitHash(ctx, rev)
	}
	out, err := b.run(ctx, []string{"log", "--no-graph", "-T", "change_id", "-r", rev})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (b *Backend) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, b.tool, args...)
	cmd.Dir = b.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", b.tool, args[0], err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", b.tool, args[0], err)
	}
	return stdout.String(), nil
}

// pathspec prefixes git path arguments with the "--" separator.
func pathspec(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	return append([]string{"--"}, paths...)
}
