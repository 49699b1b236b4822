// Package git produces unified diff text from a local repository, the
// diff source for branch reviews. The output feeds the same parser as
// the GitHub pull request path.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Engine reads diffs out of one repository directory.
type Engine struct {
	repoDir string
}

// NewEngine constructs a Git engine for the provided repository
// directory. The directory may be anywhere inside the repository.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// Diff returns the unified diff between baseRef and targetRef as one
// multi-file diff text. With includeUncommitted the working tree is
// compared against baseRef through the git CLI instead, because go-git
// cannot diff an unstaged working tree; committed changes between the
// refs are part of that comparison.
func (e *Engine) Diff(ctx context.Context, baseRef, targetRef string, includeUncommitted bool) (string, error) {
	if includeUncommitted {
		return runGitCommand(ctx, e.repoDir, "diff", baseRef)
	}

	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	baseCommit, err := resolveCommit(repo, baseRef)
	if err != nil {
		return "", fmt.Errorf("resolve base ref %q: %w", baseRef, err)
	}

	targetCommit, err := resolveCommit(repo, targetRef)
	if err != nil {
		return "", fmt.Errorf("resolve target ref %q: %w", targetRef, err)
	}

	patch, err := baseCommit.PatchContext(ctx, targetCommit)
	if err != nil {
		return "", fmt.Errorf("compute patch: %w", err)
	}

	var buf bytes.Buffer
	if err := patch.Encode(&buf); err != nil {
		return "", fmt.Errorf("encode patch: %w", err)
	}
	return buf.String(), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	name := head.Name()
	if name.IsBranch() {
		return name.Short(), nil
	}
	return "", fmt.Errorf("detached HEAD")
}

// resolveCommit tries the ref as given, then as a local branch, then as
// an origin remote branch.
func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		name := plumbing.Revision(candidate)
		hash, err := repo.ResolveRevision(name)
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

func runGitCommand(ctx context.Context, repoDir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoDir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %v: %w", args, ctx.Err())
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}
