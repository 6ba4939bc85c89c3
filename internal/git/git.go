package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrAmbiguousRef is returned when git reports that a refname matches more than one ref
var ErrAmbiguousRef = errors.New("refname is ambiguous")

// Repo runs git commands against a working tree. An empty Dir uses the current directory.
type Repo struct {
	Dir string
}

// NewRepo returns a Repo rooted at dir
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir}
}

func (r *Repo) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	return cmd
}

// run executes git and returns trimmed stdout and stderr
func (r *Repo) run(ctx context.Context, args ...string) (string, string, error) {
	cmd := r.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// IsGitRepo checks if the directory is a git repository
func (r *Repo) IsGitRepo(ctx context.Context) bool {
	return r.command(ctx, "rev-parse", "--git-dir").Run() == nil
}

// FullSymbolicName returns the fully-qualified ref name (e.g. "refs/heads/main") for ref.
// It returns "" when ref has no symbolic name (a commit hash, or an unknown ref).
func (r *Repo) FullSymbolicName(ctx context.Context, ref string) (string, error) {
	out, stderr, err := r.run(ctx, "rev-parse", "--symbolic-full-name", ref)
	if strings.Contains(stderr, "is ambiguous") && strings.Contains(stderr, "refname") {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
	}
	if err != nil {
		// Unknown revisions have no symbolic name; the caller treats ref as a commit
		if strings.Contains(stderr, "unknown revision") {
			return "", nil
		}
		return "", fmt.Errorf("failed to get symbolic name of %s: %s: %w", ref, stderr, err)
	}
	return out, nil
}

// ShortCommitHash returns the abbreviated commit hash ref points at
func (r *Repo) ShortCommitHash(ctx context.Context, ref string) (string, error) {
	out, stderr, err := r.run(ctx, "rev-parse", "--short", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash of %s: %s: %w", ref, stderr, err)
	}
	return out, nil
}

// RemoteNames returns the configured remote names
func (r *Repo) RemoteNames(ctx context.Context) ([]string, error) {
	out, stderr, err := r.run(ctx, "remote")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %s: %w", stderr, err)
	}
	return splitLines(out), nil
}

// GetCurrentBranch returns the current branch name
func (r *Repo) GetCurrentBranch(ctx context.Context) (string, error) {
	out, stderr, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %s: %w", stderr, err)
	}
	return out, nil
}

// GetCurrentCommit returns the abbreviated HEAD commit hash
func (r *Repo) GetCurrentCommit(ctx context.Context) (string, error) {
	return r.ShortCommitHash(ctx, "HEAD")
}

// LatestTag returns the most recent tag reachable from HEAD
func (r *Repo) LatestTag(ctx context.Context) (string, error) {
	out, stderr, err := r.run(ctx, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", fmt.Errorf("failed to find latest tag: %s: %w", stderr, err)
	}
	return out, nil
}

// CommitDistance returns the number of commits reachable from HEAD but not from base
func (r *Repo) CommitDistance(ctx context.Context, base string) (int, error) {
	out, stderr, err := r.run(ctx, "rev-list", "--count", base+"..HEAD")
	if err != nil {
		return 0, fmt.Errorf("failed to count commits since %s: %s: %w", base, stderr, err)
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	return n, nil
}

// Show returns the contents of path at commit
func (r *Repo) Show(ctx context.Context, commit, path string) ([]byte, error) {
	cmd := r.command(ctx, "show", fmt.Sprintf("%s:%s", commit, path))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %s: %w", path, commit, strings.TrimSpace(stderr.String()), err)
	}
	return output, nil
}

// Version returns the installed git version string
func (r *Repo) Version(ctx context.Context) (string, error) {
	out, _, err := r.run(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to get git version: %w", err)
	}
	return strings.TrimPrefix(out, "git version "), nil
}

// splitLines splits output into non-empty trimmed lines
func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
