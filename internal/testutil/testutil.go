package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempGitRepo is a throwaway git repository for tests
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a repository on branch "main" with one commit
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tmpDir, err := os.MkdirTemp("", "visreg-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	repo := &TempGitRepo{Path: tmpDir, T: t}

	setup := [][]string{
		{"init", "-q"},
		{"symbolic-ref", "HEAD", "refs/heads/main"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
		{"config", "tag.gpgsign", "false"},
	}
	for _, args := range setup {
		if out, err := repo.git(args...); err != nil {
			os.RemoveAll(tmpDir)
			t.Fatalf("git %v failed: %v: %s", args, err, out)
		}
	}

	repo.CreateFile("README.md", "# Test Repository\n")
	repo.Commit("Initial commit")

	return repo
}

func (r *TempGitRepo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Git runs a git command in the repository and fails the test on error
func (r *TempGitRepo) Git(args ...string) string {
	r.T.Helper()
	out, err := r.git(args...)
	if err != nil {
		r.T.Fatalf("git %v failed: %v: %s", args, err, out)
	}
	return out
}

// Cleanup removes the temporary git repository
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// CreateFile creates a file in the repository
func (r *TempGitRepo) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// Commit stages and commits all changes
func (r *TempGitRepo) Commit(message string) {
	r.T.Helper()
	r.Git("add", ".")
	r.Git("commit", "-q", "-m", message)
}

// HeadShort returns the abbreviated HEAD commit
func (r *TempGitRepo) HeadShort() string {
	r.T.Helper()
	return r.Git("rev-parse", "--short", "HEAD")
}

// CreateBranch creates a local branch at HEAD without checking it out
func (r *TempGitRepo) CreateBranch(name string) {
	r.T.Helper()
	r.Git("branch", name)
}

// CreateTag creates a lightweight tag at HEAD
func (r *TempGitRepo) CreateTag(name string) {
	r.T.Helper()
	r.Git("tag", name)
}

// AddRemote registers the repository itself as remote name and fetches it,
// which populates refs/remotes/<name>/* for every local branch
func (r *TempGitRepo) AddRemote(name string) {
	r.T.Helper()
	r.Git("remote", "add", name, r.Path)
	r.Git("fetch", "-q", name)
}
