// Package diffbase resolves a user-supplied baseline specifier into a DiffBase.
package diffbase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	vrerrors "github.com/pders01/visreg/internal/errors"
	"github.com/pders01/visreg/internal/git"
	"github.com/pders01/visreg/internal/models"
)

var httpURLPattern = regexp.MustCompile(`^https?://`)

// GitQuerier is the subset of git plumbing the resolver needs
type GitQuerier interface {
	FullSymbolicName(ctx context.Context, ref string) (string, error)
	ShortCommitHash(ctx context.Context, ref string) (string, error)
	RemoteNames(ctx context.Context) ([]string, error)
}

// AmbiguousRefError is returned when git cannot pick a single ref for the specifier
type AmbiguousRefError struct {
	Ref string
}

func (e *AmbiguousRefError) Error() string {
	return fmt.Sprintf("golden ref %q is ambiguous; qualify it (e.g. refs/heads/%s or refs/tags/%s)", e.Ref, e.Ref, e.Ref)
}

// Options configures a Resolver
type Options struct {
	// DefaultGoldenPath is the compiled-in golden manifest location, used both for
	// the isDefaultLocation flag and as the path of "<ref>" specifiers without ":<path>"
	DefaultGoldenPath string
	CI                CIEnv
}

// Resolver turns specifiers into DiffBase values
type Resolver struct {
	git  GitQuerier
	fs   afero.Fs
	opts Options
}

// NewResolver creates a resolver
func NewResolver(g GitQuerier, fsys afero.Fs, opts Options) *Resolver {
	return &Resolver{git: g, fs: fsys, opts: opts}
}

// Resolve maps raw to a DiffBase. The first matching rule wins:
// CI environment, http(s) URL, existing local file, then a "<ref>[:<path>]" git revision.
func (r *Resolver) Resolve(ctx context.Context, raw string) (models.DiffBase, error) {
	if r.opts.CI.IsSet() {
		base, err := r.resolveCI(ctx)
		if err != nil {
			return models.DiffBase{}, err
		}
		slog.Debug("resolved diff base from CI environment", "diff_base", base.String())
		return base, nil
	}

	if httpURLPattern.MatchString(raw) {
		return models.NewPublicURLBase(raw)
	}

	if raw == "" {
		return models.DiffBase{}, &vrerrors.ConfigurationError{
			Value:  raw,
			Remedy: "Pass --diff-base as a file path, an http(s) URL or a git ref such as origin/master",
		}
	}

	if exists, err := afero.Exists(r.fs, raw); err == nil && exists {
		return models.NewFilePathBase(raw, raw == r.opts.DefaultGoldenPath)
	}

	ref, path := r.splitSpecifier(raw)
	return r.resolveGitRef(ctx, ref, path)
}

// splitSpecifier splits "<ref>:<path>" on the first colon
func (r *Resolver) splitSpecifier(raw string) (string, string) {
	ref, path, found := strings.Cut(raw, ":")
	if !found || path == "" {
		path = r.opts.DefaultGoldenPath
	}
	return ref, path
}

func (r *Resolver) resolveGitRef(ctx context.Context, ref, path string) (models.DiffBase, error) {
	input := ref + ":" + path

	fullName, err := r.git.FullSymbolicName(ctx, ref)
	if err != nil {
		if errors.Is(err, git.ErrAmbiguousRef) {
			return models.DiffBase{}, &AmbiguousRefError{Ref: ref}
		}
		return models.DiffBase{}, err
	}

	if fullName == "" {
		return models.NewGitRevisionBase(models.GitRevision{
			Kind:               models.RevisionCommit,
			InputString:        input,
			Commit:             ref,
			GoldenManifestPath: path,
		})
	}

	switch {
	case strings.HasPrefix(fullName, "refs/remotes/"):
		return r.resolveRemoteBranch(ctx, ref, path, fullName)

	case strings.HasPrefix(fullName, "refs/tags/"):
		commit, err := r.git.ShortCommitHash(ctx, ref)
		if err != nil {
			return models.DiffBase{}, err
		}
		return models.NewGitRevisionBase(models.GitRevision{
			Kind:               models.RevisionRemoteTag,
			InputString:        input,
			Commit:             commit,
			GoldenManifestPath: path,
			Remote:             "origin",
			Tag:                ref,
		})

	case strings.HasPrefix(fullName, "refs/heads/"):
		commit, err := r.git.ShortCommitHash(ctx, ref)
		if err != nil {
			return models.DiffBase{}, err
		}
		return models.NewGitRevisionBase(models.GitRevision{
			Kind:               models.RevisionLocalBranch,
			InputString:        input,
			Commit:             commit,
			GoldenManifestPath: path,
			Branch:             ref,
		})
	}

	return models.DiffBase{}, &vrerrors.ResolutionError{
		Ref: ref,
		Err: fmt.Errorf("unsupported ref namespace %q (expected refs/heads, refs/tags or refs/remotes)", fullName),
	}
}

func (r *Resolver) resolveRemoteBranch(ctx context.Context, ref, path, fullName string) (models.DiffBase, error) {
	remotes, err := r.git.RemoteNames(ctx)
	if err != nil {
		return models.DiffBase{}, err
	}

	remote, branch, ok := splitRemoteRef(strings.TrimPrefix(fullName, "refs/remotes/"), remotes)
	if !ok {
		return models.DiffBase{}, &vrerrors.ResolutionError{
			Ref: ref,
			Err: fmt.Errorf("%s does not start with any configured remote (%s)", fullName, strings.Join(remotes, ", ")),
		}
	}

	commit, err := r.git.ShortCommitHash(ctx, ref)
	if err != nil {
		return models.DiffBase{}, err
	}

	return models.NewGitRevisionBase(models.GitRevision{
		Kind:               models.RevisionRemoteBranch,
		InputString:        ref + ":" + path,
		Commit:             commit,
		GoldenManifestPath: path,
		Remote:             remote,
		Branch:             branch,
	})
}

// splitRemoteRef picks the longest remote name that prefixes name ("<remote>/<branch>").
// Remote names may contain slashes, so the longest match is the most specific one.
func splitRemoteRef(name string, remotes []string) (string, string, bool) {
	best := ""
	for _, remote := range remotes {
		if strings.HasPrefix(name, remote+"/") && len(remote) > len(best) {
			best = remote
		}
	}
	if best == "" {
		return "", "", false
	}
	return best, strings.TrimPrefix(name, best+"/"), true
}
