package diffbase

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/pders01/visreg/internal/models"
)

// CIEnv is the build context a CI system exposes through the environment
type CIEnv struct {
	PullRequest           int
	PullRequestBaseBranch string
	Tag                   string
	Branch                string
}

// LoadCIEnv reads CI_* variables. Nothing is read unless CI is truthy.
func LoadCIEnv() CIEnv {
	return ciEnvFrom(os.Getenv)
}

func ciEnvFrom(getenv func(string) string) CIEnv {
	if !cast.ToBool(getenv("CI")) {
		return CIEnv{}
	}

	env := CIEnv{
		// "false" and other non-numeric values mean "not a pull request build"
		PullRequest:           cast.ToInt(getenv("CI_PULL_REQUEST")),
		PullRequestBaseBranch: strings.TrimSpace(getenv("CI_PULL_REQUEST_BASE_BRANCH")),
		Tag:                   strings.TrimSpace(getenv("CI_TAG")),
		Branch:                strings.TrimSpace(getenv("CI_BRANCH")),
	}
	if env.PullRequest < 0 {
		env.PullRequest = 0
	}
	if env.PullRequestBaseBranch == "" {
		env.PullRequestBaseBranch = "master"
	}
	return env
}

// IsSet reports whether the environment names a PR, tag or branch
func (e CIEnv) IsSet() bool {
	return e.PullRequest > 0 || e.Tag != "" || e.Branch != ""
}

// resolveCI builds the diff base from the CI environment: PR, then tag, then branch
func (r *Resolver) resolveCI(ctx context.Context) (models.DiffBase, error) {
	ci := r.opts.CI
	path := r.opts.DefaultGoldenPath

	switch {
	case ci.PullRequest > 0:
		ref := "origin/" + ci.PullRequestBaseBranch
		commit, err := r.git.ShortCommitHash(ctx, ref)
		if err != nil {
			return models.DiffBase{}, err
		}
		return models.NewGitRevisionBase(models.GitRevision{
			Kind:               models.RevisionPullRequest,
			InputString:        ref + ":" + path,
			Commit:             commit,
			GoldenManifestPath: path,
			Remote:             "origin",
			Branch:             ci.PullRequestBaseBranch,
			PullRequest:        ci.PullRequest,
		})

	case ci.Tag != "":
		commit, err := r.git.ShortCommitHash(ctx, ci.Tag)
		if err != nil {
			return models.DiffBase{}, err
		}
		return models.NewGitRevisionBase(models.GitRevision{
			Kind:               models.RevisionRemoteTag,
			InputString:        ci.Tag + ":" + path,
			Commit:             commit,
			GoldenManifestPath: path,
			Remote:             "origin",
			Tag:                ci.Tag,
		})

	default:
		ref := "origin/" + ci.Branch
		commit, err := r.git.ShortCommitHash(ctx, ref)
		if err != nil {
			return models.DiffBase{}, err
		}
		return models.NewGitRevisionBase(models.GitRevision{
			Kind:               models.RevisionRemoteBranch,
			InputString:        ref + ":" + path,
			Commit:             commit,
			GoldenManifestPath: path,
			Remote:             "origin",
			Branch:             ci.Branch,
		})
	}
}
