package models

import "fmt"

// GitRevisionKind identifies how a Git revision diff base was specified
type GitRevisionKind string

const (
	RevisionCommit       GitRevisionKind = "commit"
	RevisionLocalBranch  GitRevisionKind = "local_branch"
	RevisionRemoteBranch GitRevisionKind = "remote_branch"
	RevisionRemoteTag    GitRevisionKind = "remote_tag"
	RevisionPullRequest  GitRevisionKind = "pull_request"
)

// DiffBase is the resolved pointer to a golden manifest.
// Exactly one of the fields is set.
type DiffBase struct {
	FilePath    *FilePathBase  `json:"filePath,omitempty"`
	PublicURL   *PublicURLBase `json:"publicUrl,omitempty"`
	GitRevision *GitRevision   `json:"gitRevision,omitempty"`
}

// FilePathBase points at a golden manifest on the local file system
type FilePathBase struct {
	Path              string `json:"path"`
	IsDefaultLocation bool   `json:"isDefaultLocation"`
}

// PublicURLBase points at a golden manifest served over HTTP(S)
type PublicURLBase struct {
	URL string `json:"url"`
}

// GitRevision points at a golden manifest committed to a Git revision
type GitRevision struct {
	Kind               GitRevisionKind `json:"kind"`
	InputString        string          `json:"inputString,omitempty"`
	Commit             string          `json:"commit"`
	GoldenManifestPath string          `json:"goldenManifestPath"`
	Remote             string          `json:"remote,omitempty"`
	Branch             string          `json:"branch,omitempty"`
	Tag                string          `json:"tag,omitempty"`
	PullRequest        int             `json:"pr,omitempty"`
}

// NewFilePathBase creates a file path diff base
func NewFilePathBase(path string, isDefault bool) (DiffBase, error) {
	if path == "" {
		return DiffBase{}, fmt.Errorf("diff base file path cannot be empty")
	}
	return DiffBase{FilePath: &FilePathBase{Path: path, IsDefaultLocation: isDefault}}, nil
}

// NewPublicURLBase creates a public URL diff base
func NewPublicURLBase(url string) (DiffBase, error) {
	if url == "" {
		return DiffBase{}, fmt.Errorf("diff base URL cannot be empty")
	}
	return DiffBase{PublicURL: &PublicURLBase{URL: url}}, nil
}

// NewGitRevisionBase creates a Git revision diff base
func NewGitRevisionBase(rev GitRevision) (DiffBase, error) {
	if err := rev.validate(); err != nil {
		return DiffBase{}, err
	}
	return DiffBase{GitRevision: &rev}, nil
}

func (r GitRevision) validate() error {
	switch r.Kind {
	case RevisionCommit, RevisionLocalBranch, RevisionRemoteBranch, RevisionRemoteTag, RevisionPullRequest:
	default:
		return fmt.Errorf("invalid git revision kind: %q", r.Kind)
	}
	if r.Commit == "" {
		return fmt.Errorf("git revision %q has no commit", r.InputString)
	}
	if r.GoldenManifestPath == "" {
		return fmt.Errorf("git revision %q has no golden manifest path", r.InputString)
	}
	return nil
}

// Kind returns the name of the populated variant
func (d DiffBase) Kind() string {
	switch {
	case d.FilePath != nil:
		return "file_path"
	case d.PublicURL != nil:
		return "public_url"
	case d.GitRevision != nil:
		return "git_revision"
	default:
		return ""
	}
}

// Validate checks that exactly one variant is populated and that it is well formed
func (d DiffBase) Validate() error {
	set := 0
	if d.FilePath != nil {
		set++
		if d.FilePath.Path == "" {
			return fmt.Errorf("diff base file path cannot be empty")
		}
	}
	if d.PublicURL != nil {
		set++
		if d.PublicURL.URL == "" {
			return fmt.Errorf("diff base URL cannot be empty")
		}
	}
	if d.GitRevision != nil {
		set++
		if err := d.GitRevision.validate(); err != nil {
			return err
		}
	}
	if set != 1 {
		return fmt.Errorf("diff base must have exactly one variant, got %d", set)
	}
	return nil
}

// String renders the diff base for log and terminal output
func (d DiffBase) String() string {
	switch {
	case d.FilePath != nil:
		return d.FilePath.Path
	case d.PublicURL != nil:
		return d.PublicURL.URL
	case d.GitRevision != nil:
		r := d.GitRevision
		switch r.Kind {
		case RevisionRemoteBranch:
			return fmt.Sprintf("%s/%s @ %s", r.Remote, r.Branch, r.Commit)
		case RevisionLocalBranch:
			return fmt.Sprintf("%s @ %s", r.Branch, r.Commit)
		case RevisionRemoteTag:
			return fmt.Sprintf("%s/%s @ %s", r.Remote, r.Tag, r.Commit)
		case RevisionPullRequest:
			return fmt.Sprintf("PR #%d (%s/%s @ %s)", r.PullRequest, r.Remote, r.Branch, r.Commit)
		default:
			return r.Commit
		}
	default:
		return "<unset>"
	}
}
