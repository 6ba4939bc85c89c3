// Package report assembles, stores and approves visual regression reports.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/visreg/internal/cache"
	"github.com/pders01/visreg/internal/golden"
	"github.com/pders01/visreg/internal/models"
)

// DiffBaseResolver turns a --diff-base specifier into a DiffBase
type DiffBaseResolver interface {
	Resolve(ctx context.Context, raw string) (models.DiffBase, error)
}

// AgentCatalog expands user agent aliases
type AgentCatalog interface {
	Expand(aliases []string) ([]*models.UserAgent, error)
}

// GoldenReader loads the golden manifest a DiffBase points at
type GoldenReader interface {
	Read(ctx context.Context, base models.DiffBase) (models.GoldenManifest, error)
}

// ScreenshotClassifier builds the screenshot categories
type ScreenshotClassifier interface {
	Classify(golden models.GoldenManifest, pages []*models.TestFile, userAgents []*models.UserAgent) (*models.Screenshots, error)
}

// PageSource lists the test pages of a run
type PageSource interface {
	Discover() ([]*models.TestFile, error)
}

// PageSourceFunc adapts a function to PageSource
type PageSourceFunc func() ([]*models.TestFile, error)

func (f PageSourceFunc) Discover() ([]*models.TestFile, error) { return f() }

// GitInfo answers the metadata questions asked about the working tree
type GitInfo interface {
	GetCurrentBranch(ctx context.Context) (string, error)
	GetCurrentCommit(ctx context.Context) (string, error)
	LatestTag(ctx context.Context) (string, error)
	CommitDistance(ctx context.Context, base string) (int, error)
	Version(ctx context.Context) (string, error)
}

// Deps are the collaborators of an Assembler. Git, Fetcher and Cache are optional.
type Deps struct {
	Resolver   DiffBaseResolver
	Catalog    AgentCatalog
	Reader     GoldenReader
	Classifier ScreenshotClassifier
	Pages      PageSource
	Fetcher    golden.Fetcher
	Cache      *cache.Store
	Git        GitInfo
	Clock      func() time.Time
	Version    string
}

// Request describes one report run
type Request struct {
	DiffBase       string
	Aliases        []string
	Args           []string
	Online         bool
	Prefetch       bool
	MaxWorkers     int
	ReportJSONFile string
}

// Assembler orchestrates a run from diff base resolution to the report payload
type Assembler struct {
	deps Deps
}

// NewAssembler creates an assembler
func NewAssembler(deps Deps) *Assembler {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Assembler{deps: deps}
}

// Assemble runs resolve, expand, read, discover, classify, prefetch and
// metadata in that order. Any failure before metadata aborts the run.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*models.ReportData, error) {
	start := a.deps.Clock()

	base, err := a.deps.Resolver.Resolve(ctx, req.DiffBase)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve diff base: %w", err)
	}
	slog.Debug("resolved diff base", "kind", base.Kind(), "base", base.String())

	agents, err := a.deps.Catalog.Expand(req.Aliases)
	if err != nil {
		return nil, err
	}

	manifest, err := a.deps.Reader.Read(ctx, base)
	if err != nil {
		return nil, err
	}

	pages, err := a.deps.Pages.Discover()
	if err != nil {
		return nil, err
	}
	slog.Debug("discovered test pages", "count", len(pages), "user_agents", len(agents))

	screenshots, err := a.deps.Classifier.Classify(manifest, pages, agents)
	if err != nil {
		return nil, err
	}

	if req.Prefetch && a.deps.Fetcher != nil && a.deps.Cache != nil {
		if err := golden.Prefetch(ctx, a.deps.Fetcher, a.deps.Cache, screenshots.Comparable.List, req.MaxWorkers); err != nil {
			// Recorded per screenshot, the run itself carries on
			slog.Warn("some golden images could not be prefetched", "error", err)
		}
	}

	meta := a.metadata(ctx, req, base)
	meta.StartTime = start
	meta.EndTime = a.deps.Clock()

	return &models.ReportData{
		Meta:        meta,
		UserAgents:  agents,
		Screenshots: screenshots,
		Approvals:   models.NewApprovals(),
	}, nil
}

// metadata gathers run metadata concurrently. A failed lookup leaves its field
// empty and the first failure is logged.
func (a *Assembler) metadata(ctx context.Context, req Request, base models.DiffBase) models.ReportMeta {
	meta := models.ReportMeta{
		RunID:          uuid.NewString(),
		CLIInvocation:  RedactArgs(req.Args),
		DiffBase:       base,
		Online:         req.Online,
		GoldenJSONFile: GoldenSource(base),
		ReportJSONFile: req.ReportJSONFile,
		HostOS:         runtime.GOOS,
		ToolVersions: models.ToolVersions{
			Visreg: a.deps.Version,
			Go:     runtime.Version(),
		},
	}

	if a.deps.Git == nil {
		return meta
	}

	var g errgroup.Group
	g.Go(func() error {
		v, err := a.deps.Git.Version(ctx)
		if err != nil {
			return fmt.Errorf("git version: %w", err)
		}
		meta.ToolVersions.Git = v
		return nil
	})
	g.Go(func() error {
		branch, err := a.deps.Git.GetCurrentBranch(ctx)
		if err != nil {
			return fmt.Errorf("current branch: %w", err)
		}
		meta.Snapshot.Branch = branch
		return nil
	})
	g.Go(func() error {
		commit, err := a.deps.Git.GetCurrentCommit(ctx)
		if err != nil {
			return fmt.Errorf("current commit: %w", err)
		}
		meta.Snapshot.Commit = commit
		return nil
	})
	g.Go(func() error {
		tag, err := a.deps.Git.LatestTag(ctx)
		if err != nil {
			return fmt.Errorf("latest release tag: %w", err)
		}
		if tag == "" {
			return nil
		}
		meta.LatestReleaseTag = tag

		distance, err := a.deps.Git.CommitDistance(ctx, tag)
		if err != nil {
			return fmt.Errorf("commits since %s: %w", tag, err)
		}
		meta.CommitsSinceRelease = distance
		return nil
	})
	// errgroup.Group does not cancel siblings, so every lookup still runs to completion
	if err := g.Wait(); err != nil {
		slog.Debug("run metadata is incomplete", "error", err)
	}

	return meta
}

// GoldenSource names where the golden manifest of base is read from
func GoldenSource(base models.DiffBase) string {
	switch {
	case base.FilePath != nil:
		return base.FilePath.Path
	case base.PublicURL != nil:
		return base.PublicURL.URL
	case base.GitRevision != nil:
		return base.GitRevision.Commit + ":" + base.GitRevision.GoldenManifestPath
	}
	return ""
}
