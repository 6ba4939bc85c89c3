// Package classify sorts the screenshots of a run into expected, actual and
// the derived categories the report is built from.
package classify

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	vrerrors "github.com/pders01/visreg/internal/errors"
	"github.com/pders01/visreg/internal/filter"
	"github.com/pders01/visreg/internal/models"
	"github.com/pders01/visreg/internal/useragent"
)

// EmptyRunError means the CLI filters left nothing to capture
type EmptyRunError struct {
	Actual     int
	Runnable   int
	Capturable int
	Filters    string
}

func (e *EmptyRunError) Error() string {
	if e.Runnable == 0 {
		return fmt.Sprintf("no runnable screenshots: all %d were filtered out or have no available browser", e.Actual)
	}
	return "no screenshots to capture: nothing was added or is comparable to the golden file"
}

// Unwrap exposes the error as a ConfigurationError
func (e *EmptyRunError) Unwrap() error {
	return &vrerrors.ConfigurationError{
		Value:  e.Filters,
		Remedy: "Loosen the --url and --browser filters, or run online so remote browsers are available.",
	}
}

// Options configures a Classifier
type Options struct {
	// PageFilter is the --url include/exclude policy applied to page paths
	PageFilter filter.Patterns
	// ExpectedImageDir is where golden images are downloaded to
	ExpectedImageDir string
	// Filters describes the active CLI filters in error messages
	Filters string
}

// Classifier builds the categorised screenshot sets of a run
type Classifier struct {
	opts Options
}

// NewClassifier creates a classifier
func NewClassifier(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// Classify builds every screenshot category from the golden manifest, the
// discovered test pages and the expanded user agents.
func (c *Classifier) Classify(golden models.GoldenManifest, pages []*models.TestFile, userAgents []*models.UserAgent) (*models.Screenshots, error) {
	agents := make(map[string]*models.UserAgent, len(userAgents))
	for _, ua := range userAgents {
		agents[ua.Alias] = ua
	}
	pagesByPath := make(map[string]*models.TestFile, len(pages))
	for _, p := range pages {
		pagesByPath[p.RelativePath] = p
	}

	expected := c.buildExpected(golden, pagesByPath, agents)
	actual := c.buildActual(golden, pages, userAgents)

	var runnable, skipped []*models.Screenshot
	for _, s := range actual {
		if s.IsRunnable {
			runnable = append(runnable, s)
		} else {
			skipped = append(skipped, s)
		}
	}

	expectedKeys := keySet(expected)
	actualKeys := keySet(actual)

	var added, removed, comparable []*models.Screenshot
	for _, s := range actual {
		if expectedKeys[s.Key()] {
			comparable = append(comparable, s)
		} else {
			added = append(added, s)
		}
	}
	for _, s := range expected {
		if !actualKeys[s.Key()] {
			removed = append(removed, s)
		}
	}

	stamp(added, models.InclusionAdd, models.CaptureQueued)
	stamp(comparable, models.InclusionCompare, models.CaptureQueued)
	stamp(removed, models.InclusionRemove, models.CaptureSkipped)
	// Skipped is stamped last so a filtered-out screenshot is never queued
	stamp(skipped, models.InclusionSkip, models.CaptureSkipped)

	if len(runnable) == 0 || len(comparable)+len(added) == 0 {
		return nil, &EmptyRunError{
			Actual:     len(actual),
			Runnable:   len(runnable),
			Capturable: len(comparable) + len(added),
			Filters:    c.opts.Filters,
		}
	}

	sorter := newSorter()
	return &models.Screenshots{
		Expected:   sorter.set(expected),
		Actual:     sorter.set(actual),
		Runnable:   sorter.set(runnable),
		Skipped:    sorter.set(skipped),
		Added:      sorter.set(added),
		Removed:    sorter.set(removed),
		Comparable: sorter.set(comparable),
		Changed:    models.NewScreenshotSet(nil),
		Unchanged:  models.NewScreenshotSet(nil),
	}, nil
}

func (c *Classifier) buildExpected(golden models.GoldenManifest, pagesByPath map[string]*models.TestFile, agents map[string]*models.UserAgent) []*models.Screenshot {
	var expected []*models.Screenshot
	for _, page := range golden.Pages() {
		rec := golden[page]

		pageFile, ok := pagesByPath[page]
		if !ok {
			pageFile = &models.TestFile{RelativePath: page, PublicURL: rec.PublicURL}
		}

		for alias, imageURL := range rec.Screenshots {
			ua, ok := agents[alias]
			if !ok {
				ua = parseRetired(alias)
			}
			expected = append(expected, &models.Screenshot{
				UserAgent:         ua,
				TestPageFile:      pageFile,
				ExpectedImageFile: c.expectedImage(page, alias, imageURL),
			})
		}
	}
	return expected
}

func (c *Classifier) buildActual(golden models.GoldenManifest, pages []*models.TestFile, userAgents []*models.UserAgent) []*models.Screenshot {
	actual := make([]*models.Screenshot, 0, len(pages)*len(userAgents))
	for _, page := range pages {
		pageRunnable := c.opts.PageFilter.Matches(page.RelativePath)
		for _, ua := range userAgents {
			s := &models.Screenshot{
				UserAgent:    ua,
				TestPageFile: page,
				IsRunnable:   pageRunnable && ua.IsRunnable,
			}
			if imageURL, ok := golden.ImageURL(page.RelativePath, ua.Alias); ok {
				s.ExpectedImageFile = c.expectedImage(page.RelativePath, ua.Alias, imageURL)
			}
			actual = append(actual, s)
		}
	}
	return actual
}

// expectedImage addresses a golden image by <page without extension>/<alias>.png
func (c *Classifier) expectedImage(page, alias, imageURL string) *models.TestFile {
	rel := strings.TrimSuffix(page, path.Ext(page)) + "/" + alias + ".png"
	img := &models.TestFile{RelativePath: rel, PublicURL: imageURL}
	if c.opts.ExpectedImageDir != "" {
		img.AbsolutePath = filepath.Join(c.opts.ExpectedImageDir, filepath.FromSlash(rel))
	}
	return img
}

// parseRetired describes a golden user agent that is no longer in the catalog.
// It is never runnable.
func parseRetired(alias string) *models.UserAgent {
	ua, err := useragent.Parse(alias)
	if err != nil {
		return &models.UserAgent{Alias: alias}
	}
	return ua
}

func stamp(list []*models.Screenshot, inclusion models.InclusionType, state models.CaptureState) {
	for _, s := range list {
		s.InclusionType = inclusion
		s.CaptureState = state
	}
}

func keySet(list []*models.Screenshot) map[models.ScreenshotKey]bool {
	keys := make(map[models.ScreenshotKey]bool, len(list))
	for _, s := range list {
		keys[s.Key()] = true
	}
	return keys
}

// sorter orders screenshots by page path then alias using locale-aware collation
type sorter struct {
	col *collate.Collator
}

func newSorter() *sorter {
	return &sorter{col: collate.New(language.Und)}
}

func (s *sorter) less(a, b *models.Screenshot) bool {
	if c := s.col.CompareString(a.PagePath(), b.PagePath()); c != 0 {
		return c < 0
	}
	if c := s.col.CompareString(a.Alias(), b.Alias()); c != 0 {
		return c < 0
	}
	// Collation ties between distinct strings (NFC vs NFD) fall back to bytes
	if a.PagePath() != b.PagePath() {
		return a.PagePath() < b.PagePath()
	}
	return a.Alias() < b.Alias()
}

func (s *sorter) sort(list []*models.Screenshot) {
	sort.SliceStable(list, func(i, j int) bool {
		return s.less(list[i], list[j])
	})
}

func (s *sorter) set(list []*models.Screenshot) models.ScreenshotSet {
	s.sort(list)
	return models.NewScreenshotSet(list)
}

// Sort orders list by page path then alias, in place
func Sort(list []*models.Screenshot) {
	newSorter().sort(list)
}
