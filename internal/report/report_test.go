package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/visreg/internal/cache"
	"github.com/pders01/visreg/internal/classify"
	vrerrors "github.com/pders01/visreg/internal/errors"
	"github.com/pders01/visreg/internal/models"
	"github.com/pders01/visreg/internal/useragent"
)

const (
	chrome  = "desktop_windows_chrome@latest"
	firefox = "desktop_windows_firefox@latest"
)

type stubResolver struct {
	base models.DiffBase
	err  error
	got  string
}

func (s *stubResolver) Resolve(_ context.Context, raw string) (models.DiffBase, error) {
	s.got = raw
	return s.base, s.err
}

type stubReader struct {
	manifest models.GoldenManifest
}

func (s *stubReader) Read(context.Context, models.DiffBase) (models.GoldenManifest, error) {
	return s.manifest, nil
}

type stubGit struct {
	failTag bool
}

func (stubGit) GetCurrentBranch(context.Context) (string, error) { return "feature/button", nil }
func (stubGit) GetCurrentCommit(context.Context) (string, error) { return "abc1234", nil }
func (stubGit) Version(context.Context) (string, error)          { return "git version 2.45.0", nil }
func (s stubGit) LatestTag(context.Context) (string, error) {
	if s.failTag {
		return "", errors.New("fatal: No names found")
	}
	return "v1.2.0", nil
}
func (stubGit) CommitDistance(_ context.Context, base string) (int, error) { return 7, nil }

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	return []byte("png:" + url), nil
}

func testPages() []*models.TestFile {
	return []*models.TestFile{
		{RelativePath: "a.html", PublicURL: "https://cdn/pages/a.html"},
		{RelativePath: "c.html", PublicURL: "https://cdn/pages/c.html"},
	}
}

func testGolden() models.GoldenManifest {
	g := models.GoldenManifest{}
	g.Set("a.html", "https://cdn/pages/a.html", chrome, "https://cdn/img/a_chrome.png")
	g.Set("b.html", "https://cdn/pages/b.html", chrome, "https://cdn/img/b_chrome.png")
	return g
}

func newTestAssembler(t *testing.T, resolver *stubResolver, git GitInfo, fsys afero.Fs) *Assembler {
	t.Helper()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewAssembler(Deps{
		Resolver:   resolver,
		Catalog:    useragent.NewCatalog(useragent.Options{Online: true}),
		Reader:     &stubReader{manifest: testGolden()},
		Classifier: classify.NewClassifier(classify.Options{ExpectedImageDir: "/out/golden"}),
		Pages:      PageSourceFunc(func() ([]*models.TestFile, error) { return testPages(), nil }),
		Fetcher:    stubFetcher{},
		Cache:      cache.NewStore(fsys, "/cache"),
		Git:        git,
		Clock:      func() time.Time { return clock },
		Version:    "1.0.0-test",
	})
}

func TestAssemble(t *testing.T) {
	fsys := afero.NewMemMapFs()
	base, err := models.NewFilePathBase("test/screenshot/golden.json", true)
	require.NoError(t, err)
	resolver := &stubResolver{base: base}

	a := newTestAssembler(t, resolver, stubGit{}, fsys)
	data, err := a.Assemble(context.Background(), Request{
		DiffBase:   "test/screenshot/golden.json",
		Aliases:    []string{chrome, firefox},
		Args:       []string{"visreg", "test", "--api-token=hunter2"},
		Online:     true,
		Prefetch:   true,
		MaxWorkers: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "test/screenshot/golden.json", resolver.got)
	assert.Len(t, data.UserAgents, 2)
	assert.Equal(t, 1, data.Screenshots.Comparable.Len())
	assert.Equal(t, 3, data.Screenshots.Added.Len())
	assert.Equal(t, 1, data.Screenshots.Removed.Len())

	meta := data.Meta
	assert.NotEmpty(t, meta.RunID)
	assert.Equal(t, "visreg test --api-token=***", meta.CLIInvocation)
	assert.Equal(t, "feature/button", meta.Snapshot.Branch)
	assert.Equal(t, "abc1234", meta.Snapshot.Commit)
	assert.Equal(t, "v1.2.0", meta.LatestReleaseTag)
	assert.Equal(t, 7, meta.CommitsSinceRelease)
	assert.Equal(t, "1.0.0-test", meta.ToolVersions.Visreg)
	assert.Equal(t, "git version 2.45.0", meta.ToolVersions.Git)
	assert.True(t, meta.Online)
	assert.Equal(t, base, meta.DiffBase)
	assert.Equal(t, "test/screenshot/golden.json", meta.GoldenJSONFile)

	// comparable golden images were prefetched
	img := data.Screenshots.Comparable.List[0].ExpectedImageFile
	contents, err := afero.ReadFile(fsys, img.AbsolutePath)
	require.NoError(t, err)
	assert.Equal(t, "png:https://cdn/img/a_chrome.png", string(contents))
}

func TestAssembleMetadataFailuresAreNotFatal(t *testing.T) {
	base, _ := models.NewPublicURLBase("https://cdn/golden.json")
	a := newTestAssembler(t, &stubResolver{base: base}, stubGit{failTag: true}, afero.NewMemMapFs())

	data, err := a.Assemble(context.Background(), Request{Aliases: []string{chrome}})
	require.NoError(t, err)
	assert.Empty(t, data.Meta.LatestReleaseTag)
	assert.Zero(t, data.Meta.CommitsSinceRelease)
	assert.Equal(t, "abc1234", data.Meta.Snapshot.Commit)
	assert.Equal(t, "feature/button", data.Meta.Snapshot.Branch)
	assert.Equal(t, "git version 2.45.0", data.Meta.ToolVersions.Git)
}

func TestAssembleStopsOnErrors(t *testing.T) {
	resolveErr := &vrerrors.ResolutionError{Ref: "nope"}
	a := newTestAssembler(t, &stubResolver{err: resolveErr}, nil, afero.NewMemMapFs())
	_, err := a.Assemble(context.Background(), Request{Aliases: []string{chrome}})
	assert.True(t, vrerrors.IsResolution(err))

	base, _ := models.NewPublicURLBase("https://cdn/golden.json")
	a = newTestAssembler(t, &stubResolver{base: base}, nil, afero.NewMemMapFs())
	_, err = a.Assemble(context.Background(), Request{Aliases: []string{"desktop_beos_chrome@latest"}})
	assert.True(t, vrerrors.IsConfiguration(err))
}

func TestRedactArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"visreg", "test", "--browser", "chrome"}, "visreg test --browser chrome"},
		{[]string{"visreg", "--token", "abc", "--url", "button"}, "visreg --token *** --url button"},
		{[]string{"visreg", "--SECRET=abc"}, "visreg --SECRET=***"},
		{[]string{"visreg", "--diff-base", "https://user:pw@cdn.example.com/golden.json"}, "visreg --diff-base https://cdn.example.com/golden.json"},
		{[]string{"visreg", "--diff-base=https://user:pw@cdn.example.com/g.json"}, "visreg --diff-base=https://cdn.example.com/g.json"},
		{[]string{"visreg", "user@host"}, "visreg user@host"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactArgs(tt.args))
	}
}

func assembled(t *testing.T) *models.ReportData {
	t.Helper()
	base, _ := models.NewPublicURLBase("https://cdn/golden.json")
	a := newTestAssembler(t, &stubResolver{base: base}, nil, afero.NewMemMapFs())
	data, err := a.Assemble(context.Background(), Request{Aliases: []string{chrome, firefox}})
	require.NoError(t, err)
	return data
}

func TestWriteRead(t *testing.T) {
	fsys := afero.NewMemMapFs()
	data := assembled(t)

	require.NoError(t, Write(fsys, "/out/report.json", data))
	loaded, err := Read(fsys, "/out/report.json")
	require.NoError(t, err)

	assert.Equal(t, data.Meta.RunID, loaded.Meta.RunID)
	assert.Equal(t, data.Meta.DiffBase, loaded.Meta.DiffBase)
	assert.Equal(t, data.Screenshots.Added.Len(), loaded.Screenshots.Added.Len())
	for _, s := range loaded.Screenshots.Added.List {
		assert.Same(t, loaded.Screenshots.Actual.Find(s.Key()), s)
	}
}

func TestWriteKeepsApprovalsKey(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, Write(fsys, "/out/report.json", assembled(t)))

	raw, err := afero.ReadFile(fsys, "/out/report.json")
	require.NoError(t, err)
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))
	for _, key := range []string{"meta", "userAgents", "screenshots", "approvals"} {
		assert.Contains(t, top, key)
	}
	assert.JSONEq(t, `{"changed":[],"added":[],"removed":[]}`, string(top["approvals"]))
}

func TestReadPartitionsDiffedScreenshots(t *testing.T) {
	fsys := afero.NewMemMapFs()
	data := assembled(t)
	require.Equal(t, 1, data.Screenshots.Comparable.Len())

	// written back by the image differ after capture
	shot := data.Screenshots.Comparable.List[0]
	shot.ActualImageFile = &models.TestFile{RelativePath: "a/chrome.png", PublicURL: "https://cdn/run/a_chrome.png"}
	shot.ImageDiffResult = &models.ImageDiffResult{HasChanged: true, DiffPixelCount: 12}
	require.NoError(t, Write(fsys, "/out/report.json", data))

	loaded, err := Read(fsys, "/out/report.json")
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Screenshots.Changed.Len())
	assert.Equal(t, 0, loaded.Screenshots.Unchanged.Len())
	changed := loaded.Screenshots.Changed.List[0]
	assert.Same(t, loaded.Screenshots.Actual.Find(changed.Key()), changed)
	assert.Equal(t, models.CaptureDiffed, changed.CaptureState)

	approvals := Approve(loaded.Screenshots, ApprovalRequest{AllChanged: true})
	require.Len(t, approvals.Changed, 1)

	updated := ApplyApprovals(testGolden(), approvals)
	assert.Equal(t, "https://cdn/run/a_chrome.png", updated["a.html"].Screenshots[chrome])
}

func TestReadRejectsInvalidReports(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "bad.json", []byte("{"), 0644)
	afero.WriteFile(fsys, "nobase.json", []byte(`{"meta":{},"screenshots":{}}`), 0644)

	for _, path := range []string{"bad.json", "nobase.json", "missing.json"} {
		_, err := Read(fsys, path)
		assert.Error(t, err, path)
	}
}

func TestApprove(t *testing.T) {
	data := assembled(t)
	s := data.Screenshots

	approvals := Approve(s, ApprovalRequest{
		Added: []models.ApprovalID{
			{HTMLFilePath: "c.html", UserAgentAlias: chrome},
			{HTMLFilePath: "c.html", UserAgentAlias: chrome},
			{HTMLFilePath: "nowhere.html", UserAgentAlias: chrome},
		},
		Removed: []models.ApprovalID{{HTMLFilePath: "b.html", UserAgentAlias: chrome}},
	})

	require.Len(t, approvals.Added, 1)
	assert.Same(t, s.Added.Find(models.ScreenshotKey{PagePath: "c.html", Alias: chrome}), approvals.Added[0])
	require.Len(t, approvals.Removed, 1)
	assert.Empty(t, approvals.Changed)
	assert.Equal(t, 2, approvals.Len())

	all := Approve(s, ApprovalRequest{All: true})
	assert.Equal(t, s.Changed.Len()+s.Added.Len()+s.Removed.Len(), all.Len())

	onlyAdded := Approve(s, ApprovalRequest{AllAdded: true})
	assert.Len(t, onlyAdded.Added, s.Added.Len())
	assert.Empty(t, onlyAdded.Removed)

	assert.True(t, ApprovalRequest{}.IsEmpty())
	assert.False(t, ApprovalRequest{AllRemoved: true}.IsEmpty())
}

func TestApplyApprovals(t *testing.T) {
	data := assembled(t)
	s := data.Screenshots

	added := s.Added.Find(models.ScreenshotKey{PagePath: "c.html", Alias: chrome})
	added.ActualImageFile = &models.TestFile{PublicURL: "https://cdn/run/c_chrome.png"}
	uncaptured := s.Added.Find(models.ScreenshotKey{PagePath: "c.html", Alias: firefox})

	approvals := &models.Approvals{
		Added:   []*models.Screenshot{added, uncaptured},
		Removed: s.Removed.List,
	}

	original := testGolden()
	updated := ApplyApprovals(original, approvals)

	url, ok := updated.ImageURL("c.html", chrome)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn/run/c_chrome.png", url)
	assert.Equal(t, "https://cdn/pages/c.html", updated["c.html"].PublicURL)

	_, ok = updated.ImageURL("c.html", firefox)
	assert.False(t, ok, "uncaptured screenshots are not written")

	_, ok = updated["b.html"]
	assert.False(t, ok, "removed page should be gone")

	_, ok = original["b.html"]
	assert.True(t, ok, "input manifest must not be modified")
}

func TestSummarize(t *testing.T) {
	data := assembled(t)
	data.Approvals = &models.Approvals{Added: data.Screenshots.Added.List[:1]}

	summary := Summarize(data)
	assert.Equal(t, data.Meta.RunID, summary.RunID)
	assert.Equal(t, 1, summary.Approved)
	require.Len(t, summary.Categories, 9)
	assert.Equal(t, CategoryCount{Name: "expected", Count: 2}, summary.Categories[0])
	assert.Equal(t, CategoryCount{Name: "actual", Count: 4}, summary.Categories[1])

	require.Len(t, summary.UserAgents, 2)
	assert.Equal(t, AgentCount{Alias: chrome, Runnable: 2, Added: 1, Removed: 1, Comparable: 1}, summary.UserAgents[0])
	assert.Equal(t, AgentCount{Alias: firefox, Runnable: 2, Added: 2}, summary.UserAgents[1])
}
