package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/visreg/internal/classify"
	"github.com/pders01/visreg/internal/filter"
	"github.com/pders01/visreg/internal/golden"
	"github.com/pders01/visreg/internal/models"
	"github.com/pders01/visreg/internal/pages"
	"github.com/pders01/visreg/internal/report"
	"github.com/pders01/visreg/internal/useragent"
)

var (
	testDiffBase   string
	testURLs       []string
	testBrowsers   []string
	testOffline    bool
	testOut        string
	testNoPrefetch bool
	testJSON       bool
	testToon       bool
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Assemble a screenshot report against the golden baseline",
	Long: `Resolve the diff base, expand the user agent catalog, classify every
test page/browser pair and write report.json.

Diff base specifiers:
  test/screenshot/golden.json        - a local file
  https://example.com/golden.json    - a public URL
  origin/master                      - a git ref (default golden path)
  v1.2.0:path/to/golden.json         - a git ref and an explicit path

Filters take comma separated regular expressions; a leading "-" excludes:
  visreg test --url button,-dense --browser chrome,-mobile`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&testDiffBase, "diff-base", "", "Golden baseline: file path, URL or git ref[:path]")
	testCmd.Flags().StringSliceVar(&testURLs, "url", []string{}, "Test page path patterns (prefix with - to exclude)")
	testCmd.Flags().StringSliceVar(&testBrowsers, "browser", []string{}, "User agent alias patterns (prefix with - to exclude)")
	testCmd.Flags().BoolVar(&testOffline, "offline", false, "Only use locally installed browsers")
	testCmd.Flags().StringVar(&testOut, "out", "", "Report path (default from config)")
	testCmd.Flags().BoolVar(&testNoPrefetch, "no-prefetch", false, "Skip downloading golden images")
	testCmd.Flags().BoolVar(&testJSON, "json", false, "Output summary as JSON")
	testCmd.Flags().BoolVar(&testToon, "toon", false, "Output summary as Toon")
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pageFilter, err := filter.ParseTokens(testURLs)
	if err != nil {
		return err
	}

	connected := isOnline(ctx, cfg, testOffline)
	catalog, err := newCatalog(testBrowsers, connected)
	if err != nil {
		return err
	}

	out := testOut
	if out == "" {
		out = cfg.Report.Path
	}

	diffBase := testDiffBase
	if diffBase == "" {
		diffBase = cfg.Golden.DefaultPath
	}

	repo := newRepo()
	fetcher, store := newFetcher(cfg)

	deps := report.Deps{
		Resolver: newResolver(cfg, repo),
		Catalog:  catalog,
		Reader:   golden.NewReader(appFs, repo, fetcher),
		Classifier: classify.NewClassifier(classify.Options{
			PageFilter:       pageFilter,
			ExpectedImageDir: filepath.Join(filepath.Dir(out), "golden"),
			Filters:          describeFilters(),
		}),
		Pages: report.PageSourceFunc(func() ([]*models.TestFile, error) {
			return pages.Discover(appFs, pages.Options{Root: cfg.Pages.Root, BaseURL: cfg.Pages.BaseURL})
		}),
		Fetcher: fetcher,
		Cache:   store,
		Version: version,
	}
	if repo.IsGitRepo(ctx) {
		deps.Git = repo
	}

	data, err := report.NewAssembler(deps).Assemble(ctx, report.Request{
		DiffBase:       diffBase,
		Aliases:        useragent.DefaultAliases,
		Args:           os.Args,
		Online:         connected,
		Prefetch:       !testNoPrefetch && connected,
		MaxWorkers:     cfg.Fetch.MaxWorkers,
		ReportJSONFile: out,
	})
	if err != nil {
		return err
	}

	if err := report.Write(appFs, out, data); err != nil {
		return err
	}

	summary := report.Summarize(data)
	if done, err := printStructured(summary, testJSON, testToon); done {
		return err
	}

	fmt.Printf("✓ Wrote report: %s\n", out)
	fmt.Printf("  Diff base: %s\n", data.Meta.DiffBase.String())
	fmt.Printf("  Online:    %v\n\n", data.Meta.Online)
	printSummary(summary)
	return nil
}

func describeFilters() string {
	var parts []string
	if len(testURLs) > 0 {
		parts = append(parts, "--url "+strings.Join(testURLs, ","))
	}
	if len(testBrowsers) > 0 {
		parts = append(parts, "--browser "+strings.Join(testBrowsers, ","))
	}
	if testOffline {
		parts = append(parts, "--offline")
	}
	return strings.Join(parts, " ")
}
