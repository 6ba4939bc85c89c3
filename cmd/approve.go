package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	vrerrors "github.com/pders01/visreg/internal/errors"
	"github.com/pders01/visreg/internal/golden"
	"github.com/pders01/visreg/internal/models"
	"github.com/pders01/visreg/internal/report"
)

var (
	approveReport     string
	approveGolden     string
	approveChanged    []models.ApprovalID
	approveAdded      []models.ApprovalID
	approveRemoved    []models.ApprovalID
	approveAll        bool
	approveAllChanged bool
	approveAllAdded   bool
	approveAllRemoved bool
	approveDryRun     bool
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Accept screenshots of a report into the golden baseline",
	Long: `Approve changed, added or removed screenshots of a report and write the
updated golden manifest.

Approval IDs have the form <page path>:<user agent alias> and may be repeated
or comma separated. IDs that are not in the report are ignored.

Example:
  visreg approve --all
  visreg approve --added button/baseline.html:desktop_windows_chrome@latest
  visreg approve --all-removed --golden test/screenshot/golden.json`,
	Args: cobra.NoArgs,
	RunE: runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.Flags().StringVar(&approveReport, "report", "", "Report path (default from config)")
	approveCmd.Flags().StringVar(&approveGolden, "golden", "", "Golden manifest to write (default: the report's golden file or golden.default_path)")
	approveCmd.Flags().Var(newApprovalIDsValue(&approveChanged), "changed", "Changed screenshots to approve")
	approveCmd.Flags().Var(newApprovalIDsValue(&approveAdded), "added", "Added screenshots to approve")
	approveCmd.Flags().Var(newApprovalIDsValue(&approveRemoved), "removed", "Removed screenshots to approve")
	approveCmd.Flags().BoolVar(&approveAll, "all", false, "Approve every changed, added and removed screenshot")
	approveCmd.Flags().BoolVar(&approveAllChanged, "all-changed", false, "Approve every changed screenshot")
	approveCmd.Flags().BoolVar(&approveAllAdded, "all-added", false, "Approve every added screenshot")
	approveCmd.Flags().BoolVar(&approveAllRemoved, "all-removed", false, "Approve every removed screenshot")
	approveCmd.Flags().BoolVar(&approveDryRun, "dry-run", false, "Show what would be approved without writing")
}

func runApprove(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := report.ApprovalRequest{
		All:        approveAll,
		AllChanged: approveAllChanged,
		AllAdded:   approveAllAdded,
		AllRemoved: approveAllRemoved,
		Changed:    approveChanged,
		Added:      approveAdded,
		Removed:    approveRemoved,
	}
	if req.IsEmpty() {
		return &vrerrors.ConfigurationError{
			Value:  "",
			Remedy: "Nothing to approve. Pass --all, --all-changed, --all-added, --all-removed or explicit --changed/--added/--removed IDs.",
		}
	}

	reportPath := approveReport
	if reportPath == "" {
		reportPath = cfg.Report.Path
	}

	data, err := report.Read(appFs, reportPath)
	if err != nil {
		return err
	}

	approvals := report.Approve(data.Screenshots, req)
	if approvals.Len() == 0 {
		fmt.Println("No matching screenshots to approve")
		return nil
	}

	fmt.Printf("Approving %d screenshot(s):\n", approvals.Len())
	printApprovals("changed", approvals.Changed)
	printApprovals("added", approvals.Added)
	printApprovals("removed", approvals.Removed)

	if approveDryRun {
		fmt.Println("\nThis is a dry run. Nothing was written.")
		return nil
	}

	repo := newRepo()
	fetcher, _ := newFetcher(cfg)
	manifest, err := golden.NewReader(appFs, repo, fetcher).Read(ctx, data.Meta.DiffBase)
	if err != nil {
		return err
	}

	goldenPath := approveGolden
	if goldenPath == "" {
		goldenPath = cfg.Golden.DefaultPath
		if fp := data.Meta.DiffBase.FilePath; fp != nil {
			goldenPath = fp.Path
		}
	}

	if err := golden.Write(appFs, goldenPath, report.ApplyApprovals(manifest, approvals)); err != nil {
		return fmt.Errorf("failed to write golden manifest: %w", err)
	}

	data.Approvals = approvals
	if err := report.Write(appFs, reportPath, data); err != nil {
		return err
	}

	fmt.Printf("\n✓ Updated golden manifest: %s\n", goldenPath)
	return nil
}

func printApprovals(category string, list []*models.Screenshot) {
	for _, s := range list {
		fmt.Printf("  %-8s %s\n", category, s.Key())
	}
}
