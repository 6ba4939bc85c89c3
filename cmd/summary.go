package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/visreg/internal/report"
)

var (
	summaryReport string
	summaryJSON   bool
	summaryToon   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show screenshot counts of a report",
	Long: `Show how many screenshots fall into each category of a report, overall
and per user agent.

Example:
  visreg summary
  visreg summary --report build/report.json --toon`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryReport, "report", "", "Report path (default from config)")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Output as JSON")
	summaryCmd.Flags().BoolVar(&summaryToon, "toon", false, "Output as Toon")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := summaryReport
	if path == "" {
		path = cfg.Report.Path
	}

	data, err := report.Read(appFs, path)
	if err != nil {
		return err
	}

	summary := report.Summarize(data)
	if done, err := printStructured(summary, summaryJSON, summaryToon); done {
		return err
	}

	fmt.Println("Report Summary")
	fmt.Println("━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Run:       %s\n", summary.RunID)
	fmt.Printf("Diff base: %s\n", summary.DiffBase)
	fmt.Printf("Started:   %s\n\n", data.Meta.StartTime.Format("2006-01-02 15:04:05"))
	printSummary(summary)
	return nil
}

func printSummary(summary report.Summary) {
	fmt.Println("Screenshots:")
	for _, c := range summary.Categories {
		fmt.Printf("  %-12s %d\n", c.Name, c.Count)
	}

	if len(summary.UserAgents) > 0 {
		fmt.Println()
		fmt.Println("By user agent:")
		fmt.Printf("  %-34s %8s %8s %6s %8s %10s\n", "ALIAS", "RUNNABLE", "SKIPPED", "ADDED", "REMOVED", "COMPARABLE")
		for _, ua := range summary.UserAgents {
			fmt.Printf("  %-34s %8d %8d %6d %8d %10d\n", ua.Alias, ua.Runnable, ua.Skipped, ua.Added, ua.Removed, ua.Comparable)
		}
	}

	if summary.Approved > 0 {
		fmt.Printf("\nApproved: %d\n", summary.Approved)
	}
}
