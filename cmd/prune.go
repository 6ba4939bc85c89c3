package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/visreg/internal/cache"
)

var (
	pruneDryRun bool
	pruneForce  bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old downloads from the golden image cache",
	Long: `Remove cached golden manifests and images older than the retention period.

The retention policy is configured in ~/.config/visreg/config.toml:
  [cache]
  dir = ".visreg/cache"
  retention_days = 30

Example:
  visreg prune              # Show what would be pruned
  visreg prune --force      # Actually remove the files`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", true, "Show what would be pruned without deleting")
	pruneCmd.Flags().BoolVar(&pruneForce, "force", false, "Actually delete files (overrides dry-run)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	now := time.Now()
	cutoff := cfg.RetentionCutoff(now)
	dryRun := pruneDryRun && !pruneForce

	fmt.Printf("Cache directory: %s\n", cfg.Cache.Dir)
	fmt.Printf("Retention policy: %d days\n", cfg.Cache.RetentionDays)
	fmt.Printf("Cutoff date: %s\n\n", cutoff.Format("2006-01-02"))

	store := cache.NewStore(appFs, cfg.Cache.Dir)
	pruned, err := store.Prune(cutoff, dryRun)
	if err != nil {
		return err
	}

	if len(pruned) == 0 {
		fmt.Println("Nothing to prune")
		return nil
	}

	var total int64
	fmt.Printf("Cache entries to prune (%d):\n\n", len(pruned))
	for _, e := range pruned {
		fmt.Printf("  %s\n", e.Path)
		fmt.Printf("    Age:  %s\n", formatDuration(now.Sub(e.ModTime)))
		fmt.Printf("    Size: %s\n", formatBytes(e.Size))
		total += e.Size
	}

	if dryRun {
		fmt.Printf("\n%s would be freed. This is a dry run. Use --force to actually prune.\n", formatBytes(total))
		return nil
	}

	fmt.Printf("\n✓ Pruned %d file(s), freed %s\n", len(pruned), formatBytes(total))
	return nil
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days == 0 {
		return "< 1 day"
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
