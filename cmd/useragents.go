package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/visreg/internal/models"
	"github.com/pders01/visreg/internal/useragent"
)

var (
	userAgentsBrowsers []string
	userAgentsOffline  bool
	userAgentsJSON     bool
	userAgentsToon     bool
)

var userAgentsCmd = &cobra.Command{
	Use:     "user-agents",
	Aliases: []string{"ua"},
	Short:   "List the user agent catalog and what can run here",
	Long: `List every user agent alias with its parsed segments and whether it is
enabled by --browser, has a local driver, and is runnable.

Example:
  visreg user-agents
  visreg user-agents --browser safari,-mobile --offline`,
	Args: cobra.NoArgs,
	RunE: runUserAgents,
}

func init() {
	rootCmd.AddCommand(userAgentsCmd)

	userAgentsCmd.Flags().StringSliceVar(&userAgentsBrowsers, "browser", []string{}, "User agent alias patterns (prefix with - to exclude)")
	userAgentsCmd.Flags().BoolVar(&userAgentsOffline, "offline", false, "Only count locally installed browsers as runnable")
	userAgentsCmd.Flags().BoolVar(&userAgentsJSON, "json", false, "Output as JSON")
	userAgentsCmd.Flags().BoolVar(&userAgentsToon, "toon", false, "Output as Toon")
}

func runUserAgents(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	connected := isOnline(ctx, cfg, userAgentsOffline)
	catalog, err := newCatalog(userAgentsBrowsers, connected)
	if err != nil {
		return err
	}

	agents, err := catalog.Expand(useragent.DefaultAliases)
	if err != nil {
		return err
	}

	// Toon encodes flat values best
	rows := make([]models.UserAgent, len(agents))
	for i, ua := range agents {
		rows[i] = *ua
	}
	if done, err := printStructured(rows, userAgentsJSON, userAgentsToon); done {
		return err
	}

	fmt.Printf("Online: %v\n\n", connected)
	fmt.Printf("%-34s %-8s %-8s %-8s %s\n", "ALIAS", "ENABLED", "DRIVER", "RUNNABLE", "DRIVER BINARY")
	runnable := 0
	for _, ua := range agents {
		bin, _ := useragent.DriverBinary(ua.BrowserVendor)
		fmt.Printf("%-34s %-8s %-8s %-8s %s\n", ua.Alias, mark(ua.IsEnabledByCLI), mark(ua.IsAvailableLocally), mark(ua.IsRunnable), bin)
		if ua.IsRunnable {
			runnable++
		}
	}
	fmt.Printf("\n%d of %d user agents runnable\n", runnable, len(agents))
	return nil
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return "-"
}
