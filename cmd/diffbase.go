package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	diffBaseJSON bool
	diffBaseToon bool
)

var diffBaseCmd = &cobra.Command{
	Use:   "diff-base [specifier]",
	Short: "Show how a diff base specifier resolves",
	Long: `Resolve a diff base specifier without running anything and print the
result. With no argument the configured golden.default_path is resolved.

CI variables (CI_PULL_REQUEST, CI_TAG, CI_BRANCH) take precedence when CI is set.

Example:
  visreg diff-base origin/master
  visreg diff-base v1.2.0:test/screenshot/golden.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiffBase,
}

func init() {
	rootCmd.AddCommand(diffBaseCmd)

	diffBaseCmd.Flags().BoolVar(&diffBaseJSON, "json", false, "Output as JSON")
	diffBaseCmd.Flags().BoolVar(&diffBaseToon, "toon", false, "Output as Toon")
}

func runDiffBase(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw := cfg.Golden.DefaultPath
	if len(args) > 0 {
		raw = args[0]
	}

	base, err := newResolver(cfg, newRepo()).Resolve(ctx, raw)
	if err != nil {
		return err
	}

	if done, err := printStructured(base, diffBaseJSON, diffBaseToon); done {
		return err
	}

	fmt.Printf("Kind:   %s\n", base.Kind())
	switch {
	case base.FilePath != nil:
		fmt.Printf("Path:   %s\n", base.FilePath.Path)
		fmt.Printf("Default location: %v\n", base.FilePath.IsDefaultLocation)
	case base.PublicURL != nil:
		fmt.Printf("URL:    %s\n", base.PublicURL.URL)
	case base.GitRevision != nil:
		rev := base.GitRevision
		fmt.Printf("Type:   %s\n", rev.Kind)
		fmt.Printf("Input:  %s\n", rev.InputString)
		fmt.Printf("Commit: %s\n", rev.Commit)
		fmt.Printf("Golden: %s\n", rev.GoldenManifestPath)
		if rev.Remote != "" {
			fmt.Printf("Remote: %s\n", rev.Remote)
		}
		if rev.Branch != "" {
			fmt.Printf("Branch: %s\n", rev.Branch)
		}
		if rev.Tag != "" {
			fmt.Printf("Tag:    %s\n", rev.Tag)
		}
		if rev.PullRequest != 0 {
			fmt.Printf("PR:     #%d\n", rev.PullRequest)
		}
	}
	return nil
}
