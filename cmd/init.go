package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/visreg/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Create $HOME/.config/visreg/config.toml (or the --config path) with the
built-in defaults so they can be edited.

An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "visreg", "config.toml")
	}

	if exists, _ := afero.Exists(appFs, configPath); exists && !initForce {
		fmt.Printf("Config already exists: %s\n", configPath)
		fmt.Println("Use --force to overwrite it with the defaults.")
		return nil
	}

	if err := appFs.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := appFs.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := config.WriteDefault(f); err != nil {
		return err
	}

	fmt.Printf("✓ Created default config: %s\n", configPath)
	fmt.Println("  You can now run: visreg test")
	return nil
}
