package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/visreg/internal/config"
	"github.com/pders01/visreg/internal/logger"
)

// version is set at build time with -ldflags "-X github.com/pders01/visreg/cmd.version=..."
var version = "dev"

var (
	cfgFile  string
	logLevel string
)

// appFs is the file system every command reads and writes through
var appFs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "visreg",
	Short: "Visual regression reports for HTML test pages",
	Long: `visreg compares screenshots of HTML test pages against an approved
golden baseline and writes a structured JSON report:
  - resolves the diff base (file, URL or git revision)
  - expands the user agent catalog against local drivers and connectivity
  - classifies every page/browser pair as added, removed, comparable or skipped
  - approves changes back into golden.json

Configuration is read from $HOME/.config/visreg/config.toml and VISREG_*
environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/visreg/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "visreg"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("visreg")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Setup(cfg.Log, os.Stderr)

	if readErr == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig decodes and validates the current viper state
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// commandContext returns the command's context, or Background when run without one
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
