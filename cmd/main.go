package main

import (
	"fmt"
	"os"

	"pupcare/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pupcare",
	Short: "Puppy care log and dashboard backend",
	Long: `pupcare stores a puppy's daily care log (potty breaks, meals, naps, sleep,
health records), shares it between owners, editors and viewers, and serves
the aggregated statistics and schedule charts behind the dashboard.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// setup loads the configuration and builds the logger every command uses.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
