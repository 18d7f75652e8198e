package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/karstlabs/gibbs"
	"github.com/karstlabs/gibbs/internal/logging"
	"github.com/karstlabs/gibbs/pkg/frame"
	"github.com/karstlabs/gibbs/pkg/registry"
)

var rootCmd = &cobra.Command{
	Use:   "gibbs",
	Short: "gibbs assembles composable thermodynamic models",
	Long:  `gibbs assembles contribution-based thermodynamic models from YAML configuration, reports their parameter requirements, and computes consistent initial states.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "frame.yaml", "Frame configuration file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

// loadFrame assembles the frame named by the --config flag.
func loadFrame(cmd *cobra.Command) (*frame.Frame, error) {
	path, _ := cmd.Flags().GetString("config")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := registry.ParseConfig(data)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	eng, err := gibbs.New(gibbs.WithLogger(logging.New(level)))
	if err != nil {
		return nil, err
	}
	return eng.Assemble(cfg)
}
