package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tremaux/internal/config"
	"github.com/aretw0/tremaux/internal/logging"
	"github.com/spf13/cobra"
)

// app holds what PersistentPreRunE resolved for the running command.
var app struct {
	cfg    config.Config
	logger *slog.Logger
}

var rootCmd = &cobra.Command{
	Use:   "tremaux",
	Short: "Tremaux is a maze agent that explores once and replays its route",
	Long: `Tremaux drives a robot through a maze with Trémaux's algorithm: it explores,
backtracks out of dead ends and loops, records the heading it last left every
cell with, and replays that route on later attempts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		app.cfg = cfg
		app.logger = logging.New(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
