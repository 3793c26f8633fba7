package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/tremaux"
	"github.com/aretw0/tremaux/internal/config"
	"github.com/aretw0/tremaux/internal/presentation/tui"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/maze"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [maze-file]",
	Short: "Explore a maze, then replay the recorded route",
	Long: `Loads an ASCII maze (or generates one), lets the agent explore it once and
replays the recorded route on the following attempts. The route can be saved
to the configured store and replayed later with --replay.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := storeConfig(flagString(cmd, "store"))
		mc := cfg.Maze
		if len(args) > 0 {
			mc.File = args[0]
		}
		if cmd.Flags().Changed("width") {
			mc.Width, _ = cmd.Flags().GetInt("width")
		}
		if cmd.Flags().Changed("height") {
			mc.Height, _ = cmd.Flags().GetInt("height")
		}
		if cmd.Flags().Changed("seed") {
			mc.Seed, _ = cmd.Flags().GetInt64("seed")
		}
		if cmd.Flags().Changed("loops") {
			mc.Loops, _ = cmd.Flags().GetInt("loops")
		}
		attempts, _ := cmd.Flags().GetInt("attempts")
		save, _ := cmd.Flags().GetBool("save")
		replayOnly, _ := cmd.Flags().GetBool("replay")
		noColor, _ := cmd.Flags().GetBool("no-color")
		mazeID, _ := cmd.Flags().GetString("maze-id")

		if attempts < 1 {
			return errors.New("--attempts must be at least 1")
		}

		grid, defaultID, err := loadGrid(mc)
		if err != nil {
			return err
		}
		if mazeID == "" {
			mazeID = defaultID
		}

		logger := app.logger.With("run_id", uuid.NewString())

		opts := []tremaux.Option{
			tremaux.WithMazeID(mazeID),
			tremaux.WithLogger(logger),
			tremaux.WithLedgerCapacity(cfg.Engine.LedgerCapacity),
		}
		if cfg.Engine.Seed != 0 {
			opts = append(opts, tremaux.WithRandom(rand.New(rand.NewSource(cfg.Engine.Seed))))
		}

		manager, closeStore, err := openRoutes(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if replayOnly {
			route, err := manager.Load(ctx, mazeID)
			if err != nil {
				return fmt.Errorf("loading route for %q: %w", mazeID, err)
			}
			opts = append(opts, tremaux.WithRoute(route))
		}

		ctrl := tremaux.New(opts...)
		host := maze.NewHost(grid,
			maze.WithStartHeading(cfg.StartHeading()),
			maze.WithMaxMoves(mc.MaxMoves),
			maze.WithLogger(logger),
		)
		if replayOnly {
			host.NextAttempt(ctrl)
		}

		report := tui.RunReport{MazeID: mazeID, Width: grid.Width, Height: grid.Height}
		var firstTrail, lastTrail []domain.Cell

		for i := 0; i < attempts; i++ {
			if i > 0 {
				host.NextAttempt(ctrl)
			}
			started := time.Now()
			a, err := host.Run(ctx, ctrl)
			report.Attempts = append(report.Attempts, a)
			logger.Info("attempt finished", "run", a.Run, "moves", a.Moves, "reached", a.Reached, "elapsed", time.Since(started))
			if err != nil {
				return fmt.Errorf("attempt %d: %w", a.Run, err)
			}
			if i == 0 {
				firstTrail = a.Trail
				if !replayOnly {
					report.Junctions = ctrl.Junctions()
				}
			}
			lastTrail = a.Trail
		}

		route := ctrl.Route()
		report.RouteSteps = len(route.Steps)
		if save && !replayOnly {
			if err := manager.Save(ctx, route); err != nil {
				return fmt.Errorf("saving route: %w", err)
			}
			report.Saved = true
		}

		out := cmd.OutOrStdout()
		interactive := !noColor && out == os.Stdout && tui.IsInteractive(os.Stdout)
		if interactive {
			tui.PrintBanner(out)
		}

		md := report.Markdown()
		if interactive {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprintln(out, md)

		var explore []domain.Cell
		if attempts > 1 {
			explore = firstTrail
		}
		fmt.Fprint(out, tui.RenderMaze(grid, explore, lastTrail, interactive))
		return nil
	},
}

// loadGrid reads or generates the maze and derives a default maze ID.
func loadGrid(mc config.MazeConfig) (*maze.Grid, string, error) {
	if mc.File != "" {
		f, err := os.Open(mc.File)
		if err != nil {
			return nil, "", fmt.Errorf("opening maze: %w", err)
		}
		defer f.Close()

		g, err := maze.Parse(f)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", mc.File, err)
		}
		id := strings.TrimSuffix(filepath.Base(mc.File), filepath.Ext(mc.File))
		return g, id, nil
	}

	g, err := maze.Generate(mc.Width, mc.Height, mc.Seed, mc.Loops)
	if err != nil {
		return nil, "", err
	}
	return g, fmt.Sprintf("gen-%dx%d-s%d-l%d", mc.Width, mc.Height, mc.Seed, mc.Loops), nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("width", 0, "Generated maze width (overrides config)")
	runCmd.Flags().Int("height", 0, "Generated maze height (overrides config)")
	runCmd.Flags().Int64("seed", 0, "Generator seed (overrides config)")
	runCmd.Flags().Int("loops", 0, "Extra passages knocked through a generated maze")
	runCmd.Flags().Int("attempts", 2, "Number of attempts; every attempt after the first replays")
	runCmd.Flags().String("maze-id", "", "Route key (default: file name or generator parameters)")
	runCmd.Flags().Bool("save", false, "Persist the recorded route to the store")
	runCmd.Flags().Bool("replay", false, "Skip exploring and replay the stored route")
	runCmd.Flags().Bool("no-color", false, "Disable colours and markdown rendering")
}
