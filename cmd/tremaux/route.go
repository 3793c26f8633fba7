package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage persisted routes",
	Long:  `List, inspect and remove the routes saved by "run --save" or the decision service.`,
}

var routeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := openRoutes(storeConfig(flagString(cmd, "store")))
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		ids, err := manager.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing routes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No routes found.")
			return nil
		}
		sort.Strings(ids)
		fmt.Fprintln(out, "Routes:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var routeInspectCmd = &cobra.Command{
	Use:   "inspect <maze-id>",
	Short: "Print a stored route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := openRoutes(storeConfig(flagString(cmd, "store")))
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		route, err := manager.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading route '%s': %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		mazeFile, _ := cmd.Flags().GetString("maze")
		if mazeFile == "" {
			data, err := json.MarshalIndent(route, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling route: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		mc := app.cfg.Maze
		mc.File = mazeFile
		grid, _, err := loadGrid(mc)
		if err != nil {
			return err
		}
		fmt.Fprint(out, grid.Render(arrows(route)))
		return nil
	},
}

var routeRmCmd = &cobra.Command{
	Use:   "rm <maze-id>...",
	Short: "Remove one or more routes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeStore, err := openRoutes(storeConfig(flagString(cmd, "store")))
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		var errs []error
		for _, id := range args {
			if err := manager.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed route '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

// arrows marks every cell of a route with the heading it is left in.
func arrows(route *domain.Route) map[domain.Cell]rune {
	glyph := map[domain.Direction]rune{
		domain.North: '^',
		domain.East:  '>',
		domain.South: 'v',
		domain.West:  '<',
	}
	marks := make(map[domain.Cell]rune, len(route.Steps))
	for c, d := range route.Steps {
		marks[c] = glyph[d]
	}
	return marks
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.AddCommand(routeLsCmd, routeInspectCmd, routeRmCmd)
	routeInspectCmd.Flags().String("maze", "", "ASCII maze file to draw the route on")
}
