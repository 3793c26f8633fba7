package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/maze"
)

// RunReport summarises a run command.
type RunReport struct {
	MazeID     string
	Width      int
	Height     int
	Attempts   []maze.Attempt
	Junctions  []domain.Junction
	RouteSteps int
	Saved      bool
}

// Markdown renders the report as a markdown document.
func (r RunReport) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Maze `%s`\n\n", r.MazeID)
	fmt.Fprintf(&b, "%d×%d cells, route of %d steps", r.Width, r.Height, r.RouteSteps)
	if r.Saved {
		b.WriteString(" (saved)")
	}
	b.WriteString(".\n\n")

	b.WriteString("## Attempts\n\n")
	b.WriteString("| Run | Moves | Distinct cells | Collisions | Goal |\n")
	b.WriteString("|---:|---:|---:|---:|:---:|\n")
	for _, a := range r.Attempts {
		goal := "no"
		if a.Reached {
			goal = "yes"
		}
		fmt.Fprintf(&b, "| %d | %d | %d | %d | %s |\n", a.Run, a.Moves, a.Distinct, a.Collisions, goal)
	}

	if len(r.Junctions) > 0 {
		b.WriteString("\n## Junctions\n\n")
		b.WriteString("| # | X | Y | Arrived heading |\n")
		b.WriteString("|---:|---:|---:|---|\n")
		for i, j := range r.Junctions {
			fmt.Fprintf(&b, "| %d | %d | %d | %s |\n", i+1, j.Cell.X, j.Cell.Y, j.Arrived)
		}
	}
	return b.String()
}
