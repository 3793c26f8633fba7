package maze

import (
	"github.com/aretw0/tremaux/pkg/domain"
)

// Robot is a simulated robot inside a Grid. It implements ports.Robot.
// A cell counts as BeenBefore once the robot has stood on it during the current attempt.
type Robot struct {
	grid    *Grid
	pos     domain.Cell
	heading domain.Direction
	runs    int
	visited map[domain.Cell]struct{}
}

// NewRobot places a robot on the grid's start cell.
func NewRobot(g *Grid, heading domain.Direction) *Robot {
	r := &Robot{grid: g, heading: heading}
	r.restart(heading)
	return r
}

func (r *Robot) restart(heading domain.Direction) {
	r.pos = r.grid.Start
	r.heading = heading
	r.visited = map[domain.Cell]struct{}{r.pos: {}}
}

// Look senses one direction relative to the current heading.
func (r *Robot) Look(dir domain.Relative) domain.ExitKind {
	abs := dir.ToAbsolute(r.heading)
	if !r.grid.Open(r.pos, abs) {
		return domain.Wall
	}
	if _, ok := r.visited[r.pos.Step(abs)]; ok {
		return domain.BeenBefore
	}
	return domain.Passage
}

func (r *Robot) Face(dir domain.Relative) {
	r.heading = dir.ToAbsolute(r.heading)
}

func (r *Robot) SetHeading(dir domain.Direction) {
	r.heading = dir
}

func (r *Robot) Location() domain.Cell {
	return r.pos
}

func (r *Robot) Heading() domain.Direction {
	return r.heading
}

func (r *Robot) Runs() int {
	return r.runs
}

// Visited reports the number of distinct cells stood on in this attempt.
func (r *Robot) Visited() int {
	return len(r.visited)
}

// advance moves one cell along the heading. It reports false when the robot
// bumps into a wall and stays put.
func (r *Robot) advance() bool {
	if !r.grid.Open(r.pos, r.heading) {
		return false
	}
	r.pos = r.pos.Step(r.heading)
	r.visited[r.pos] = struct{}{}
	return true
}
