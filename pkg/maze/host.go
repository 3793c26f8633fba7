package maze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tremaux/internal/logging"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
)

// DefaultMaxMoves aborts an attempt that has not reached the goal.
const DefaultMaxMoves = 100000

// ErrMoveLimit is returned when an attempt exceeds its move budget.
var ErrMoveLimit = errors.New("move limit reached")

// Controller is the agent a Host drives. *tremaux.Controller satisfies it.
type Controller interface {
	ControlRobot(ctx context.Context, robot ports.Robot) (domain.Decision, error)
	Reset()
}

// Attempt summarises one run through the maze.
type Attempt struct {
	Run        int           `json:"run"`
	Moves      int           `json:"moves"`
	Collisions int           `json:"collisions"`
	Distinct   int           `json:"distinct"`
	Reached    bool          `json:"reached"`
	Trail      []domain.Cell `json:"trail"`
}

// Host runs a controller through a Grid the way a maze-execution host does:
// one controller call per tick, then one step along the chosen heading.
type Host struct {
	grid     *Grid
	robot    *Robot
	heading  domain.Direction
	maxMoves int
	logger   *slog.Logger
}

// HostOption configures the Host.
type HostOption func(*Host)

// WithStartHeading sets the heading the robot faces at the start of every attempt (default East).
func WithStartHeading(d domain.Direction) HostOption {
	return func(h *Host) {
		h.heading = d
	}
}

// WithMaxMoves sets the per-attempt move budget.
func WithMaxMoves(n int) HostOption {
	return func(h *Host) {
		h.maxMoves = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// NewHost creates a host with the robot on the start cell.
func NewHost(g *Grid, opts ...HostOption) *Host {
	h := &Host{
		grid:     g,
		heading:  domain.East,
		maxMoves: DefaultMaxMoves,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.maxMoves <= 0 {
		h.maxMoves = DefaultMaxMoves
	}
	h.robot = NewRobot(g, h.heading)
	return h
}

// Grid returns the maze being run.
func (h *Host) Grid() *Grid {
	return h.grid
}

// Robot returns the simulated robot.
func (h *Host) Robot() *Robot {
	return h.robot
}

// Run drives the current attempt until the goal is reached, the move budget
// runs out, the controller fails, or ctx is done.
func (h *Host) Run(ctx context.Context, ctrl Controller) (Attempt, error) {
	r := h.robot
	a := Attempt{Run: r.runs, Trail: []domain.Cell{r.pos}}

	for {
		if r.pos == h.grid.Goal {
			a.Reached = true
			a.Distinct = r.Visited()
			h.logger.Info("goal reached", "run", a.Run, "moves", a.Moves, "distinct", a.Distinct)
			return a, nil
		}
		if a.Moves >= h.maxMoves {
			a.Distinct = r.Visited()
			return a, fmt.Errorf("run %d after %d moves: %w", a.Run, a.Moves, ErrMoveLimit)
		}
		if err := ctx.Err(); err != nil {
			a.Distinct = r.Visited()
			return a, err
		}

		if _, err := ctrl.ControlRobot(ctx, r); err != nil {
			a.Distinct = r.Visited()
			h.logger.Warn("agent stalled", "run", a.Run, "cell", r.pos, "error", err)
			return a, fmt.Errorf("run %d move %d: %w", a.Run, a.Moves+1, err)
		}

		a.Moves++
		if !r.advance() {
			a.Collisions++
			h.logger.Debug("collision", "cell", r.pos, "heading", r.heading)
			continue
		}
		a.Trail = append(a.Trail, r.pos)
	}
}

// NextAttempt puts the robot back on the start cell, forgets visited cells,
// counts the finished run and tells the controller a new attempt begins.
func (h *Host) NextAttempt(ctrl Controller) {
	h.robot.runs++
	h.robot.restart(h.heading)
	ctrl.Reset()
}
