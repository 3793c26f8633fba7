package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aretw0/tremaux/internal/ledger"
	"github.com/aretw0/tremaux/internal/logging"
	"github.com/aretw0/tremaux/internal/route"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
)

// Session is the mutable state of one controller: the current mode, the junction
// ledger of the running attempt and the replay table shared by all attempts.
type Session struct {
	Mode   domain.Mode
	Ledger *ledger.Ledger
	Table  *route.Table
}

// NewSession creates a session in Explore mode.
func NewSession(l *ledger.Ledger, t *route.Table) *Session {
	if l == nil {
		l = ledger.New()
	}
	if t == nil {
		t = route.New()
	}
	return &Session{Mode: domain.ModeExplore, Ledger: l, Table: t}
}

// Engine is the Tremaux decision engine. It is stateless: everything that
// survives between ticks lives in the Session.
type Engine struct {
	random ports.Random
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	mazeID string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithRandom sets the source of junction choices.
func WithRandom(r ports.Random) EngineOption {
	return func(e *Engine) {
		e.random = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMazeID labels emitted events.
func WithMazeID(id string) EngineOption {
	return func(e *Engine) {
		e.mazeID = id
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.random == nil {
		e.random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// Step makes one decision for the robot in the session's current mode and
// issues the command. On error no command is issued.
func (e *Engine) Step(ctx context.Context, s *Session, robot ports.Robot) (domain.Decision, error) {
	var (
		d    domain.Decision
		next domain.Mode
		err  error
	)

	switch s.Mode {
	case domain.ModeExplore:
		d, next, err = e.explore(ctx, s, robot)
	case domain.ModeBacktrack:
		d, next, err = e.backtrack(s, robot)
	case domain.ModeReplay:
		d, next, err = e.replay(s, robot)
	default:
		return domain.Decision{}, fmt.Errorf("unknown mode %q", s.Mode)
	}
	if err != nil {
		return domain.Decision{}, err
	}

	e.emitDecision(ctx, d)
	e.SetMode(ctx, s, d.Cell, next)
	return d, nil
}

// SetMode switches the session mode and emits a mode change when it differs.
func (e *Engine) SetMode(ctx context.Context, s *Session, cell domain.Cell, next domain.Mode) {
	if s.Mode == next {
		return
	}
	prev := s.Mode
	s.Mode = next

	e.logger.Debug("mode changed", "from", prev, "to", next, "x", cell.X, "y", cell.Y)
	if e.hooks.OnModeChange != nil {
		e.hooks.OnModeChange(ctx, &domain.ModeEvent{
			EventBase: e.base(domain.EventModeChange),
			Cell:      cell,
			From:      prev,
			To:        next,
		})
	}
}

func (e *Engine) explore(ctx context.Context, s *Session, robot ports.Robot) (domain.Decision, domain.Mode, error) {
	cell := robot.Location()
	heading := robot.Heading()
	next := domain.ModeExplore

	var (
		dir domain.Relative
		err error
	)

	switch n := CountNonWall(robot); {
	case n == 0:
		return domain.Decision{}, next, fmt.Errorf("explore at %s: %w", cell, domain.ErrSensorAmbiguity)
	case n == 1:
		dir, err = DeadEnd(robot)
		next = domain.ModeBacktrack
	case n == 2:
		dir, err = Corridor(robot)
	default:
		// Exactly one visited neighbour means we just walked in for the first time.
		if CountBeenBefore(robot) == 1 {
			if err := e.recordJunction(ctx, s, cell, heading); err != nil {
				return domain.Decision{}, next, err
			}
			dir, err = Crossroad(robot, e.random)
		} else {
			dir = domain.Behind
			next = domain.ModeBacktrack
		}
	}
	if err != nil {
		return domain.Decision{}, next, fmt.Errorf("explore: %w", err)
	}

	return e.face(s, robot, cell, heading, dir, domain.ModeExplore), next, nil
}

func (e *Engine) backtrack(s *Session, robot ports.Robot) (domain.Decision, domain.Mode, error) {
	cell := robot.Location()
	heading := robot.Heading()
	next := domain.ModeBacktrack

	var (
		dir domain.Relative
		err error
	)

	switch n := CountNonWall(robot); {
	case n == 0:
		return domain.Decision{}, next, fmt.Errorf("backtrack at %s: %w", cell, domain.ErrSensorAmbiguity)
	case n == 1:
		dir, err = DeadEnd(robot)
	case n == 2:
		dir, err = Corridor(robot)
	default:
		if CountPassages(robot) > 0 {
			dir, err = Crossroad(robot, e.random)
			next = domain.ModeExplore
			break
		}

		arrived, ok := s.Ledger.Lookup(cell)
		if !ok {
			return domain.Decision{}, next, fmt.Errorf("backtrack at %s: %w", cell, domain.ErrLedgerLookupMiss)
		}
		return e.setHeading(s, robot, cell, arrived.Reverse(), domain.ModeBacktrack, true), next, nil
	}
	if err != nil {
		return domain.Decision{}, next, fmt.Errorf("backtrack: %w", err)
	}

	return e.face(s, robot, cell, heading, dir, domain.ModeBacktrack), next, nil
}

func (e *Engine) replay(s *Session, robot ports.Robot) (domain.Decision, domain.Mode, error) {
	cell := robot.Location()
	heading, ok := s.Table.Lookup(cell)
	if !ok {
		return domain.Decision{}, domain.ModeReplay, fmt.Errorf("replay at %s: %w", cell, domain.ErrReplayTableMiss)
	}
	return e.setHeading(s, robot, cell, heading, domain.ModeReplay, false), domain.ModeReplay, nil
}

// face issues a relative turn and records the resulting heading.
func (e *Engine) face(s *Session, robot ports.Robot, cell domain.Cell, heading domain.Direction, dir domain.Relative, mode domain.Mode) domain.Decision {
	robot.Face(dir)
	result := dir.ToAbsolute(heading)
	s.Table.Record(cell, result)
	return domain.Decision{Cell: cell, Mode: mode, Face: dir, Result: result}
}

// setHeading issues an absolute heading followed by Face(Ahead).
// The replay table is written only while recording.
func (e *Engine) setHeading(s *Session, robot ports.Robot, cell domain.Cell, heading domain.Direction, mode domain.Mode, record bool) domain.Decision {
	robot.SetHeading(heading)
	robot.Face(domain.Ahead)
	if record {
		s.Table.Record(cell, heading)
	}
	h := heading
	return domain.Decision{Cell: cell, Mode: mode, Face: domain.Ahead, Heading: &h, Result: heading}
}

func (e *Engine) recordJunction(ctx context.Context, s *Session, cell domain.Cell, arrived domain.Direction) error {
	added, err := s.Ledger.Record(cell, arrived)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	index := s.Ledger.Len()
	e.logger.Debug("junction recorded", "index", index, "x", cell.X, "y", cell.Y, "heading", arrived)
	if e.hooks.OnJunctionRecorded != nil {
		e.hooks.OnJunctionRecorded(ctx, &domain.JunctionEvent{
			EventBase: e.base(domain.EventJunctionRecorded),
			Index:     index,
			Junction:  domain.Junction{Cell: cell, Arrived: arrived},
		})
	}
	return nil
}

func (e *Engine) emitDecision(ctx context.Context, d domain.Decision) {
	if e.hooks.OnDecision != nil {
		e.hooks.OnDecision(ctx, &domain.DecisionEvent{
			EventBase: e.base(domain.EventDecision),
			Decision:  d,
		})
	}
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, MazeID: e.mazeID}
}
