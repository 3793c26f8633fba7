package tremaux

import (
	"context"
	"log/slog"

	"github.com/aretw0/tremaux/internal/ledger"
	"github.com/aretw0/tremaux/internal/logging"
	"github.com/aretw0/tremaux/internal/route"
	"github.com/aretw0/tremaux/internal/runtime"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
)

// Controller is the high-level entry point for the Tremaux library.
// The host calls ControlRobot once per tick. A Controller belongs to one maze:
// its replay table carries over from the first attempt to the later ones.
//
// A Controller is not safe for concurrent use; hosts call it synchronously.
type Controller struct {
	engine  *runtime.Engine
	session *runtime.Session
	polls   int

	random   ports.Random
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	capacity int
	seed     *domain.Route
	MazeID   string
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRandom injects the source of junction choices.
func WithRandom(r ports.Random) Option {
	return func(c *Controller) {
		c.random = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLedgerCapacity bounds the junction ledger. Zero (the default) is unbounded.
func WithLedgerCapacity(n int) Option {
	return func(c *Controller) {
		c.capacity = n
	}
}

// WithRoute seeds the replay table from a route recorded earlier, so a fresh
// process can replay a maze explored by another one.
func WithRoute(r *domain.Route) Option {
	return func(c *Controller) {
		c.seed = r
	}
}

// WithMazeID labels the controller's route and events.
func WithMazeID(id string) Option {
	return func(c *Controller) {
		c.MazeID = id
	}
}

// New creates a Controller in Explore mode.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.MazeID == "" && c.seed != nil {
		c.MazeID = c.seed.MazeID
	}
	if c.MazeID != "" {
		c.logger = c.logger.With("maze", c.MazeID)
	}

	engineOpts := []runtime.EngineOption{
		runtime.WithLogger(c.logger),
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithMazeID(c.MazeID),
	}
	if c.random != nil {
		engineOpts = append(engineOpts, runtime.WithRandom(c.random))
	}
	c.engine = runtime.NewEngine(engineOpts...)

	var l *ledger.Ledger
	if c.capacity > 0 {
		l = ledger.New(ledger.WithCapacity(c.capacity))
	}
	c.session = runtime.NewSession(l, route.FromRoute(c.seed))
	return c
}

// ControlRobot makes one decision and issues it to the robot.
//
// The first two polls of the first attempt start a fresh attempt (empty ledger,
// Explore); the second poll covers a robot that starts facing into a dead end
// and immediately turned to backtrack. Once the host reports a completed
// attempt, every move replays the recorded route.
//
// Errors wrap one of the domain sentinels; no command is issued when an error is returned.
func (c *Controller) ControlRobot(ctx context.Context, robot ports.Robot) (domain.Decision, error) {
	runs := robot.Runs()
	if runs == 0 && c.polls < 2 {
		c.session.Ledger.Reset()
		c.engine.SetMode(ctx, c.session, robot.Location(), domain.ModeExplore)
	}
	c.polls++

	if runs > 0 {
		c.engine.SetMode(ctx, c.session, robot.Location(), domain.ModeReplay)
	}

	d, err := c.engine.Step(ctx, c.session, robot)
	if err != nil {
		c.logger.Debug("decision failed", "mode", c.session.Mode, "cell", robot.Location(), "error", err)
		return domain.Decision{}, err
	}
	return d, nil
}

// Reset marks an attempt boundary: the junction ledger is emptied and the
// controller returns to Explore. The replay table is kept.
func (c *Controller) Reset() {
	c.session.Ledger.Reset()
	c.session.Mode = domain.ModeExplore
}

// Mode returns the current decision mode.
func (c *Controller) Mode() domain.Mode {
	return c.session.Mode
}

// Route returns a snapshot of the replay table.
func (c *Controller) Route() *domain.Route {
	return c.session.Table.Snapshot(c.MazeID)
}

// Junctions returns the junctions recorded in the running attempt, in order.
func (c *Controller) Junctions() []domain.Junction {
	return c.session.Ledger.Entries()
}
