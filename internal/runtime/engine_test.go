package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tremaux/internal/ledger"
	"github.com/aretw0/tremaux/internal/route"
	"github.com/aretw0/tremaux/internal/runtime"
	"github.com/aretw0/tremaux/internal/testutils"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(mode domain.Mode) *runtime.Session {
	s := runtime.NewSession(ledger.New(), route.New())
	s.Mode = mode
	return s
}

func TestEngine_Explore_DeadEndSwitchesToBacktrack(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithRandom(&testutils.ScriptedRandom{}))
	s := newSession(domain.ModeExplore)
	robot := testutils.NewStubRobot(origin, domain.North, W, W, B, W)

	d, err := engine.Step(context.Background(), s, robot)
	require.NoError(t, err)

	assert.Equal(t, domain.Behind, d.Face)
	assert.Equal(t, domain.South, d.Result)
	assert.Equal(t, domain.ModeBacktrack, s.Mode)
	assert.Equal(t, []domain.Relative{domain.Behind}, robot.Faced)

	recorded, ok := s.Table.Lookup(origin)
	require.True(t, ok)
	assert.Equal(t, domain.South, recorded)
}

func TestEngine_Explore_CorridorStaysExploring(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeExplore)
	robot := testutils.NewStubRobot(origin, domain.East, W, P, B, W)

	d, err := engine.Step(context.Background(), s, robot)
	require.NoError(t, err)

	assert.Equal(t, domain.Right, d.Face)
	assert.Equal(t, domain.South, d.Result)
	assert.Equal(t, domain.ModeExplore, s.Mode)
	assert.Equal(t, 0, s.Ledger.Len())
}

func TestEngine_Explore_FirstArrivalRecordsJunction(t *testing.T) {
	var events []*domain.JunctionEvent
	hooks := domain.LifecycleHooks{
		OnJunctionRecorded: func(ctx context.Context, e *domain.JunctionEvent) {
			events = append(events, e)
		},
	}
	engine := runtime.NewEngine(
		runtime.WithRandom(&testutils.ScriptedRandom{Values: []int{1}}),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithMazeID("m1"),
	)
	s := newSession(domain.ModeExplore)
	cell := domain.Cell{X: 3, Y: 4}
	robot := testutils.NewStubRobot(cell, domain.East, P, P, B, W)

	d, err := engine.Step(context.Background(), s, robot)
	require.NoError(t, err)

	assert.Equal(t, domain.Right, d.Face)
	assert.Equal(t, domain.South, d.Result)
	assert.Equal(t, domain.ModeExplore, s.Mode)

	arrived, ok := s.Ledger.Lookup(cell)
	require.True(t, ok)
	assert.Equal(t, domain.East, arrived)

	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, "m1", events[0].MazeID)
	assert.Equal(t, domain.Junction{Cell: cell, Arrived: domain.East}, events[0].Junction)
}

func TestEngine_Explore_RevisitedJunctionTurnsBack(t *testing.T) {
	tests := []struct {
		name                       string
		ahead, right, behind, left domain.ExitKind
	}{
		{"two visited exits", P, B, B, W},
		{"all visited", B, B, B, B},
		{"no visited exit", P, P, P, W},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := runtime.NewEngine()
			s := newSession(domain.ModeExplore)
			robot := testutils.NewStubRobot(origin, domain.West, tt.ahead, tt.right, tt.behind, tt.left)

			d, err := engine.Step(context.Background(), s, robot)
			require.NoError(t, err)

			assert.Equal(t, domain.Behind, d.Face)
			assert.Equal(t, domain.East, d.Result)
			assert.Equal(t, domain.ModeBacktrack, s.Mode)
			assert.Equal(t, 0, s.Ledger.Len(), "revisits are not recorded")
		})
	}
}

func TestEngine_Backtrack_CorridorAndDeadEnd(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeBacktrack)

	corridor := testutils.NewStubRobot(origin, domain.North, B, W, B, W)
	d, err := engine.Step(context.Background(), s, corridor)
	require.NoError(t, err)
	assert.Equal(t, domain.Ahead, d.Face)
	assert.Equal(t, domain.ModeBacktrack, s.Mode)

	deadEnd := testutils.NewStubRobot(origin, domain.North, W, W, B, W)
	d, err = engine.Step(context.Background(), s, deadEnd)
	require.NoError(t, err)
	assert.Equal(t, domain.Behind, d.Face)
	assert.Equal(t, domain.ModeBacktrack, s.Mode)
}

func TestEngine_Backtrack_UnexploredJunctionResumesExploring(t *testing.T) {
	var modes []domain.ModeEvent
	engine := runtime.NewEngine(
		runtime.WithRandom(&testutils.ScriptedRandom{Values: []int{0}}),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
				modes = append(modes, *e)
			},
		}),
	)
	s := newSession(domain.ModeBacktrack)
	robot := testutils.NewStubRobot(origin, domain.South, B, P, B, W)

	d, err := engine.Step(context.Background(), s, robot)
	require.NoError(t, err)

	assert.Equal(t, domain.Right, d.Face)
	assert.Equal(t, domain.West, d.Result)
	assert.Equal(t, domain.ModeExplore, s.Mode)
	require.Len(t, modes, 1)
	assert.Equal(t, domain.ModeBacktrack, modes[0].From)
	assert.Equal(t, domain.ModeExplore, modes[0].To)
}

func TestEngine_Backtrack_Scenario_ReverseOfArrival(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeBacktrack)
	cell := domain.Cell{X: 3, Y: 4}
	_, err := s.Ledger.Record(cell, domain.North)
	require.NoError(t, err)

	// Fully explored junction: no Passage exits left.
	robot := testutils.NewStubRobot(cell, domain.East, B, B, B, W)

	d, err := engine.Step(context.Background(), s, robot)
	require.NoError(t, err)

	require.NotNil(t, d.Heading)
	assert.Equal(t, domain.South, *d.Heading)
	assert.Equal(t, domain.South, d.Result)
	assert.Equal(t, []domain.Direction{domain.South}, robot.Headed)
	assert.Equal(t, []domain.Relative{domain.Ahead}, robot.Faced)
	assert.Equal(t, domain.South, robot.Heading())
	assert.Equal(t, domain.ModeBacktrack, s.Mode)

	recorded, _ := s.Table.Lookup(cell)
	assert.Equal(t, domain.South, recorded)
}

func TestEngine_Backtrack_ReverseMatchesModularArithmetic(t *testing.T) {
	for _, arrived := range domain.Directions {
		engine := runtime.NewEngine()
		s := newSession(domain.ModeBacktrack)
		_, _ = s.Ledger.Record(origin, arrived)
		robot := testutils.NewStubRobot(origin, domain.North, B, B, B, B)

		d, err := engine.Step(context.Background(), s, robot)
		require.NoError(t, err)
		assert.Equal(t, domain.Direction((int(arrived)+2)%4), d.Result)
	}
}

func TestEngine_Backtrack_LookupMiss(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeBacktrack)
	robot := testutils.NewStubRobot(origin, domain.North, B, B, B, W)

	_, err := engine.Step(context.Background(), s, robot)
	assert.ErrorIs(t, err, domain.ErrLedgerLookupMiss)
	assert.Empty(t, robot.Faced, "no command is issued on error")
	assert.Empty(t, robot.Headed)
	assert.Equal(t, 0, s.Table.Len())
}

func TestEngine_Replay_Scenario_AbsoluteHeading(t *testing.T) {
	cell := domain.Cell{X: 5, Y: 5}
	for _, facing := range domain.Directions {
		t.Run(facing.String(), func(t *testing.T) {
			engine := runtime.NewEngine()
			s := newSession(domain.ModeReplay)
			s.Table.Record(cell, domain.East)
			robot := testutils.NewStubRobot(cell, facing, P, P, P, P)

			d, err := engine.Step(context.Background(), s, robot)
			require.NoError(t, err)

			assert.Equal(t, []domain.Direction{domain.East}, robot.Headed)
			assert.Equal(t, []domain.Relative{domain.Ahead}, robot.Faced)
			assert.Equal(t, domain.East, robot.Heading())
			assert.Equal(t, domain.East, d.Result)
			assert.Equal(t, domain.ModeReplay, s.Mode)
			assert.Equal(t, 0, robot.Lookups, "replay does not sense")
		})
	}
}

func TestEngine_Replay_DoesNotWriteTable(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeReplay)
	s.Table.Record(origin, domain.West)

	_, err := engine.Step(context.Background(), s, testutils.NewStubRobot(origin, domain.North, P, P, P, P))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Table.Len())
	d, _ := s.Table.Lookup(origin)
	assert.Equal(t, domain.West, d)
}

func TestEngine_Replay_Miss(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeReplay)
	robot := testutils.NewStubRobot(origin, domain.North, P, P, P, P)

	_, err := engine.Step(context.Background(), s, robot)
	assert.ErrorIs(t, err, domain.ErrReplayTableMiss)
	assert.Empty(t, robot.Faced)
}

func TestEngine_SensorAmbiguity(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeExplore, domain.ModeBacktrack} {
		t.Run(string(mode), func(t *testing.T) {
			engine := runtime.NewEngine()
			s := newSession(mode)
			robot := testutils.NewStubRobot(origin, domain.North, W, W, W, W)

			_, err := engine.Step(context.Background(), s, robot)
			assert.ErrorIs(t, err, domain.ErrSensorAmbiguity)
			assert.Empty(t, robot.Faced)
			assert.Equal(t, mode, s.Mode)
		})
	}
}

func TestEngine_CapacityExceededStopsBeforeMoving(t *testing.T) {
	engine := runtime.NewEngine()
	s := runtime.NewSession(ledger.New(ledger.WithCapacity(1)), route.New())
	_, err := s.Ledger.Record(domain.Cell{X: 9, Y: 9}, domain.North)
	require.NoError(t, err)

	robot := testutils.NewStubRobot(origin, domain.North, P, P, B, P)
	_, err = engine.Step(context.Background(), s, robot)

	assert.ErrorIs(t, err, domain.ErrLedgerCapacityExceeded)
	assert.Empty(t, robot.Faced)
}

func TestEngine_TableKeepsLatestVisit(t *testing.T) {
	engine := runtime.NewEngine()
	s := newSession(domain.ModeExplore)

	// Pass through the same corridor cell three times from different sides.
	visits := []struct {
		facing domain.Direction
		want   domain.Direction
	}{
		{domain.North, domain.West},
		{domain.South, domain.East},
		{domain.East, domain.North},
	}
	for _, v := range visits {
		robot := testutils.NewStubRobot(origin, v.facing, W, W, B, P)
		_, err := engine.Step(context.Background(), s, robot)
		require.NoError(t, err)

		got, _ := s.Table.Lookup(origin)
		assert.Equal(t, v.want, got)
	}
	assert.Equal(t, 1, s.Table.Len())
}

func TestEngine_DecisionHook(t *testing.T) {
	var decisions []domain.Decision
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			decisions = append(decisions, e.Decision)
		},
	}))
	s := newSession(domain.ModeExplore)

	_, err := engine.Step(context.Background(), s, testutils.NewStubRobot(origin, domain.North, P, W, B, W))
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.Equal(t, domain.ModeExplore, decisions[0].Mode)
	assert.Equal(t, origin, decisions[0].Cell)
}
