// Package testutils holds test doubles shared by the engine and controller tests.
package testutils

import (
	"github.com/aretw0/tremaux/pkg/domain"
)

// StubRobot is a ports.Robot with fixed surroundings. Exits are stored by
// absolute heading so Look stays consistent after the robot turns.
type StubRobot struct {
	Cell    domain.Cell
	Facing  domain.Direction
	RunsN   int
	Exits   map[domain.Direction]domain.ExitKind
	Faced   []domain.Relative
	Headed  []domain.Direction
	Lookups int
}

// NewStubRobot builds a robot at cell facing heading, with exits given relative
// to that heading in probe order Ahead, Right, Behind, Left.
func NewStubRobot(cell domain.Cell, heading domain.Direction, ahead, right, behind, left domain.ExitKind) *StubRobot {
	r := &StubRobot{
		Cell:   cell,
		Facing: heading,
		Exits:  make(map[domain.Direction]domain.ExitKind, 4),
	}
	for i, k := range []domain.ExitKind{ahead, right, behind, left} {
		r.Exits[domain.Relative(i).ToAbsolute(heading)] = k
	}
	return r
}

func (r *StubRobot) Look(dir domain.Relative) domain.ExitKind {
	r.Lookups++
	return r.Exits[dir.ToAbsolute(r.Facing)]
}

func (r *StubRobot) Face(dir domain.Relative) {
	r.Faced = append(r.Faced, dir)
	r.Facing = dir.ToAbsolute(r.Facing)
}

func (r *StubRobot) SetHeading(dir domain.Direction) {
	r.Headed = append(r.Headed, dir)
	r.Facing = dir
}

func (r *StubRobot) Location() domain.Cell { return r.Cell }

func (r *StubRobot) Heading() domain.Direction { return r.Facing }

func (r *StubRobot) Runs() int { return r.RunsN }

// ScriptedRandom replays a fixed sequence of values (each taken modulo n),
// then keeps returning 0.
type ScriptedRandom struct {
	Values []int
	Calls  []int
}

func (s *ScriptedRandom) Intn(n int) int {
	s.Calls = append(s.Calls, n)
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[0]
	s.Values = s.Values[1:]
	return v % n
}
