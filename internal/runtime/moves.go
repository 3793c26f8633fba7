package runtime

import (
	"fmt"

	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
)

// corridorPriority is the order a corridor is followed in. Behind is never taken.
var corridorPriority = [3]domain.Relative{domain.Left, domain.Ahead, domain.Right}

// randomPool is the sampling pool for RandomMove.
var randomPool = [4]domain.Relative{domain.Ahead, domain.Behind, domain.Left, domain.Right}

// DeadEnd returns the only open exit, probing Ahead, Right, Behind, Left.
func DeadEnd(robot ports.Robot) (domain.Relative, error) {
	for _, rel := range domain.Relatives {
		if robot.Look(rel) != domain.Wall {
			return rel, nil
		}
	}
	return domain.Ahead, fmt.Errorf("dead end at %s has no exit: %w", robot.Location(), domain.ErrSensorAmbiguity)
}

// Corridor returns the forward continuation of a two-exit cell.
func Corridor(robot ports.Robot) (domain.Relative, error) {
	for _, rel := range corridorPriority {
		if robot.Look(rel) != domain.Wall {
			return rel, nil
		}
	}
	return domain.Ahead, fmt.Errorf("corridor at %s has no forward exit: %w", robot.Location(), domain.ErrSensorAmbiguity)
}

// Crossroad picks uniformly among unvisited exits, falling back to RandomMove
// when every open exit has been visited.
func Crossroad(robot ports.Robot, rnd ports.Random) (domain.Relative, error) {
	choices := make([]domain.Relative, 0, 4)
	for _, rel := range domain.Relatives {
		if robot.Look(rel) == domain.Passage {
			choices = append(choices, rel)
		}
	}
	if len(choices) == 0 {
		return RandomMove(robot, rnd)
	}
	return choices[rnd.Intn(len(choices))], nil
}

// RandomMove samples Ahead, Behind, Left, Right uniformly until it draws an open exit.
func RandomMove(robot ports.Robot, rnd ports.Random) (domain.Relative, error) {
	if CountNonWall(robot) == 0 {
		return domain.Ahead, fmt.Errorf("enclosed at %s: %w", robot.Location(), domain.ErrSensorAmbiguity)
	}
	for {
		rel := randomPool[rnd.Intn(len(randomPool))]
		if robot.Look(rel) != domain.Wall {
			return rel, nil
		}
	}
}
