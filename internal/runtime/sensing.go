package runtime

import (
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/ports"
)

// countExits probes Ahead, Right, Behind, Left and counts the directions matching keep.
func countExits(robot ports.Robot, keep func(domain.ExitKind) bool) int {
	n := 0
	for _, rel := range domain.Relatives {
		if keep(robot.Look(rel)) {
			n++
		}
	}
	return n
}

// CountNonWall returns the number of open exits around the robot.
func CountNonWall(robot ports.Robot) int {
	return countExits(robot, func(k domain.ExitKind) bool { return k != domain.Wall })
}

// CountPassages returns the number of exits leading to unvisited cells.
func CountPassages(robot ports.Robot) int {
	return countExits(robot, func(k domain.ExitKind) bool { return k == domain.Passage })
}

// CountBeenBefore returns the number of exits leading to cells visited in this attempt.
func CountBeenBefore(robot ports.Robot) int {
	return countExits(robot, func(k domain.ExitKind) bool { return k == domain.BeenBefore })
}
