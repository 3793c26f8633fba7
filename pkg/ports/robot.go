package ports

import "github.com/aretw0/tremaux/pkg/domain"

// Robot is the host interface the controller consumes.
// Every call is synchronous; the host executes the move after the controller returns.
type Robot interface {
	// Look senses one direction relative to the current heading. It has no side effects.
	Look(dir domain.Relative) domain.ExitKind

	// Face turns the robot to a relative direction.
	Face(dir domain.Relative)

	// SetHeading turns the robot to an absolute heading.
	SetHeading(dir domain.Direction)

	// Location returns the current cell.
	Location() domain.Cell

	// Heading returns the current absolute heading.
	Heading() domain.Direction

	// Runs returns the number of completed attempts at this maze (0 during the first).
	Runs() int
}
