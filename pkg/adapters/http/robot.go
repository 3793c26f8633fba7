package http

import (
	"github.com/aretw0/tremaux/pkg/domain"
)

// remoteRobot replays a sensor reading sent by a remote host and collects the
// commands the controller issues, so they can be sent back.
type remoteRobot struct {
	location domain.Cell
	heading  domain.Direction
	runs     int
	exits    map[domain.Direction]domain.ExitKind
	commands []Command
}

func newRemoteRobot(req DecideRequest) *remoteRobot {
	r := &remoteRobot{
		location: req.Location,
		heading:  req.Heading,
		runs:     req.Runs,
		exits:    make(map[domain.Direction]domain.ExitKind, 4),
	}
	for rel, kind := range map[domain.Relative]domain.ExitKind{
		domain.Ahead:  req.Exits.Ahead,
		domain.Right:  req.Exits.Right,
		domain.Behind: req.Exits.Behind,
		domain.Left:   req.Exits.Left,
	} {
		r.exits[rel.ToAbsolute(req.Heading)] = kind
	}
	return r
}

func (r *remoteRobot) Look(dir domain.Relative) domain.ExitKind {
	return r.exits[dir.ToAbsolute(r.heading)]
}

func (r *remoteRobot) Face(dir domain.Relative) {
	r.commands = append(r.commands, Command{Face: &dir})
	r.heading = dir.ToAbsolute(r.heading)
}

func (r *remoteRobot) SetHeading(dir domain.Direction) {
	r.commands = append(r.commands, Command{Heading: &dir})
	r.heading = dir
}

func (r *remoteRobot) Location() domain.Cell {
	return r.location
}

func (r *remoteRobot) Heading() domain.Direction {
	return r.heading
}

func (r *remoteRobot) Runs() int {
	return r.runs
}
