package http

import (
	"time"

	"github.com/aretw0/tremaux/pkg/domain"
)

// CreateSessionRequest opens a controller for a maze.
type CreateSessionRequest struct {
	MazeID string `json:"maze_id"`
}

// SessionResponse describes a live controller.
type SessionResponse struct {
	ID         string      `json:"id"`
	MazeID     string      `json:"maze_id"`
	Mode       domain.Mode `json:"mode"`
	RouteSteps int         `json:"route_steps"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Exits is the host's sensor reading, relative to the robot's heading.
type Exits struct {
	Ahead  domain.ExitKind `json:"ahead"`
	Right  domain.ExitKind `json:"right"`
	Behind domain.ExitKind `json:"behind"`
	Left   domain.ExitKind `json:"left"`
}

// DecideRequest carries everything the controller may ask the robot during one tick.
type DecideRequest struct {
	Location domain.Cell      `json:"location"`
	Heading  domain.Direction `json:"heading"`
	Runs     int              `json:"runs"`
	Exits    Exits            `json:"exits"`
}

// Command is one instruction for the robot. Exactly one field is set.
type Command struct {
	Face    *domain.Relative  `json:"face,omitempty"`
	Heading *domain.Direction `json:"heading,omitempty"`
}

// DecideResponse lists the commands to apply in order and the heading they leave the robot in.
type DecideResponse struct {
	Mode     domain.Mode      `json:"mode"`
	Commands []Command        `json:"commands"`
	Heading  domain.Direction `json:"heading"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
