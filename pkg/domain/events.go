package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDecision         EventType = "decision"
	EventModeChange       EventType = "mode_change"
	EventJunctionRecorded EventType = "junction_recorded"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	MazeID    string    `json:"maze_id,omitempty"`
}

// DecisionEvent is emitted after every command issued to the host.
type DecisionEvent struct {
	EventBase
	Decision Decision `json:"decision"`
}

// ModeEvent is emitted when the controller switches mode.
type ModeEvent struct {
	EventBase
	Cell Cell `json:"cell"`
	From Mode `json:"from"`
	To   Mode `json:"to"`
}

// JunctionEvent is emitted when a junction is added to the ledger.
type JunctionEvent struct {
	EventBase
	Index    int      `json:"index"`
	Junction Junction `json:"junction"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnDecision         func(context.Context, *DecisionEvent)
	OnModeChange       func(context.Context, *ModeEvent)
	OnJunctionRecorded func(context.Context, *JunctionEvent)
}
