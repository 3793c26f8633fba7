package domain

// Mode is the decision mode of the controller.
type Mode string

const (
	ModeExplore   Mode = "explore"   // Choosing unvisited passages
	ModeBacktrack Mode = "backtrack" // Retreating from dead ends and closed loops
	ModeReplay    Mode = "replay"    // Following the route recorded on the first attempt
)

// Junction is a cell with three or more exits, remembered with the heading
// the robot had when it first arrived.
type Junction struct {
	Cell    Cell      `json:"cell"`
	Arrived Direction `json:"arrived"`
}

// Decision describes the single command issued for one tick.
type Decision struct {
	Cell Cell `json:"cell"`
	Mode Mode `json:"mode"`

	// Face is the relative turn issued to the host.
	Face Relative `json:"face"`

	// Heading is set when an absolute heading was commanded before facing Ahead
	// (fully explored junctions during backtrack, and every replay step).
	Heading *Direction `json:"heading,omitempty"`

	// Result is the absolute heading the robot faces once the command is applied.
	Result Direction `json:"result"`
}
