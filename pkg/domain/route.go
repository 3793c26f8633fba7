package domain

import "time"

// Route is a snapshot of the replay table for one maze: the heading taken
// on the last departure from every cell visited during the first attempt.
type Route struct {
	MazeID    string             `json:"maze_id"`
	Steps     map[Cell]Direction `json:"steps"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewRoute creates an empty route for a maze.
func NewRoute(mazeID string) *Route {
	return &Route{
		MazeID: mazeID,
		Steps:  make(map[Cell]Direction),
	}
}

// Clone returns a deep copy of the route.
func (r *Route) Clone() *Route {
	out := *r
	out.Steps = make(map[Cell]Direction, len(r.Steps))
	for c, d := range r.Steps {
		out.Steps[c] = d
	}
	return &out
}
