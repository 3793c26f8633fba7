// Package route implements the replay table: the heading of the last departure
// from every cell visited during the first attempt at a maze.
package route

import (
	"time"

	"github.com/aretw0/tremaux/pkg/domain"
)

// Table maps cells to departure headings. Later departures overwrite earlier ones,
// which flattens the loops walked while exploring.
type Table struct {
	steps map[domain.Cell]domain.Direction
}

// New creates an empty table.
func New() *Table {
	return &Table{steps: make(map[domain.Cell]domain.Direction)}
}

// FromRoute seeds a table from a stored route.
func FromRoute(r *domain.Route) *Table {
	t := New()
	if r == nil {
		return t
	}
	for c, d := range r.Steps {
		t.steps[c] = d
	}
	return t
}

// Record stores the heading taken when leaving cell.
func (t *Table) Record(cell domain.Cell, heading domain.Direction) {
	t.steps[cell] = heading
}

// Lookup returns the recorded departure heading for cell.
func (t *Table) Lookup(cell domain.Cell) (domain.Direction, bool) {
	d, ok := t.steps[cell]
	return d, ok
}

// Len returns the number of cells with a recorded departure.
func (t *Table) Len() int {
	return len(t.steps)
}

// Snapshot copies the table into a Route.
func (t *Table) Snapshot(mazeID string) *domain.Route {
	r := domain.NewRoute(mazeID)
	for c, d := range t.steps {
		r.Steps[c] = d
	}
	r.UpdatedAt = time.Now().UTC()
	return r
}
