// Package ledger implements the junction ledger: the junctions first reached while
// exploring, each with the heading the robot had when it arrived.
package ledger

import (
	"fmt"

	"github.com/aretw0/tremaux/pkg/domain"
)

// Ledger stores junctions for one maze attempt.
// Not safe for concurrent use; the controller owns it.
type Ledger struct {
	capacity int
	index    map[domain.Cell]int
	entries  []domain.Junction
}

// Option configures the Ledger.
type Option func(*Ledger)

// WithCapacity bounds the number of distinct junctions. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		l.capacity = n
	}
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		index: make(map[domain.Cell]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record adds a junction. The first arrival heading recorded for a cell wins;
// recording the same cell again is a no-op and reports false.
func (l *Ledger) Record(cell domain.Cell, arrived domain.Direction) (bool, error) {
	if _, ok := l.index[cell]; ok {
		return false, nil
	}
	if l.capacity > 0 && len(l.entries) >= l.capacity {
		return false, fmt.Errorf("recording junction %s: %w (capacity %d)", cell, domain.ErrLedgerCapacityExceeded, l.capacity)
	}
	l.index[cell] = len(l.entries)
	l.entries = append(l.entries, domain.Junction{Cell: cell, Arrived: arrived})
	return true, nil
}

// Lookup returns the heading the robot had when it first arrived at cell.
func (l *Ledger) Lookup(cell domain.Cell) (domain.Direction, bool) {
	i, ok := l.index[cell]
	if !ok {
		return domain.North, false
	}
	return l.entries[i].Arrived, true
}

// Len returns the number of recorded junctions.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns the junctions in recording order.
func (l *Ledger) Entries() []domain.Junction {
	out := make([]domain.Junction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset empties the ledger for a new attempt. Capacity is kept.
func (l *Ledger) Reset() {
	l.index = make(map[domain.Cell]int)
	l.entries = l.entries[:0]
}
