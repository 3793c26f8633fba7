package domain

import "errors"

// ErrSensorAmbiguity is returned when the sensed exits do not form a legal cell
// (for example a cell with no open exit). The maze is malformed; the agent stalls.
var ErrSensorAmbiguity = errors.New("sensor ambiguity")

// ErrLedgerCapacityExceeded is returned when a bounded junction ledger is full.
var ErrLedgerCapacityExceeded = errors.New("junction ledger capacity exceeded")

// ErrLedgerLookupMiss is returned when backtracking reaches a junction that was never recorded.
var ErrLedgerLookupMiss = errors.New("junction not recorded")

// ErrReplayTableMiss is returned when replay reaches a cell with no recorded departure.
var ErrReplayTableMiss = errors.New("cell missing from replay table")

// ErrRouteNotFound is returned when a maze ID cannot be found in the route store.
var ErrRouteNotFound = errors.New("route not found")
