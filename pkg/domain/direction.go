package domain

import (
	"fmt"
	"strings"
)

// Direction is an absolute compass heading.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the compass headings in clockwise order.
var Directions = [4]Direction{North, East, South, West}

// Valid reports whether d is one of the four compass headings.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Reverse returns the opposite heading.
func (d Direction) Reverse() Direction {
	return Direction((int(d) + 2) % 4)
}

// Rotate turns the heading by a relative offset (Right is a quarter turn clockwise).
func (d Direction) Rotate(r Relative) Direction {
	return Direction((int(d) + int(r)) % 4)
}

// RelativeTo returns the relative direction that points at d when facing the given heading.
func (d Direction) RelativeTo(facing Direction) Relative {
	return Relative((int(d) - int(facing) + 4) % 4)
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText encodes the heading by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a heading name (case-insensitive).
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection parses a compass heading name such as "north" or "N".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORTH", "N":
		return North, nil
	case "EAST", "E":
		return East, nil
	case "SOUTH", "S":
		return South, nil
	case "WEST", "W":
		return West, nil
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// Relative is a heading relative to the robot's current facing.
type Relative int

const (
	Ahead Relative = iota
	Right
	Behind
	Left
)

// Relatives is the fixed probe order used when counting exits.
var Relatives = [4]Relative{Ahead, Right, Behind, Left}

// Valid reports whether r is one of the four relative directions.
func (r Relative) Valid() bool {
	return r >= Ahead && r <= Left
}

// ToAbsolute converts r into a compass heading given the current facing.
func (r Relative) ToAbsolute(facing Direction) Direction {
	return facing.Rotate(r)
}

func (r Relative) String() string {
	switch r {
	case Ahead:
		return "AHEAD"
	case Right:
		return "RIGHT"
	case Behind:
		return "BEHIND"
	case Left:
		return "LEFT"
	}
	return fmt.Sprintf("Relative(%d)", int(r))
}

// MarshalText encodes the relative direction by name.
func (r Relative) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid relative direction %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a relative direction name (case-insensitive).
func (r *Relative) UnmarshalText(text []byte) error {
	parsed, err := ParseRelative(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRelative parses a relative direction name such as "ahead" or "left".
func ParseRelative(s string) (Relative, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AHEAD":
		return Ahead, nil
	case "RIGHT":
		return Right, nil
	case "BEHIND":
		return Behind, nil
	case "LEFT":
		return Left, nil
	}
	return Ahead, fmt.Errorf("unknown relative direction %q", s)
}
