package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is a maze grid coordinate. Y grows southwards.
// It encodes as the text "x,y" wherever it is serialised.
type Cell struct {
	X int
	Y int
}

// Step returns the neighbouring cell in the given heading.
func (c Cell) Step(d Direction) Cell {
	switch d {
	case North:
		return Cell{c.X, c.Y - 1}
	case East:
		return Cell{c.X + 1, c.Y}
	case South:
		return Cell{c.X, c.Y + 1}
	case West:
		return Cell{c.X - 1, c.Y}
	}
	return c
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// MarshalText encodes the cell as "x,y" so it can key JSON objects.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)), nil
}

// UnmarshalText decodes a cell from "x,y".
func (c *Cell) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 2 {
		return fmt.Errorf("invalid cell %q: expected x,y", text)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("invalid cell x in %q: %w", text, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("invalid cell y in %q: %w", text, err)
	}
	c.X, c.Y = x, y
	return nil
}
