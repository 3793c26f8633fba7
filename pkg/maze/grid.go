package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tremaux/pkg/domain"
)

// MaxDimension bounds either side of a grid.
const MaxDimension = 200

// ErrInvalidGrid is returned for malformed maze definitions.
var ErrInvalidGrid = errors.New("invalid maze grid")

// Grid is a rectangular maze. Every cell starts fully walled; Carve opens walls.
type Grid struct {
	Width  int
	Height int
	Start  domain.Cell
	Goal   domain.Cell

	// open holds a bitmask of open headings per cell.
	open []uint8
}

// NewGrid allocates a fully walled grid with start top-left and goal bottom-right.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: width and height must be at least 1", ErrInvalidGrid)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidGrid, width, height, MaxDimension, MaxDimension)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Start:  domain.Cell{X: 0, Y: 0},
		Goal:   domain.Cell{X: width - 1, Y: height - 1},
		open:   make([]uint8, width*height),
	}, nil
}

// In reports whether c lies inside the grid.
func (g *Grid) In(c domain.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

func (g *Grid) idx(c domain.Cell) int {
	return c.Y*g.Width + c.X
}

// Open reports whether the wall on side d of cell c is open.
func (g *Grid) Open(c domain.Cell, d domain.Direction) bool {
	if !g.In(c) || !d.Valid() {
		return false
	}
	return g.open[g.idx(c)]&(1<<uint(d)) != 0
}

// Carve opens the wall between c and its neighbour in heading d.
func (g *Grid) Carve(c domain.Cell, d domain.Direction) error {
	n := c.Step(d)
	if !g.In(c) || !g.In(n) {
		return fmt.Errorf("%w: cannot carve %s from %s", ErrInvalidGrid, d, c)
	}
	g.open[g.idx(c)] |= 1 << uint(d)
	g.open[g.idx(n)] |= 1 << uint(d.Reverse())
	return nil
}

// Exits counts the open sides of c.
func (g *Grid) Exits(c domain.Cell) int {
	n := 0
	for _, d := range domain.Directions {
		if g.Open(c, d) {
			n++
		}
	}
	return n
}

// Parse reads a maze in the ASCII lattice format.
func Parse(r io.Reader) (*Grid, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading maze: %w", err)
	}

	rows := len(lines)
	if rows < 3 || rows%2 == 0 {
		return nil, fmt.Errorf("%w: need an odd number of rows >= 3, got %d", ErrInvalidGrid, rows)
	}
	cols := len(lines[0])
	if cols < 3 || cols%2 == 0 {
		return nil, fmt.Errorf("%w: need an odd number of columns >= 3, got %d", ErrInvalidGrid, cols)
	}
	for i, l := range lines {
		if len(l) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidGrid, i+1, len(l), cols)
		}
	}

	g, err := NewGrid((cols-1)/2, (rows-1)/2)
	if err != nil {
		return nil, err
	}

	var haveStart, haveGoal bool
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := domain.Cell{X: x, Y: y}
			row, col := 2*y+1, 2*x+1
			switch lines[row][col] {
			case 'S':
				g.Start, haveStart = c, true
			case 'G':
				g.Goal, haveGoal = c, true
			case '#':
				return nil, fmt.Errorf("%w: cell %s is solid", ErrInvalidGrid, c)
			}
			if x+1 < g.Width && lines[row][col+1] != '#' {
				_ = g.Carve(c, domain.East)
			}
			if y+1 < g.Height && lines[row+1][col] != '#' {
				_ = g.Carve(c, domain.South)
			}
		}
	}
	if !haveStart || !haveGoal {
		return nil, fmt.Errorf("%w: maze needs both S and G", ErrInvalidGrid)
	}
	return g, nil
}

// String renders the grid in the ASCII lattice format.
func (g *Grid) String() string {
	return g.Render(nil)
}

// Render draws the grid, marking cells with the runes in marks.
func (g *Grid) Render(marks map[domain.Cell]rune) string {
	rows, cols := 2*g.Height+1, 2*g.Width+1
	canvas := make([][]byte, rows)
	for r := range canvas {
		canvas[r] = []byte(strings.Repeat("#", cols))
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := domain.Cell{X: x, Y: y}
			row, col := 2*y+1, 2*x+1
			canvas[row][col] = ' '
			if g.Open(c, domain.East) {
				canvas[row][col+1] = ' '
			}
			if g.Open(c, domain.South) {
				canvas[row+1][col] = ' '
			}
		}
	}

	var b strings.Builder
	for r, line := range canvas {
		for col, ch := range line {
			if r%2 == 1 && col%2 == 1 {
				c := domain.Cell{X: (col - 1) / 2, Y: (r - 1) / 2}
				switch {
				case c == g.Start:
					b.WriteByte('S')
					continue
				case c == g.Goal:
					b.WriteByte('G')
					continue
				}
				if m, ok := marks[c]; ok {
					b.WriteRune(m)
					continue
				}
				b.WriteByte('.')
				continue
			}
			if ch == ' ' {
				b.WriteByte('.')
			} else {
				b.WriteByte(ch)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
