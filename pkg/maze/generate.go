package maze

import (
	"fmt"
	"math/rand"

	"github.com/aretw0/tremaux/pkg/domain"
)

// disjointSet is the union-find forest used by Kruskal's algorithm.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	s := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

func (s *disjointSet) find(i int) int {
	if s.parent[i] != i {
		s.parent[i] = s.find(s.parent[i])
	}
	return s.parent[i]
}

// union merges the sets of a and b and reports whether they were distinct.
func (s *disjointSet) union(a, b int) bool {
	x, y := s.find(a), s.find(b)
	if x == y {
		return false
	}
	switch {
	case s.rank[x] > s.rank[y]:
		s.parent[y] = x
	case s.rank[x] < s.rank[y]:
		s.parent[x] = y
	default:
		s.parent[y] = x
		s.rank[x]++
	}
	return true
}

// wall is an interior wall, identified by the cell to its west or north.
type wall struct {
	cell domain.Cell
	dir  domain.Direction // East or South
}

// Generate builds a width×height maze from seed. A perfect maze (exactly one
// path between any two cells) is carved with Kruskal's algorithm, then loops
// additional walls are knocked down to create cycles.
func Generate(width, height int, seed int64, loops int) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if loops < 0 {
		return nil, fmt.Errorf("%w: loops must not be negative", ErrInvalidGrid)
	}

	rng := rand.New(rand.NewSource(seed))

	walls := make([]wall, 0, 2*width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := domain.Cell{X: x, Y: y}
			if x+1 < width {
				walls = append(walls, wall{c, domain.East})
			}
			if y+1 < height {
				walls = append(walls, wall{c, domain.South})
			}
		}
	}
	rng.Shuffle(len(walls), func(i, j int) { walls[i], walls[j] = walls[j], walls[i] })

	sets := newDisjointSet(width * height)
	remaining := walls[:0]
	for _, w := range walls {
		if sets.union(g.idx(w.cell), g.idx(w.cell.Step(w.dir))) {
			_ = g.Carve(w.cell, w.dir)
			continue
		}
		remaining = append(remaining, w)
	}

	if loops > len(remaining) {
		loops = len(remaining)
	}
	for _, w := range remaining[:loops] {
		_ = g.Carve(w.cell, w.dir)
	}

	return g, nil
}
