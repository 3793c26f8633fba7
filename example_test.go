package tremaux_test

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aretw0/tremaux"
	"github.com/aretw0/tremaux/pkg/maze"
)

func Example() {
	grid, err := maze.Generate(8, 8, 3, 0)
	if err != nil {
		panic(err)
	}

	ctrl := tremaux.New(
		tremaux.WithMazeID("example"),
		tremaux.WithRandom(rand.New(rand.NewSource(1))),
	)
	host := maze.NewHost(grid)

	first, err := host.Run(context.Background(), ctrl)
	if err != nil {
		panic(err)
	}
	host.NextAttempt(ctrl)
	replay, err := host.Run(context.Background(), ctrl)
	if err != nil {
		panic(err)
	}

	fmt.Println("explored:", first.Reached)
	fmt.Println("replayed:", replay.Reached, ctrl.Mode())
	fmt.Println("replay no longer than exploration:", replay.Moves <= first.Moves)
	// Output:
	// explored: true
	// replayed: true replay
	// replay no longer than exploration: true
}
