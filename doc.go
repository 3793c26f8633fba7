/*
Package tremaux is a maze-solving agent for grid mazes with loops.

The agent is a passive decision-maker: a maze host calls it once per tick with
a Robot that can sense the four directions around it (Wall, Passage or
BeenBefore), and the agent answers by turning the robot. The host moves it.

# Concept

The first attempt at a maze explores it with a variant of Trémaux's algorithm.
Junctions are remembered with the heading the robot first arrived on, so that a
fully explored junction can be left the way it was entered even when the maze
has cycles. Every cell also remembers the heading of its last departure. When
the host starts another attempt, the agent replays those headings, which trims
the loops walked while exploring. The replayed path is loop-free, not shortest.

# Modes

  - Explore: follow corridors, pick unvisited passages at junctions, turn back at dead ends and revisited junctions.
  - Backtrack: retrace until a junction with an unvisited passage, or leave a fully explored junction by its entry.
  - Replay: follow the recorded heading of each cell.

# Usage

	ctrl := tremaux.New(tremaux.WithLogger(logger))

	// Host loop (one call per tick):
	if _, err := ctrl.ControlRobot(ctx, robot); err != nil {
		log.Printf("agent stalled: %v", err)
	}

	// At the start of the next attempt:
	ctrl.Reset()

The pkg/maze package ships a simulated host and maze generator that drive a
Controller end to end.
*/
package tremaux
