/*
Package maze is a simulated host for the Tremaux controller.

It provides a rectangular grid maze (parsed from ASCII art or generated with
optional loops), a Robot that senses walls and visited cells the way a maze
host does, and a Host that runs attempts tick by tick.

# ASCII format

A w×h maze is drawn on a (2w+1)×(2h+1) lattice. Cells sit on odd rows and
columns, the characters between them are walls ('#') or openings (anything
else). 'S' marks the start cell and 'G' the goal.

	#######
	#S....#
	#.###.#
	#.#...#
	#.#.#.#
	#...#G#
	#######
*/
package maze
