/*
Package domain contains the core types of the Tremaux maze agent.

It defines the vocabulary shared by the decision engine, the host adapters and
the persistence layer. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - Cell: a grid coordinate supplied by the host.
  - Direction / Relative: absolute compass headings and headings relative to the robot's facing.
  - ExitKind: what the host senses in one direction (Wall, Passage, BeenBefore).
  - Junction: a cell with three or more exits, recorded with the heading it was first entered on.
  - Route: the per-cell departure headings recorded during the first attempt, replayed afterwards.
*/
package domain
