/*
Package ports defines the interfaces between the Tremaux controller and its collaborators.

These interfaces decouple the decision engine from the maze host, the random
source and the storage backends that keep recorded routes between attempts.

# Key Interfaces

  - Robot: the host-side robot the controller senses through and commands.
  - Random: the source of uniform choices at junctions, injectable for deterministic tests.
  - RouteStore: persists the replay table of a maze (Memory, File or Redis).
  - DistributedLocker: serialises route writes across replicas.
*/
package ports
