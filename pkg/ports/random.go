package ports

// Random is the source of uniform choices used at junctions.
// math/rand.Rand satisfies it.
type Random interface {
	// Intn returns a uniform value in [0, n). n is always > 0.
	Intn(n int) int
}
