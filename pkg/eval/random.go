package eval

import "math/rand"

// Random adds a small amount of noise to leaf evaluations, in centipawn-scale units matching
// Static's output. The limit bounds the noise to [-limit/2; limit/2]. The zero value adds no
// noise, so it is always safe to use as a default.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Noise() int {
	if n.limit <= 0 {
		return 0
	}
	return n.rand.Intn(n.limit) - n.limit/2
}
