package machine

import "math/rand/v2"

// Random is a source of uniformly distributed random bytes.
type Random interface {
	Byte() uint8
}

// pcgRandom is the default Random implementation, owned by a single machine.
type pcgRandom struct {
	rnd *rand.Rand
}

// NewRandom returns a deterministic Random source for the given seed.
func NewRandom(seed uint64) Random {
	return pcgRandom{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

func (r pcgRandom) Byte() uint8 {
	return uint8(r.rnd.UintN(256))
}
