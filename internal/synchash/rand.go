package synchash

// Rand is the synchronized pseudo random generator. Every peer seeds it
// identically and draws from it only inside the simulation, never for
// presentation.
type Rand struct {
	seed uint32
}

func NewRand(seed uint32) *Rand {
	return &Rand{seed: seed}
}

// Next returns a 16-bit value and advances the seed.
func (r *Rand) Next() int {
	val := r.seed >> 16
	r.seed = r.seed*(0x12345678*4+1) + 1
	return int(val)
}

// Intn returns a value in [0, n). n <= 0 yields 0 without advancing.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.Next() % n
}

// Seed returns the current seed; it is part of the debug trace line.
func (r *Rand) Seed() uint32 {
	return r.seed
}
