package reservation

// Park–Miller style generator used by the mock backend. The arithmetic stays
// within int64 because seed < modulus and modulus*multiplier < 2^63.
const (
	seedModulus    int64 = 1<<35 - 31
	seedMultiplier int64 = 185852
)

type seededRandom struct {
	state int64
}

func newSeededRandom(seed int64) *seededRandom {
	return &seededRandom{state: seed % seedModulus}
}

// next returns a value in [0, 1)
func (r *seededRandom) next() float64 {
	r.state = (r.state * seedMultiplier) % seedModulus
	return float64(r.state) / float64(seedModulus)
}
