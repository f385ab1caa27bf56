package core

import "math"

// fallbackState replaces a zero xorshift state, which would otherwise stay zero forever
const fallbackState uint32 = 829734215

// unitVectorMinLengthSq rejects candidates too close to the origin to normalize safely
const unitVectorMinLengthSq = 1e-12

// Random is a small xorshift32 stream. It is a value type so that every pixel
// can carry its own stream on the stack; it is not safe for concurrent use.
type Random struct {
	state uint32
}

// NewRandom creates a stream from a 64-bit seed
func NewRandom(seed uint64) Random {
	state := uint32(splitmix64(seed) >> 32)
	if state == 0 {
		state = fallbackState
	}
	return Random{state: state}
}

// PixelSeed derives the seed of an independent stream for one pixel of one frame.
// The result does not depend on which worker or batch renders the pixel.
func PixelSeed(base, frame, pixel uint64) uint64 {
	return splitmix64(splitmix64(base^frame) ^ pixel)
}

// splitmix64 is used to spread nearby seeds over the whole state space
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func (r *Random) next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns a value in [0, 1)
func (r *Random) Float64() float64 {
	return float64(r.next()) / (math.MaxUint32 + 1.0)
}

// Range returns a value in [min, max)
func (r *Random) Range(min, max float64) float64 {
	return min + (max-min)*r.Float64()
}

// Vec3Range returns a vector with each component in [min, max)
func (r *Random) Vec3Range(min, max float64) Vec3 {
	return Vec3{
		X: r.Range(min, max),
		Y: r.Range(min, max),
		Z: r.Range(min, max),
	}
}

// UnitVector returns a uniformly distributed direction on the unit sphere
func (r *Random) UnitVector() Vec3 {
	for {
		p := r.Vec3Range(-1, 1)
		lengthSq := p.LengthSquared()
		if lengthSq >= unitVectorMinLengthSq && lengthSq <= 1.0 {
			return p.Multiply(1.0 / math.Sqrt(lengthSq))
		}
	}
}
