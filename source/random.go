package source

import "math/rand/v2"

// RandomSource draws bits from an unbounded random stream. It never
// overruns: every draw succeeds, forced or not.
type RandomSource struct {
	rng       *rand.Rand
	output    []byte
	status    Status
	origin    any
	concluded bool
}

// NewRandomSource wraps rng for unbounded draws, e.g. to back
// Tree.GenerateNovelPrefix.
func NewRandomSource(rng *rand.Rand) *RandomSource {
	return &RandomSource{rng: rng}
}

func (s *RandomSource) DrawBits(n uint8, forced *uint64) (uint64, error) {
	if s.concluded {
		return 0, ErrStopTest
	}
	var v uint64
	if forced != nil {
		v = *forced & mask(n)
	} else {
		v = s.rng.Uint64() & mask(n)
	}
	s.output = append(s.output, encodeBits(v, bytesForWidth(n))...)
	return v, nil
}

func (s *RandomSource) ConcludeTest(status Status, origin any) error {
	if s.concluded {
		return ErrStopTest
	}
	s.status = status
	s.origin = origin
	s.concluded = true
	return ErrStopTest
}

func (s *RandomSource) Status() Status { return s.status }
func (s *RandomSource) Origin() any    { return s.origin }
func (s *RandomSource) Buffer() []byte { return s.output }
