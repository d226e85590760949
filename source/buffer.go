package source

import "encoding/binary"

// BufferSource replays a fixed byte buffer as a sequence of bit draws.
// A draw that would read past the end of the buffer concludes the run
// with StatusOverrun, unless it is forced (a forced draw never needs
// to read input).
type BufferSource struct {
	input     []byte
	pos       int
	output    []byte
	status    Status
	origin    any
	concluded bool
}

// NewBufferSource wraps buf for replay.
func NewBufferSource(buf []byte) *BufferSource {
	return &BufferSource{input: buf}
}

func (s *BufferSource) DrawBits(n uint8, forced *uint64) (uint64, error) {
	if s.concluded {
		return 0, ErrStopTest
	}
	need := bytesForWidth(n)
	avail := len(s.input) - s.pos
	if forced != nil {
		v := *forced & mask(n)
		take := avail
		if take > need {
			take = need
		}
		if take > 0 {
			s.pos += take
		}
		s.output = append(s.output, encodeBits(v, need)...)
		return v, nil
	}
	if avail < need {
		return 0, s.ConcludeTest(StatusOverrun, nil)
	}
	raw := s.input[s.pos : s.pos+need]
	s.pos += need
	v := decodeBits(raw) & mask(n)
	s.output = append(s.output, raw...)
	return v, nil
}

func (s *BufferSource) ConcludeTest(status Status, origin any) error {
	if s.concluded {
		return ErrStopTest
	}
	s.status = status
	s.origin = origin
	s.concluded = true
	return ErrStopTest
}

func (s *BufferSource) Status() Status { return s.status }
func (s *BufferSource) Origin() any    { return s.origin }
func (s *BufferSource) Buffer() []byte { return s.output }

func encodeBits(v uint64, nbytes int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append([]byte(nil), buf[8-nbytes:]...)
}

func decodeBits(raw []byte) uint64 {
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	return binary.BigEndian.Uint64(buf[:])
}
