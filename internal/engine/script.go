package engine

// Scripted is a deterministic Source that replays queued draws in order.
// Once a queue is drained Intn returns 0 and Float64 returns 0.99, so
// probability checks below 0.99 fail by default.
type Scripted struct {
	Ints   []int
	Floats []float64
}

func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 || v >= n {
		v = ((v % n) + n) % n
	}
	return v
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}
