// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

// MaxProgress is the progress value of a finished run.
const MaxProgress = 100.0

// Advance adds delta to current and clamps the result to [0, MaxProgress].
func Advance(current, delta float64) float64 {
	v := current + delta
	switch {
	case v > MaxProgress:
		return MaxProgress
	case v < 0:
		return 0
	}
	return v
}

// stepper hands out the progress delta for each of n files. Every step is
// 100/n except the last, which is the remainder, so the deltas of a run sum
// to exactly MaxProgress.
type stepper struct {
	step      float64
	remaining int
	emitted   float64
}

func newStepper(n int) *stepper {
	return &stepper{step: MaxProgress / float64(n), remaining: n}
}

func (s *stepper) next() float64 {
	if s.remaining <= 0 {
		return 0
	}
	s.remaining--
	if s.remaining == 0 {
		return MaxProgress - s.emitted
	}
	s.emitted += s.step
	return s.step
}
