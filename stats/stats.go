// Package stats provides incremental statistics used by the matchup
// runner and search diagnostics.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates mean and variance with Welford's algorithm, plus
// the observed range.
type Statistic struct {
	iterations int
	last       float64
	min        float64
	max        float64

	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.iterations++
	if s.iterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.iterations)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	if s.iterations == 0 {
		return 0.0
	}
	return s.newM
}

func (s *Statistic) Variance() float64 {
	if s.iterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.iterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.iterations == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.iterations))
}

func (s *Statistic) Iterations() int { return s.iterations }
func (s *Statistic) Last() float64   { return s.last }
func (s *Statistic) Min() float64    { return s.min }
func (s *Statistic) Max() float64    { return s.max }
