package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestStatisticMoments(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(v)
	}
	is.Equal(s.Iterations(), 8)
	is.True(FuzzyEqual(s.Mean(), 5.0))
	is.True(FuzzyEqual(s.Variance(), 32.0/7.0))
	is.Equal(s.Min(), 2.0)
	is.Equal(s.Max(), 9.0)
	is.Equal(s.Last(), 9.0)
}

func TestStatisticEmptyAndSingle(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.Equal(s.Mean(), 0.0)
	is.Equal(s.Variance(), 0.0)
	is.Equal(s.StandardError(), 0.0)

	s.Push(3)
	is.Equal(s.Mean(), 3.0)
	is.Equal(s.Variance(), 0.0)
	is.Equal(s.Min(), 3.0)
	is.Equal(s.Max(), 3.0)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(ZVal(95) > 1.95 && ZVal(95) < 1.97)
	is.True(ZVal(99) > 2.57 && ZVal(99) < 2.59)
	is.True(Z99 > Z95)
}
