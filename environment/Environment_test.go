package environment

import (
	"testing"

	"github.com/samuelfneumann/roverdomain/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	for n := 1; n <= 3; n++ {
		step := timestep.New(timestep.Mid, 0, nil, 1, nil, n)
		ended := limit.End(&step)

		if want := n == 3; ended != want {
			t.Errorf("end at step %v: \n\twant(%v) \n\thave(%v)", n, want,
				ended)
		}
		if ended && (!step.Last() || step.EndType() != timestep.Timeout) {
			t.Errorf("end at step %v: step should be Last with Timeout, "+
				"have %v and %v", n, step.StepType, step.EndType())
		}
		if !ended && step.Last() {
			t.Errorf("end at step %v: step should not be Last", n)
		}
	}
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{
		{Min: 0, Max: 1},
		{Min: 5, Max: 6},
		{Min: -2, Max: -2},
	}

	s1 := NewUniformStarter(bounds, 42)
	s2 := NewUniformStarter(bounds, 42)

	for i := 0; i < 20; i++ {
		start := s1.Start()
		if start.Len() != len(bounds) {
			t.Fatalf("start length: \n\twant(%v) \n\thave(%v)", len(bounds),
				start.Len())
		}
		for j, b := range bounds {
			if v := start.AtVec(j); v < b.Min || v > b.Max {
				t.Errorf("feature %v: %v not in %v", j, v, b)
			}
		}

		if other := s2.Start(); !mat.Equal(start, other) {
			t.Errorf("starters with equal seeds should agree: "+
				"\n\thave(%v) \n\thave(%v)", start, other)
		}
	}
}

func TestNewSpecPanicsOnMismatchedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("newSpec: expected panic on mismatched bounds")
		}
	}()

	NewSpec(mat.NewVecDense(2, nil), Observation, mat.NewVecDense(1, nil),
		mat.NewVecDense(2, nil), 1, Continuous)
}
