package experiment

import (
	"fmt"

	env "github.com/samuelfneumann/roverdomain/environment"
	ts "github.com/samuelfneumann/roverdomain/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// Policy selects the joint action of all rovers given the current
// timestep. Learning algorithms live outside of this module and are
// connected to environments through this interface.
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// RandomPolicy selects joint actions uniformly at random within the
// bounds of an action specification
type RandomPolicy struct {
	seed    uint64
	actions int
	rand    *distmv.Uniform
}

// NewRandomPolicy returns a new RandomPolicy for the given action
// specification
func NewRandomPolicy(actionSpec env.Spec, seed uint64) (*RandomPolicy,
	error) {
	if actionSpec.Type != env.Action {
		return nil, fmt.Errorf("newRandomPolicy: cannot create policy from "+
			"%v specification", actionSpec.Type)
	}

	actions := actionSpec.Shape.Len()
	if actions == 0 {
		return &RandomPolicy{seed: seed}, nil
	}

	bounds := make([]r1.Interval, actions)
	for i := range bounds {
		bounds[i] = r1.Interval{
			Min: actionSpec.LowerBound.AtVec(i),
			Max: actionSpec.UpperBound.AtVec(i),
		}
	}

	source := rand.NewSource(seed)
	return &RandomPolicy{seed, actions, distmv.NewUniform(bounds, source)}, nil
}

// SelectAction returns a joint action sampled uniformly at random. The
// timestep is ignored. If there are no rovers, nil is returned.
func (r *RandomPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	if r.actions == 0 {
		return nil
	}
	return mat.NewVecDense(r.actions, r.rand.Rand(nil))
}

// Seed returns the seed of the policy
func (r *RandomPolicy) Seed() uint64 {
	return r.seed
}
