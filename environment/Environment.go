// Package environment outlines the interfaces and structs needed to
// implement concrete multi-agent environments
package environment

import (
	"github.com/samuelfneumann/roverdomain/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. If an episode should be ended,
// End modifies the argument TimeStep so that its StepType is
// timestep.Last and sets the appropriate ending type.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated multi-agent environment. Actions
// are joint actions: the actions of all agents concatenated in agent
// order.
type Environment interface {
	Reset() (timestep.TimeStep, error)
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	CurrentTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
