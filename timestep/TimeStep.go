// Package timestep implements timesteps of the multi-agent
// rover-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended
type EndType int

const (
	// Episode has not ended
	Unended EndType = iota

	// Episode ended because the step limit was reached
	Timeout

	// Episode ended because some terminal condition held
	TerminalStateReached
)

func (e EndType) String() string {
	switch e {
	case Timeout:
		return "Timeout"
	case TerminalStateReached:
		return "TerminalStateReached"
	default:
		return "Unended"
	}
}

// TimeStep packages together a single timestep in a multi-agent
// environment.
//
// Observations holds one row per rover. Reward is the reward shared by
// the whole team, and RoverRewards holds the reward credited to each
// rover, indexed the same way as the rows of Observations.
type TimeStep struct {
	StepType     StepType
	Reward       float64
	RoverRewards *mat.VecDense
	Discount     float64
	Observations *mat.Dense
	Number       int

	endType EndType
}

// New returns a new TimeStep
func New(t StepType, r float64, rovers *mat.VecDense, d float64,
	o *mat.Dense, n int) TimeStep {
	return TimeStep{
		StepType:     t,
		Reward:       r,
		RoverRewards: rovers,
		Discount:     d,
		Observations: o,
		Number:       n,
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the reason the episode ended
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// EndType returns the reason the episode ended
func (t *TimeStep) EndType() EndType {
	return t.endType
}

// RoverReward returns the reward credited to rover i
func (t *TimeStep) RoverReward(i int) float64 {
	return t.RoverRewards.AtVec(i)
}

// Observation returns a copy of the observation of rover i
func (t *TimeStep) Observation(i int) *mat.VecDense {
	_, c := t.Observations.Dims()
	obs := mat.NewVecDense(c, nil)
	obs.CopyVec(t.Observations.RowView(i))
	return obs
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}
