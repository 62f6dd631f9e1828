package tracker

import (
	"io"

	ts "github.com/samuelfneumann/roverdomain/timestep"
	"gonum.org/v1/gonum/stat"
)

// Return tracks and saves the episodic team return in an experiment.
// When an environment returns a TimeStep, this Tracker will extract the
// team reward and accumulate the return for each episode in the
// experiment. Rewards are summed without discounting.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn() *Return {
	return &Return{lastTimeStep: -1}
}

// Track tracks the team reward seen on a timestep. When a new episode
// starts, this method will automatically detect this and start
// accumulating the rewards for this new episode separately from the
// rewards seen on previous episodes.
//
// Track panics if it is called for non-sequential timesteps
func (r *Return) Track(step ts.TimeStep) {
	checkSequential(r.lastTimeStep, step)

	r.currentReturn += step.Reward
	r.lastTimeStep = step.Number

	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)

		// Reset tracking variables
		r.currentReturn = 0.0
		r.lastTimeStep = -1
	}
}

// Returns returns the returns of all finished episodes
func (r *Return) Returns() []float64 {
	returns := make([]float64, len(r.episodeReturns))
	copy(returns, r.episodeReturns)
	return returns
}

// Mean returns the mean return over all finished episodes, or 0 if no
// episode has finished
func (r *Return) Mean() float64 {
	if len(r.episodeReturns) == 0 {
		return 0
	}
	return stat.Mean(r.episodeReturns, nil)
}

// Save saves the data tracked by the Return Tracker to w
func (r *Return) Save(w io.Writer) error {
	return save(w, r.episodeReturns)
}
