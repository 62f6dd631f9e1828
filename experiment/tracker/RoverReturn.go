package tracker

import (
	"io"

	ts "github.com/samuelfneumann/roverdomain/timestep"
	"github.com/samuelfneumann/roverdomain/utils/matutils"
	"gonum.org/v1/gonum/floats"
)

// RoverReturn tracks and saves the episodic return credited to each
// rover. With a difference evaluator, these are the summed difference
// rewards of each rover.
type RoverReturn struct {
	lastTimeStep   int
	currentReturn  []float64
	episodeReturns [][]float64
}

// NewRoverReturn creates and returns a new *RoverReturn Tracker
func NewRoverReturn() *RoverReturn {
	return &RoverReturn{lastTimeStep: -1}
}

// Track tracks the rover rewards seen on a timestep
//
// Track panics if it is called for non-sequential timesteps or if the
// number of rovers changes within an episode
func (r *RoverReturn) Track(step ts.TimeStep) {
	checkSequential(r.lastTimeStep, step)

	rewards := matutils.VecData(step.RoverRewards)
	if step.First() || r.currentReturn == nil {
		r.currentReturn = make([]float64, len(rewards))
	}
	floats.Add(r.currentReturn, rewards)
	r.lastTimeStep = step.Number

	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)

		r.currentReturn = nil
		r.lastTimeStep = -1
	}
}

// Returns returns the per-rover returns of all finished episodes
func (r *RoverReturn) Returns() [][]float64 {
	returns := make([][]float64, len(r.episodeReturns))
	for i := range r.episodeReturns {
		returns[i] = make([]float64, len(r.episodeReturns[i]))
		copy(returns[i], r.episodeReturns[i])
	}
	return returns
}

// Total returns the return of episode i summed over all rovers
func (r *RoverReturn) Total(i int) float64 {
	return floats.Sum(r.episodeReturns[i])
}

// Save saves the data tracked by the RoverReturn Tracker to w
func (r *RoverReturn) Save(w io.Writer) error {
	return save(w, r.episodeReturns)
}
