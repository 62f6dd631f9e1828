// Package roverdomain implements the multi-agent rover domain. In this
// environment, a team of rovers moves in a bounded 2-D plane that
// holds fixed points of interest (POIs), each carrying a value. A POI
// is observed when a rover comes within some radius of it, and the team
// is rewarded for how closely each POI was observed.
//
// On each step, every rover takes a world-frame displacement action.
// The environment moves the rovers (DynamicsProcessor), computes each
// rover's sector-based observation (ObservationsCalculator) and
// computes the rewards (Evaluator). The team reward G is shared by all
// rovers, while the difference reward D_i = G - G(without rover i)
// credits each rover with its own contribution.
//
// RoverDomain implements the environment.Environment interface. It is
// not safe for concurrent use; independent episodes that should run
// concurrently need independent RoverDomains.
package roverdomain

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/roverdomain/environment"
	ts "github.com/samuelfneumann/roverdomain/timestep"
	"github.com/samuelfneumann/roverdomain/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// Phase is the lifecycle phase of a RoverDomain
type Phase int

const (
	// Uninitialized domains have not been reset yet
	Uninitialized Phase = iota

	// Ready domains have been reset but not stepped
	Ready

	// Stepping domains are in the middle of an episode
	Stepping

	// Done domains have finished an episode and must be reset
	Done
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "Ready"
	case Stepping:
		return "Stepping"
	case Done:
		return "Done"
	default:
		return "Uninitialized"
	}
}

// Option substitutes one of the components of a RoverDomain
type Option func(*RoverDomain)

// WithDynamics replaces the default DynamicsProcessor
func WithDynamics(d DynamicsProcessor) Option {
	return func(r *RoverDomain) { r.dynamics = d }
}

// WithObservations replaces the default ObservationsCalculator
func WithObservations(o ObservationsCalculator) Option {
	return func(r *RoverDomain) { r.observations = o }
}

// WithEvaluator replaces the evaluator built from the configuration
func WithEvaluator(e Evaluator) Option {
	return func(r *RoverDomain) { r.evaluator = e }
}

// RoverDomain owns the State of an episode and composes dynamics,
// observations and evaluation into the reset/step protocol.
type RoverDomain struct {
	config  Config
	options []Option

	state   *State
	history []*State

	dynamics     DynamicsProcessor
	observations ObservationsCalculator
	evaluator    Evaluator
	ender        env.Ender
	starter      env.Starter

	phase    Phase
	lastStep ts.TimeStep
}

// New returns a new RoverDomain described by c. The domain must be
// reset before it can be stepped. Unset optional fields of c are filled
// with defaults (see Config.Normalize).
func New(c Config, opts ...Option) (*RoverDomain, error) {
	r := &RoverDomain{options: opts}
	if err := r.configure(c); err != nil {
		return nil, err
	}
	return r, nil
}

// configure validates c and rebuilds all components from it
func (r *RoverDomain) configure(c Config) error {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}

	state, err := NewState(c.roverStarts(), c.RoverHeadings,
		c.poiPositions(), c.POIValues)
	if err != nil {
		return err
	}

	dynamics, err := NewDefaultDynamics(c.Width, c.Height, c.MaxSpeed)
	if err != nil {
		return err
	}

	observations, err := NewDefaultObservations(c.Sectors,
		c.ObservationRadius, c.EpsilonValue(), c.HeadingRelative)
	if err != nil {
		return err
	}

	global, err := NewGlobalEvaluator(c.Radius(), c.EpsilonValue(),
		c.Coupling, c.Window)
	if err != nil {
		return err
	}
	var evaluator Evaluator = global
	if c.Evaluator == Difference {
		evaluator, err = NewDifferenceEvaluator(global, c.NumRovers)
		if err != nil {
			return err
		}
	}

	var starter env.Starter
	if c.RandomStarts() && c.NumRovers > 0 {
		x, y := c.StartBounds.Intervals()
		bounds := make([]r1.Interval, 0, c.NumRovers*ActionDims)
		for i := 0; i < c.NumRovers; i++ {
			bounds = append(bounds, x, y)
		}
		starter = env.NewUniformStarter(bounds, c.Seed)
	}

	r.config = c
	r.state = state
	r.history = nil
	r.dynamics = dynamics
	r.observations = observations
	r.evaluator = evaluator
	r.ender = env.NewStepLimit(c.EpisodeLength)
	r.starter = starter
	r.phase = Uninitialized
	r.lastStep = ts.TimeStep{}

	for _, opt := range r.options {
		opt(r)
	}
	return nil
}

// ResetConfig replaces the configuration of the domain and resets it.
// If c is invalid, a ConfigurationError is returned and the domain is
// left unchanged.
func (r *RoverDomain) ResetConfig(c Config) (ts.TimeStep, error) {
	next := &RoverDomain{options: r.options}
	if err := next.configure(c); err != nil {
		return ts.TimeStep{}, err
	}

	*r = *next
	return r.Reset()
}

// Reset resets the environment, begins a new episode, and returns the
// first timestep of the new episode. Rewards of the first timestep are
// zero.
func (r *RoverDomain) Reset() (ts.TimeStep, error) {
	if r.starter != nil {
		sample := r.starter.Start()
		starts := make([]r2.Vec, r.state.NumRovers())
		for i := range starts {
			starts[i] = r2.Vec{
				X: sample.AtVec(i * ActionDims),
				Y: sample.AtVec(i*ActionDims + 1),
			}
		}
		if err := r.state.SetRoverStarts(starts); err != nil {
			return ts.TimeStep{}, fmt.Errorf("reset: could not sample "+
				"rover starts: %w", err)
		}
	}
	r.state.Reset()

	obs, err := r.observations.Observe(r.state)
	if err != nil {
		return ts.TimeStep{}, err
	}

	r.history = []*State{r.state.Copy()}
	startStep := ts.New(ts.First, 0, matutils.VecFilled(r.state.NumRovers(),
		0), r.config.DiscountValue(), obs, 0)
	r.lastStep = startStep
	r.phase = Ready

	return startStep, nil
}

// Step takes one environmental step given the joint action of all
// rovers and returns the next timestep and whether the episode has
// ended. The episode ends on exactly the EpisodeLength-th step.
//
// Stepping before the first Reset or after the episode has ended
// returns an InvalidStateError. Errors of the dynamics, observation
// and evaluation components are returned unmodified. A failed step
// leaves the State, the history and the current timestep as they were.
func (r *RoverDomain) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	switch r.phase {
	case Uninitialized:
		return ts.TimeStep{}, false, &InvalidStateError{"step", errNotReset}
	case Done:
		return ts.TimeStep{}, false, &InvalidStateError{"step",
			errEpisodeEnded}
	}

	next := r.state.Copy()
	if err := r.dynamics.Process(next, action); err != nil {
		return ts.TimeStep{}, false, err
	}

	obs, err := r.observations.Observe(next)
	if err != nil {
		return ts.TimeStep{}, false, err
	}

	nextStep := ts.New(ts.Mid, 0, nil, r.config.DiscountValue(), obs,
		r.lastStep.Number+1)
	last := r.ender.End(&nextStep)

	history := append(r.history[:len(r.history):len(r.history)], next.Copy())
	team, rovers, err := r.evaluator.Evaluate(history, last)
	if err != nil {
		return ts.TimeStep{}, false, err
	}
	nextStep.Reward = team
	nextStep.RoverRewards = rovers

	r.state = next
	r.history = history
	r.lastStep = nextStep
	if last {
		r.phase = Done
	} else {
		r.phase = Stepping
	}
	return nextStep, last, nil
}

// CurrentTimeStep returns the current timestep of the environment
func (r *RoverDomain) CurrentTimeStep() ts.TimeStep {
	return r.lastStep
}

// Phase returns the lifecycle phase of the domain
func (r *RoverDomain) Phase() Phase {
	return r.phase
}

// Config returns the normalized configuration of the domain
func (r *RoverDomain) Config() Config {
	return r.config
}

// State returns a copy of the current State
func (r *RoverDomain) State() *State {
	return r.state.Copy()
}

// History returns copies of the States of the current episode, from
// the first State after Reset to the current State
func (r *RoverDomain) History() []*State {
	history := make([]*State, len(r.history))
	for i, s := range r.history {
		history[i] = s.Copy()
	}
	return history
}

// ObservationSpec returns the observation specification of a single
// rover
func (r *RoverDomain) ObservationSpec() env.Spec {
	dims := 2 * r.config.Sectors
	if d, ok := r.observations.(interface{ ObservationDims() int }); ok {
		dims = d.ObservationDims()
	}

	shape := mat.NewVecDense(dims, nil)
	lowerBound := matutils.VecFilled(dims, 0)
	upperBound := matutils.VecFilled(dims, math.Inf(1))

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		r.config.NumRovers, env.Continuous)
}

// ActionSpec returns the specification of joint actions. Displacements
// are bounded by the maximum speed if one is configured, and by the
// world size otherwise.
func (r *RoverDomain) ActionSpec() env.Spec {
	n := r.config.NumRovers * ActionDims
	if n == 0 {
		empty := &mat.VecDense{}
		return env.NewSpec(empty, env.Action, empty, empty, 0,
			env.Continuous)
	}

	maxX, maxY := r.config.Width, r.config.Height
	if r.config.MaxSpeed > 0 {
		maxX, maxY = r.config.MaxSpeed, r.config.MaxSpeed
	}

	shape := mat.NewVecDense(n, nil)
	lowerBound := mat.NewVecDense(n, nil)
	upperBound := mat.NewVecDense(n, nil)
	for i := 0; i < r.config.NumRovers; i++ {
		lowerBound.SetVec(i*ActionDims, -maxX)
		lowerBound.SetVec(i*ActionDims+1, -maxY)
		upperBound.SetVec(i*ActionDims, maxX)
		upperBound.SetVec(i*ActionDims+1, maxY)
	}

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		r.config.NumRovers, env.Continuous)
}

// RewardSpec returns the reward specification of a single rover
func (r *RoverDomain) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{math.Inf(-1)})
	upperBound := mat.NewVecDense(1, []float64{math.Inf(1)})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		r.config.NumRovers, env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (r *RoverDomain) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{r.config.DiscountValue()})
	upperBound := mat.NewVecDense(1, []float64{r.config.DiscountValue()})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		r.config.NumRovers, env.Continuous)
}

// String returns a string representation of the environment
func (r *RoverDomain) String() string {
	str := "RoverDomain  |  Phase: %v  |  Step: %d/%d  |  Reward: %.3f\n%v"
	return fmt.Sprintf(str, r.phase, r.lastStep.Number,
		r.config.EpisodeLength, r.lastStep.Reward, r.state)
}
