package experiment

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	env "github.com/samuelfneumann/roverdomain/environment"
	"github.com/samuelfneumann/roverdomain/experiment/tracker"
	ts "github.com/samuelfneumann/roverdomain/timestep"
)

// Online is an Experiment that runs a policy online only. Each episode
// runs until the environment ends it.
type Online struct {
	env.Environment
	Policy
	id             uuid.UUID
	episodes       int
	currentEpisode int
	trackers       []tracker.Tracker
	logger         *log.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The episodes parameter determines
// how many episodes the experiment is run for, and the t parameter
// is a slice of tracker.Tracker which determine what data is saved.
//
// Each experiment is given a random run id which prefixes its log
// messages.
func NewOnline(e env.Environment, p Policy, episodes int,
	t ...tracker.Tracker) *Online {
	id := uuid.New()
	logger := log.New(log.Writer(), fmt.Sprintf("[%v] ", id), log.Flags())

	return &Online{
		Environment: e,
		Policy:      p,
		id:          id,
		episodes:    episodes,
		trackers:    t,
		logger:      logger,
	}
}

// ID returns the run id of the experiment
func (o *Online) ID() uuid.UUID {
	return o.id
}

// SetLogger replaces the logger of the experiment
func (o *Online) SetLogger(l *log.Logger) {
	o.logger = l
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	if o.currentEpisode >= o.episodes {
		return true, nil
	}

	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	o.track(step)

	var teamReturn float64
	for !step.Last() {
		action := o.Policy.SelectAction(step)

		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: step %d: %w",
				o.Environment.CurrentTimeStep().Number+1, err)
		}
		teamReturn += step.Reward

		// Cache the environment step in each Tracker
		o.track(step)
	}

	o.currentEpisode++
	o.logger.Printf("episode %d/%d: %d steps, return %.4f",
		o.currentEpisode, o.episodes, step.Number, teamReturn)

	return o.currentEpisode >= o.episodes, nil
}

// Run runs the entire experiment for all episodes
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
