// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/roverdomain/environment/envconfig"
	"github.com/samuelfneumann/roverdomain/environment/roverdomain"
	"github.com/samuelfneumann/roverdomain/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep's
// data in the registered Trackers to be later saved. The Run() method
// will run all episodes until the episode limit is reached or an error
// occurs. The RunEpisode() function will run a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether all episodes have run

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type
	Episodes int
	Seed     uint64
	EnvConf  roverdomain.Config
}

// CreateExp creates the experiment described by the Config. Actions are
// selected by a RandomPolicy seeded with the Config's seed.
func (c Config) CreateExp(t ...tracker.Tracker) (Experiment, error) {
	if c.Episodes < 1 {
		return nil, fmt.Errorf("createExp: number of episodes must be "+
			"positive, have %d", c.Episodes)
	}

	r, _, err := envconfig.Create(c.EnvConf)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}

	policy, err := NewRandomPolicy(r.ActionSpec(), c.Seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create policy: %w", err)
	}

	switch c.Type {
	case OnlineExp, "":
		return NewOnline(r, policy, c.Episodes, t...), nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
