// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"io"

	ts "github.com/samuelfneumann/roverdomain/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished. Trackers cache their data in RAM
// until Save is called.
type Tracker interface {
	Track(t ts.TimeStep)
	Save(w io.Writer) error
}

// LoadData loads and returns the data saved by a Return or
// EpisodeLength Tracker
func LoadData[T float64 | int](r io.Reader) ([]T, error) {
	dec := gob.NewDecoder(r)
	var data []T

	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %v", err)
	}
	return data, nil
}

// LoadRoverData loads and returns the per-rover returns saved by a
// RoverReturn Tracker. Row i holds the returns of episode i.
func LoadRoverData(r io.Reader) ([][]float64, error) {
	dec := gob.NewDecoder(r)
	var data [][]float64

	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadRoverData: could not decode data: %v",
			err)
	}
	return data, nil
}

// save gob-encodes data to w
func save(w io.Writer, data any) error {
	en := gob.NewEncoder(w)
	if err := en.Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %v", err)
	}
	return nil
}

// checkSequential panics if step does not directly follow last
func checkSequential(last int, step ts.TimeStep) {
	if last+1 != step.Number {
		msg := fmt.Sprintf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			last, step.Number)
		panic(msg)
	}
}
