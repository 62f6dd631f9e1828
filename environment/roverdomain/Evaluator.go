package roverdomain

import (
	"fmt"
	"math"
	"sort"

	"github.com/samuelfneumann/roverdomain/utils/floatutils"
	"github.com/samuelfneumann/roverdomain/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Window determines which States of an episode are evaluated
type Window string

const (
	// StepWindow evaluates the newest State on every step
	StepWindow Window = "step"

	// EpisodeWindow evaluates the whole episode once it has ended and
	// gives zero rewards on all other steps
	EpisodeWindow Window = "episode"
)

// NoExclusion can be passed to GlobalEvaluator.Global to evaluate the
// full rover team
const NoExclusion int = -1

// Evaluator computes rewards from the history of States of an episode.
// The history is ordered from oldest to newest and includes the State
// at the start of the episode. The done argument reports whether the
// newest State is the last of the episode.
//
// Evaluate returns the reward of the whole team and the reward
// credited to each rover. Evaluators must not retain the history.
type Evaluator interface {
	Evaluate(history []*State, done bool) (float64, *mat.VecDense, error)
}

// GlobalEvaluator computes the team reward G. For each POI, the
// effective observation distance at a single State is the distance to
// the coupling-th closest rover; the POI is observed over a window if
// the smallest effective distance d in the window satisfies
// d ≤ radius, in which case it contributes
//
//	value / max(d², ε)
//
// to G. Unobserved POIs contribute nothing. With a coupling of 1 the
// effective distance is simply the distance to the closest rover.
//
// Every rover is credited the team reward G.
type GlobalEvaluator struct {
	radius   float64
	epsilon  float64
	coupling int
	window   Window
}

// NewGlobalEvaluator returns a new GlobalEvaluator
func NewGlobalEvaluator(radius, epsilon float64, coupling int,
	window Window) (*GlobalEvaluator, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, &ConfigurationError{"newGlobalEvaluator",
			fmt.Errorf("capture radius must be non-negative, have %v",
				radius)}
	}
	if !(epsilon > 0) || !floatutils.IsFinite(epsilon) {
		return nil, &ConfigurationError{"newGlobalEvaluator",
			fmt.Errorf("epsilon must be positive and finite, have %v",
				epsilon)}
	}
	if coupling < 1 {
		return nil, &ConfigurationError{"newGlobalEvaluator",
			fmt.Errorf("coupling must be at least 1, have %d", coupling)}
	}
	if window != StepWindow && window != EpisodeWindow {
		return nil, &ConfigurationError{"newGlobalEvaluator",
			fmt.Errorf("unknown evaluation window %q", window)}
	}

	return &GlobalEvaluator{
		radius:   radius,
		epsilon:  epsilon,
		coupling: coupling,
		window:   window,
	}, nil
}

// Window returns the evaluation window of the evaluator
func (g *GlobalEvaluator) Window() Window {
	return g.window
}

// Evaluate returns the team reward and the per-rover rewards, which
// all equal the team reward
func (g *GlobalEvaluator) Evaluate(history []*State, done bool) (float64,
	*mat.VecDense, error) {
	window, evaluate, err := g.selectWindow(history, done)
	if err != nil {
		return 0, nil, err
	}
	n := history[len(history)-1].NumRovers()
	if !evaluate {
		return 0, matutils.VecFilled(n, 0), nil
	}

	team := g.Global(window, NoExclusion)
	return team, matutils.VecFilled(n, team), nil
}

// Global computes the team reward G over all States in history with
// rover excluded removed from every State. Pass NoExclusion to evaluate
// the full team. Other rovers are unaffected by the exclusion.
//
// Global is a pure function of its arguments. States in history are
// assumed valid; see Evaluate. An empty history observes no POIs and
// has a team reward of 0.
func (g *GlobalEvaluator) Global(history []*State, excluded int) float64 {
	if len(history) == 0 {
		return 0
	}
	pois := history[0]
	distances := make([]float64, 0, pois.NumRovers())

	var team float64
	for j, poi := range pois.poiPositions {
		best := math.Inf(1)

		for _, s := range history {
			distances = distances[:0]
			for i, pos := range s.roverPositions {
				if i == excluded {
					continue
				}
				if dist, _ := distance(pos, poi); dist <= g.radius {
					distances = append(distances, dist)
				}
			}

			if len(distances) < g.coupling {
				continue
			}
			sort.Float64s(distances)
			best = math.Min(best, distances[g.coupling-1])
		}

		if best <= g.radius {
			team += pois.poiValues[j] / math.Max(best*best, g.epsilon)
		}
	}
	return team
}

// selectWindow validates the history and returns the States which
// should be evaluated and whether an evaluation should occur at all
func (g *GlobalEvaluator) selectWindow(history []*State, done bool) (
	[]*State, bool, error) {
	if err := validateHistory(history); err != nil {
		return nil, false, err
	}

	switch g.window {
	case EpisodeWindow:
		return history, done, nil

	default:
		return history[len(history)-1:], true, nil
	}
}

// validateHistory ensures a history is non-empty, that each State in
// it is valid, and that all States agree on the number of rovers and
// POIs
func validateHistory(history []*State) error {
	if len(history) == 0 {
		return &ValidationError{"evaluate", fmt.Errorf("empty history")}
	}

	first := history[0]
	for t, s := range history {
		if err := s.Validate(); err != nil {
			return err
		}
		if s.NumRovers() != first.NumRovers() ||
			s.NumPOIs() != first.NumPOIs() {
			return &ValidationError{"evaluate", fmt.Errorf("state %d has "+
				"%d rovers and %d pois, expected %d and %d", t,
				s.NumRovers(), s.NumPOIs(), first.NumRovers(),
				first.NumPOIs())}
		}
	}
	return nil
}
