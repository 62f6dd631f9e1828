package roverdomain

import (
	"fmt"
	"math"
	"strings"

	"github.com/samuelfneumann/roverdomain/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// headingBounds is the canonical range of rover headings, [0, 2π)
var headingBounds = r1.Interval{Min: 0, Max: 2 * math.Pi}

// State holds the positions and headings of all rovers and the
// positions and values of all POIs for a single episode. Rover and POI
// indices are stable identifiers for the lifetime of the State.
//
// A State is mutated in place by a DynamicsProcessor and read by the
// observation and evaluation components. It is not safe for concurrent
// use.
type State struct {
	roverStarts        []r2.Vec
	roverStartHeadings []float64

	roverPositions []r2.Vec
	roverHeadings  []float64

	poiPositions []r2.Vec
	poiValues    []float64
}

// NewState returns a new State whose rovers start at roverStarts with
// headings roverHeadings and whose POIs are fixed at poiPositions with
// values poiValues. If roverHeadings is nil, all rovers start with
// heading 0. All arguments are copied. The returned State has already
// been reset.
func NewState(roverStarts []r2.Vec, roverHeadings []float64,
	poiPositions []r2.Vec, poiValues []float64) (*State, error) {
	if roverHeadings == nil {
		roverHeadings = make([]float64, len(roverStarts))
	}

	if len(roverStarts) != len(roverHeadings) {
		return nil, &ConfigurationError{"newState", fmt.Errorf("rover "+
			"starts and headings must have equal length \n\tstarts(%d) "+
			"\n\theadings(%d)", len(roverStarts), len(roverHeadings))}
	}
	if len(poiPositions) != len(poiValues) {
		return nil, &ConfigurationError{"newState", fmt.Errorf("poi "+
			"positions and values must have equal length \n\tpositions(%d) "+
			"\n\tvalues(%d)", len(poiPositions), len(poiValues))}
	}

	if err := checkPoints("rover start", roverStarts); err != nil {
		return nil, &ConfigurationError{"newState", err}
	}
	if err := checkPoints("poi position", poiPositions); err != nil {
		return nil, &ConfigurationError{"newState", err}
	}
	if i, ok := floatutils.Finite(roverHeadings...); !ok {
		return nil, &ConfigurationError{"newState",
			fmt.Errorf("rover heading %d is not finite", i)}
	}
	if i, ok := floatutils.Finite(poiValues...); !ok {
		return nil, &ConfigurationError{"newState",
			fmt.Errorf("poi value %d is not finite", i)}
	}

	s := &State{
		roverStarts:        append([]r2.Vec(nil), roverStarts...),
		roverStartHeadings: make([]float64, len(roverHeadings)),
		roverPositions:     make([]r2.Vec, len(roverStarts)),
		roverHeadings:      make([]float64, len(roverHeadings)),
		poiPositions:       append([]r2.Vec(nil), poiPositions...),
		poiValues:          append([]float64(nil), poiValues...),
	}
	for i, h := range roverHeadings {
		s.roverStartHeadings[i] = floatutils.WrapInterval(h, headingBounds)
	}
	s.Reset()

	return s, nil
}

// Reset moves every rover back to its configured start position and
// heading. POIs never move, so they are left untouched.
func (s *State) Reset() {
	copy(s.roverPositions, s.roverStarts)
	copy(s.roverHeadings, s.roverStartHeadings)
}

// SetRoverStarts replaces the start positions used by Reset. The new
// starts take effect at the next Reset.
func (s *State) SetRoverStarts(starts []r2.Vec) error {
	if len(starts) != len(s.roverStarts) {
		return &ValidationError{"setRoverStarts", fmt.Errorf("illegal "+
			"number of starts \n\twant(%d) \n\thave(%d)", len(s.roverStarts),
			len(starts))}
	}
	if err := checkPoints("rover start", starts); err != nil {
		return &ValidationError{"setRoverStarts", err}
	}

	copy(s.roverStarts, starts)
	return nil
}

// NumRovers returns the number of rovers in the State
func (s *State) NumRovers() int {
	return len(s.roverPositions)
}

// NumPOIs returns the number of POIs in the State
func (s *State) NumPOIs() int {
	return len(s.poiPositions)
}

// RoverPosition returns the position of rover i
func (s *State) RoverPosition(i int) (r2.Vec, error) {
	if err := s.checkRover("roverPosition", i); err != nil {
		return r2.Vec{}, err
	}
	return s.roverPositions[i], nil
}

// SetRoverPosition sets the position of rover i
func (s *State) SetRoverPosition(i int, p r2.Vec) error {
	if err := s.checkRover("setRoverPosition", i); err != nil {
		return err
	}
	if !floatutils.IsFinite(p.X) || !floatutils.IsFinite(p.Y) {
		return &ValidationError{"setRoverPosition",
			fmt.Errorf("position %v of rover %d is not finite", p, i)}
	}

	s.roverPositions[i] = p
	return nil
}

// RoverHeading returns the heading of rover i in radians, in [0, 2π)
func (s *State) RoverHeading(i int) (float64, error) {
	if err := s.checkRover("roverHeading", i); err != nil {
		return 0, err
	}
	return s.roverHeadings[i], nil
}

// SetRoverHeading sets the heading of rover i. The heading is wrapped
// to [0, 2π).
func (s *State) SetRoverHeading(i int, heading float64) error {
	if err := s.checkRover("setRoverHeading", i); err != nil {
		return err
	}
	if !floatutils.IsFinite(heading) {
		return &ValidationError{"setRoverHeading",
			fmt.Errorf("heading %v of rover %d is not finite", heading, i)}
	}

	s.roverHeadings[i] = floatutils.WrapInterval(heading, headingBounds)
	return nil
}

// POIPosition returns the position of POI j
func (s *State) POIPosition(j int) (r2.Vec, error) {
	if err := s.checkPOI("poiPosition", j); err != nil {
		return r2.Vec{}, err
	}
	return s.poiPositions[j], nil
}

// POIValue returns the value of POI j
func (s *State) POIValue(j int) (float64, error) {
	if err := s.checkPOI("poiValue", j); err != nil {
		return 0, err
	}
	return s.poiValues[j], nil
}

// Copy returns a deep copy of the State
func (s *State) Copy() *State {
	return &State{
		roverStarts:        append([]r2.Vec(nil), s.roverStarts...),
		roverStartHeadings: append([]float64(nil), s.roverStartHeadings...),
		roverPositions:     append([]r2.Vec(nil), s.roverPositions...),
		roverHeadings:      append([]float64(nil), s.roverHeadings...),
		poiPositions:       append([]r2.Vec(nil), s.poiPositions...),
		poiValues:          append([]float64(nil), s.poiValues...),
	}
}

// Validate checks the invariants of the State, returning a
// ValidationError describing the first violation found
func (s *State) Validate() error {
	if s == nil {
		return &ValidationError{"validate", fmt.Errorf("nil state")}
	}
	if len(s.roverPositions) != len(s.roverHeadings) {
		return &ValidationError{"validate", fmt.Errorf("%d rover positions "+
			"but %d rover headings", len(s.roverPositions),
			len(s.roverHeadings))}
	}
	if len(s.poiPositions) != len(s.poiValues) {
		return &ValidationError{"validate", fmt.Errorf("%d poi positions "+
			"but %d poi values", len(s.poiPositions), len(s.poiValues))}
	}
	if err := checkPoints("rover position", s.roverPositions); err != nil {
		return &ValidationError{"validate", err}
	}
	if err := checkPoints("poi position", s.poiPositions); err != nil {
		return &ValidationError{"validate", err}
	}
	if i, ok := floatutils.Finite(s.poiValues...); !ok {
		return &ValidationError{"validate",
			fmt.Errorf("poi value %d is not finite", i)}
	}
	for i, h := range s.roverHeadings {
		if !(h >= headingBounds.Min && h < headingBounds.Max) {
			return &ValidationError{"validate", fmt.Errorf("heading %v of "+
				"rover %d not in [0, 2π)", h, i)}
		}
	}
	return nil
}

// String returns a string representation of the State
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "State  |  Rovers: %d  |  POIs: %d\n", s.NumRovers(),
		s.NumPOIs())
	for i, p := range s.roverPositions {
		fmt.Fprintf(&b, "  rover %d  |  (%.3f, %.3f)  |  θ: %.3f\n", i, p.X,
			p.Y, s.roverHeadings[i])
	}
	for j, p := range s.poiPositions {
		fmt.Fprintf(&b, "  poi %d  |  (%.3f, %.3f)  |  value: %.3f\n", j,
			p.X, p.Y, s.poiValues[j])
	}
	return b.String()
}

func (s *State) checkRover(op string, i int) error {
	if i < 0 || i >= len(s.roverPositions) {
		return &ValidationError{op, fmt.Errorf("rover index %d out of "+
			"range [0, %d)", i, len(s.roverPositions))}
	}
	return nil
}

func (s *State) checkPOI(op string, j int) error {
	if j < 0 || j >= len(s.poiPositions) {
		return &ValidationError{op, fmt.Errorf("poi index %d out of "+
			"range [0, %d)", j, len(s.poiPositions))}
	}
	return nil
}

// checkPoints returns an error if any point is not finite
func checkPoints(name string, points []r2.Vec) error {
	for i, p := range points {
		if !floatutils.IsFinite(p.X) || !floatutils.IsFinite(p.Y) {
			return fmt.Errorf("%s %d is not finite: %v", name, i, p)
		}
	}
	return nil
}
