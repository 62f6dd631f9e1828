package roverdomain

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/roverdomain/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// ActionDims is the number of action dimensions of a single rover. A
// rover action is a world-frame displacement (dx, dy).
const ActionDims int = 2

// DynamicsProcessor integrates rover motion. Process moves the rovers
// of the State in place given the joint action of all rovers. The joint
// action holds ActionDims values per rover, concatenated in rover
// order.
type DynamicsProcessor interface {
	Process(s *State, action *mat.VecDense) error
}

// DefaultDynamics moves each rover by the displacement given in its
// action and hard clamps the result to the world bounds
// [0, width] x [0, height]. Reaching a boundary stops motion along
// that axis for the step. Rovers may overlap; collisions are not
// modelled.
//
// The heading of a rover is the angle of its commanded displacement,
// measured counter clockwise from the positive x-axis and wrapped to
// [0, 2π). A zero displacement leaves the heading unchanged.
//
// If maxSpeed is positive, displacements longer than maxSpeed are
// rescaled to length maxSpeed before being applied.
type DefaultDynamics struct {
	xBounds  r1.Interval
	yBounds  r1.Interval
	maxSpeed float64
}

// NewDefaultDynamics returns a new DefaultDynamics for a world of the
// given width and height
func NewDefaultDynamics(width, height, maxSpeed float64) (*DefaultDynamics,
	error) {
	if !(width > 0) || !(height > 0) || !floatutils.IsFinite(width) ||
		!floatutils.IsFinite(height) {
		return nil, &ConfigurationError{"newDefaultDynamics",
			fmt.Errorf("world bounds must be positive and finite, have "+
				"(%v, %v)", width, height)}
	}
	if maxSpeed < 0 || !floatutils.IsFinite(maxSpeed) {
		return nil, &ConfigurationError{"newDefaultDynamics",
			fmt.Errorf("max speed must be non-negative and finite, have %v",
				maxSpeed)}
	}

	return &DefaultDynamics{
		xBounds:  r1.Interval{Min: 0, Max: width},
		yBounds:  r1.Interval{Min: 0, Max: height},
		maxSpeed: maxSpeed,
	}, nil
}

// Bounds returns the world bounds along the x and y axes
func (d *DefaultDynamics) Bounds() (x, y r1.Interval) {
	return d.xBounds, d.yBounds
}

// Process moves every rover in s according to action. If the action
// is malformed, a ValidationError is returned and s is not modified.
func (d *DefaultDynamics) Process(s *State, action *mat.VecDense) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := validateAction(action, s.NumRovers()); err != nil {
		return err
	}

	for i := range s.roverPositions {
		move := r2.Vec{
			X: action.AtVec(i * ActionDims),
			Y: action.AtVec(i*ActionDims + 1),
		}

		if d.maxSpeed > 0 {
			if norm := math.Hypot(move.X, move.Y); norm > d.maxSpeed {
				scale := d.maxSpeed / norm
				move.X *= scale
				move.Y *= scale
			}
		}

		pos := s.roverPositions[i]
		s.roverPositions[i] = r2.Vec{
			X: floatutils.ClipInterval(pos.X+move.X, d.xBounds),
			Y: floatutils.ClipInterval(pos.Y+move.Y, d.yBounds),
		}

		if move.X != 0 || move.Y != 0 {
			s.roverHeadings[i] = floatutils.WrapInterval(
				math.Atan2(move.Y, move.X), headingBounds)
		}
	}
	return nil
}

// validateAction ensures a joint action has one finite displacement per
// rover
func validateAction(action *mat.VecDense, rovers int) error {
	if action == nil {
		if rovers == 0 {
			return nil
		}
		return &ValidationError{"process", fmt.Errorf("nil action for %d "+
			"rovers", rovers)}
	}

	if l := action.Len(); l != rovers*ActionDims {
		return &ValidationError{"process", fmt.Errorf("illegal action "+
			"length \n\twant(%d) \n\thave(%d)", rovers*ActionDims, l)}
	}
	for i := 0; i < action.Len(); i++ {
		if !floatutils.IsFinite(action.AtVec(i)) {
			return &ValidationError{"process", fmt.Errorf("action "+
				"element %d of rover %d is not finite: %v", i%ActionDims,
				i/ActionDims, action.AtVec(i))}
		}
	}
	return nil
}
