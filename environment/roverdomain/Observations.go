package roverdomain

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/roverdomain/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultSectors is the default number of sensor sectors (quadrants)
const DefaultSectors int = 4

// sectorTolerance is the angular distance in radians below a sector
// boundary within which an angle snaps onto the boundary. It is about a
// thousand times the rounding error of atan2 and of wrapping an angle
// into [0, 2π).
const sectorTolerance float64 = 1e-12

// ObservationsCalculator computes the observations of all rovers from
// a State. Row i of the returned matrix is the observation of rover i.
type ObservationsCalculator interface {
	Observe(s *State) (*mat.Dense, error)
}

// DefaultObservations implements a sector-based sensor. The space
// around each rover is split into sectors angular sectors of equal
// width, where sector k covers the closed-open angular range
// [2πk/sectors, 2π(k+1)/sectors) measured counter clockwise from the
// positive x-axis. If headingRelative is set, angles are measured from
// the rover's heading instead. The ranges are exact up to a tolerance of
// 1e-12 radians: an angle that close below a boundary is binned as if
// it lay on the boundary.
//
// Each sector has two channels, laid out sector-major:
//
//	column 2k   = Σ value / max(d², ε) over POIs in sector k
//	column 2k+1 = Σ 1 / max(d², ε) over other rovers in sector k
//
// Only points at distance d ≤ radius contribute. A point coincident
// with the rover falls in sector 0.
type DefaultObservations struct {
	sectors         int
	radius          float64
	epsilon         float64
	headingRelative bool
}

// NewDefaultObservations returns a new DefaultObservations
func NewDefaultObservations(sectors int, radius, epsilon float64,
	headingRelative bool) (*DefaultObservations, error) {
	if sectors < 1 {
		return nil, &ConfigurationError{"newDefaultObservations",
			fmt.Errorf("number of sectors must be positive, have %d",
				sectors)}
	}
	if radius < 0 || math.IsNaN(radius) {
		return nil, &ConfigurationError{"newDefaultObservations",
			fmt.Errorf("observation radius must be non-negative, have %v",
				radius)}
	}
	if !(epsilon > 0) || !floatutils.IsFinite(epsilon) {
		return nil, &ConfigurationError{"newDefaultObservations",
			fmt.Errorf("epsilon must be positive and finite, have %v",
				epsilon)}
	}

	return &DefaultObservations{
		sectors:         sectors,
		radius:          radius,
		epsilon:         epsilon,
		headingRelative: headingRelative,
	}, nil
}

// ObservationDims returns the length of a single rover's observation
func (o *DefaultObservations) ObservationDims() int {
	return 2 * o.sectors
}

// Sectors returns the number of sensor sectors
func (o *DefaultObservations) Sectors() int {
	return o.sectors
}

// Sector returns the sector an angle in radians falls in
func (o *DefaultObservations) Sector(angle float64) int {
	return sectorOf(angle, o.sectors)
}

// Observe computes the observation of every rover in s
func (o *DefaultObservations) Observe(s *State) (*mat.Dense, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := s.NumRovers()
	if n == 0 {
		return &mat.Dense{}, nil
	}
	obs := mat.NewDense(n, o.ObservationDims(), nil)

	for i, pos := range s.roverPositions {
		row := obs.RawRowView(i)

		var offset float64
		if o.headingRelative {
			offset = s.roverHeadings[i]
		}

		for j, poi := range s.poiPositions {
			dist, sqDist := distance(pos, poi)
			if dist > o.radius {
				continue
			}
			k := o.Sector(bearing(pos, poi) - offset)
			row[2*k] += s.poiValues[j] / math.Max(sqDist, o.epsilon)
		}

		for m, other := range s.roverPositions {
			if m == i {
				continue
			}
			dist, sqDist := distance(pos, other)
			if dist > o.radius {
				continue
			}
			k := o.Sector(bearing(pos, other) - offset)
			row[2*k+1] += 1 / math.Max(sqDist, o.epsilon)
		}
	}

	return obs, nil
}

// sectorOf returns the sector out of sectors equal-width sectors which
// angle falls in
func sectorOf(angle float64, sectors int) int {
	angle = floatutils.WrapInterval(angle, headingBounds)
	width := headingBounds.Max / float64(sectors)

	k := int(math.Floor((angle + sectorTolerance) / width))
	if k >= sectors {
		// Just below 2π, which snaps onto the boundary of sector 0
		k = 0
	}
	return k
}

// bearing returns the angle of to as seen from from, counter clockwise
// from the positive x-axis. Coincident points have bearing 0.
func bearing(from, to r2.Vec) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// distance returns the euclidean distance between a and b and its
// square
func distance(a, b r2.Vec) (float64, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Hypot(dx, dy), dx*dx + dy*dy
}
