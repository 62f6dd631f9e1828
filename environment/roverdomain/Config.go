package roverdomain

import (
	"fmt"

	"github.com/samuelfneumann/roverdomain/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// EvaluatorType names an evaluator that can be configured
type EvaluatorType string

// Evaluators available for configuration
const (
	Global     EvaluatorType = "global"
	Difference EvaluatorType = "difference"
)

// DefaultEpsilon is the default lower bound on squared distances used
// when weighting observations and rewards by inverse square distance
const DefaultEpsilon float64 = 0.01

// Point is a serializable 2-D coordinate
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Vec converts the Point to an r2.Vec
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Bounds is a serializable axis-aligned box
type Bounds struct {
	MinX float64 `yaml:"min_x" json:"min_x"`
	MaxX float64 `yaml:"max_x" json:"max_x"`
	MinY float64 `yaml:"min_y" json:"min_y"`
	MaxY float64 `yaml:"max_y" json:"max_y"`
}

// Intervals returns the extent of the box along the x and y axes
func (b Bounds) Intervals() (x, y r1.Interval) {
	return r1.Interval{Min: b.MinX, Max: b.MaxX},
		r1.Interval{Min: b.MinY, Max: b.MaxY}
}

// Config describes a rover domain. Configurations are YAML and JSON
// serializable.
//
// Rovers start at RoverStarts on every reset. If StartBounds is set and
// RoverStarts is empty, rover starts are instead sampled uniformly from
// StartBounds on every reset using Seed. RoverHeadings may be empty, in
// which case all rovers start with heading 0.
//
// CaptureRadius is the radius used for rewards. If it is 0 the
// ObservationRadius is used.
//
// Epsilon and Discount are pointers so that an unset value can be told
// apart from an explicit 0. Unset, they default to DefaultEpsilon and 1
// whether the Config is built in code or decoded from a file. An
// explicit Epsilon of 0 is invalid, an explicit Discount of 0 is not.
type Config struct {
	NumRovers     int       `yaml:"num_rovers" json:"num_rovers"`
	RoverStarts   []Point   `yaml:"rover_starts,omitempty" json:"rover_starts,omitempty"`
	RoverHeadings []float64 `yaml:"rover_headings,omitempty" json:"rover_headings,omitempty"`
	StartBounds   *Bounds   `yaml:"start_bounds,omitempty" json:"start_bounds,omitempty"`

	NumPOIs      int       `yaml:"num_pois" json:"num_pois"`
	POIPositions []Point   `yaml:"poi_positions,omitempty" json:"poi_positions,omitempty"`
	POIValues    []float64 `yaml:"poi_values,omitempty" json:"poi_values,omitempty"`

	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`

	ObservationRadius float64  `yaml:"observation_radius" json:"observation_radius"`
	CaptureRadius     float64  `yaml:"capture_radius,omitempty" json:"capture_radius,omitempty"`
	Sectors           int      `yaml:"sectors" json:"sectors"`
	Epsilon           *float64 `yaml:"epsilon,omitempty" json:"epsilon,omitempty"`
	HeadingRelative   bool     `yaml:"heading_relative,omitempty" json:"heading_relative,omitempty"`
	MaxSpeed          float64  `yaml:"max_speed,omitempty" json:"max_speed,omitempty"`

	EpisodeLength int           `yaml:"episode_length" json:"episode_length"`
	Evaluator     EvaluatorType `yaml:"evaluator" json:"evaluator"`
	Window        Window        `yaml:"window" json:"window"`
	Coupling      int           `yaml:"coupling" json:"coupling"`
	Discount      *float64      `yaml:"discount,omitempty" json:"discount,omitempty"`
	Seed          uint64        `yaml:"seed" json:"seed"`
}

// DefaultConfig returns a small two-rover, four-POI domain
func DefaultConfig() Config {
	return Config{
		NumRovers:   2,
		RoverStarts: []Point{{X: 4, Y: 5}, {X: 6, Y: 5}},
		NumPOIs:     4,
		POIPositions: []Point{
			{X: 1, Y: 1}, {X: 9, Y: 1}, {X: 1, Y: 9}, {X: 9, Y: 9},
		},
		POIValues:         []float64{1, 2, 3, 4},
		Width:             10,
		Height:            10,
		ObservationRadius: 5,
		Sectors:           DefaultSectors,
		Epsilon:           Float(DefaultEpsilon),
		EpisodeLength:     50,
		Evaluator:         Global,
		Window:            StepWindow,
		Coupling:          1,
		Discount:          Float(1.0),
	}
}

// Float returns a pointer to v, for setting the optional fields of a
// Config
func Float(v float64) *float64 {
	return &v
}

// Normalize fills in unset optional fields with their defaults
func (c *Config) Normalize() {
	if c.NumRovers == 0 {
		c.NumRovers = len(c.RoverStarts)
	}
	if c.NumPOIs == 0 {
		c.NumPOIs = len(c.POIPositions)
	}
	if c.Sectors == 0 {
		c.Sectors = DefaultSectors
	}
	if c.Epsilon == nil {
		c.Epsilon = Float(DefaultEpsilon)
	}
	if c.Discount == nil {
		c.Discount = Float(1.0)
	}
	if c.Coupling == 0 {
		c.Coupling = 1
	}
	if c.Evaluator == "" {
		c.Evaluator = Global
	}
	if c.Window == "" {
		c.Window = StepWindow
	}
}

// Radius returns the radius used for evaluating rewards
func (c Config) Radius() float64 {
	if c.CaptureRadius == 0 {
		return c.ObservationRadius
	}
	return c.CaptureRadius
}

// EpsilonValue returns the configured epsilon, or DefaultEpsilon if
// it is unset
func (c Config) EpsilonValue() float64 {
	if c.Epsilon == nil {
		return DefaultEpsilon
	}
	return *c.Epsilon
}

// DiscountValue returns the configured discount, or 1 if it is unset
func (c Config) DiscountValue() float64 {
	if c.Discount == nil {
		return 1.0
	}
	return *c.Discount
}

// RandomStarts returns whether rover starts are sampled on each reset
func (c Config) RandomStarts() bool {
	return c.StartBounds != nil && len(c.RoverStarts) == 0
}

// Validate checks the configuration, returning a ConfigurationError
// describing the first problem found
func (c Config) Validate() error {
	if err := c.validate(); err != nil {
		return &ConfigurationError{"validate", err}
	}
	return nil
}

func (c Config) validate() error {
	if c.NumRovers < 0 {
		return fmt.Errorf("number of rovers must be non-negative, have %d",
			c.NumRovers)
	}
	if !c.RandomStarts() && len(c.RoverStarts) != c.NumRovers {
		return fmt.Errorf("illegal number of rover starts \n\twant(%d) "+
			"\n\thave(%d)", c.NumRovers, len(c.RoverStarts))
	}
	if len(c.RoverHeadings) != 0 && len(c.RoverHeadings) != c.NumRovers {
		return fmt.Errorf("illegal number of rover headings \n\twant(%d) "+
			"\n\thave(%d)", c.NumRovers, len(c.RoverHeadings))
	}
	if i, ok := floatutils.Finite(c.RoverHeadings...); !ok {
		return fmt.Errorf("rover heading %d is not finite", i)
	}

	if c.NumPOIs < 0 {
		return fmt.Errorf("number of pois must be non-negative, have %d",
			c.NumPOIs)
	}
	if len(c.POIPositions) != c.NumPOIs || len(c.POIValues) != c.NumPOIs {
		return fmt.Errorf("illegal poi configuration: %d pois, %d "+
			"positions, %d values", c.NumPOIs, len(c.POIPositions),
			len(c.POIValues))
	}
	for j, p := range c.POIPositions {
		if _, ok := floatutils.Finite(p.X, p.Y); !ok {
			return fmt.Errorf("poi position %d is not finite: %v", j, p)
		}
	}
	if i, ok := floatutils.Finite(c.POIValues...); !ok {
		return fmt.Errorf("poi value %d is not finite", i)
	}

	if _, ok := floatutils.Finite(c.Width, c.Height); !ok ||
		!(c.Width > 0) || !(c.Height > 0) {
		return fmt.Errorf("world bounds must be positive and finite, have "+
			"(%v, %v)", c.Width, c.Height)
	}
	x := r1.Interval{Min: 0, Max: c.Width}
	y := r1.Interval{Min: 0, Max: c.Height}
	for i, p := range c.RoverStarts {
		if !inInterval(p.X, x) || !inInterval(p.Y, y) {
			return fmt.Errorf("rover start %d %v outside world bounds "+
				"(%v, %v)", i, p, c.Width, c.Height)
		}
	}
	if c.StartBounds != nil {
		bx, by := c.StartBounds.Intervals()
		if !inInterval(bx.Min, x) || !inInterval(bx.Max, x) ||
			!inInterval(by.Min, y) || !inInterval(by.Max, y) ||
			bx.Min > bx.Max || by.Min > by.Max {
			return fmt.Errorf("start bounds %+v must be an ordered box "+
				"inside the world", *c.StartBounds)
		}
	}

	if _, ok := floatutils.Finite(c.ObservationRadius,
		c.CaptureRadius); !ok || c.ObservationRadius < 0 ||
		c.CaptureRadius < 0 {
		return fmt.Errorf("radii must be non-negative and finite, have "+
			"observation radius %v and capture radius %v",
			c.ObservationRadius, c.CaptureRadius)
	}
	if c.Sectors < 1 {
		return fmt.Errorf("number of sectors must be positive, have %d",
			c.Sectors)
	}
	if eps := c.EpsilonValue(); !(eps > 0) || !floatutils.IsFinite(eps) {
		return fmt.Errorf("epsilon must be positive and finite, have %v",
			eps)
	}
	if c.MaxSpeed < 0 || !floatutils.IsFinite(c.MaxSpeed) {
		return fmt.Errorf("max speed must be non-negative and finite, "+
			"have %v", c.MaxSpeed)
	}

	if c.EpisodeLength < 1 {
		return fmt.Errorf("episode length must be positive, have %d",
			c.EpisodeLength)
	}
	switch c.Evaluator {
	case Global:
	case Difference:
		if c.NumRovers < 1 {
			return fmt.Errorf("difference evaluator needs at least one " +
				"rover")
		}
	default:
		return fmt.Errorf("unknown evaluator %q", c.Evaluator)
	}
	if c.Window != StepWindow && c.Window != EpisodeWindow {
		return fmt.Errorf("unknown evaluation window %q", c.Window)
	}
	if c.Coupling < 1 {
		return fmt.Errorf("coupling must be at least 1, have %d",
			c.Coupling)
	}
	if d := c.DiscountValue(); !(d >= 0 && d <= 1) {
		return fmt.Errorf("discount must be in [0, 1], have %v", d)
	}
	return nil
}

// roverStarts returns the configured rover starts as vectors
func (c Config) roverStarts() []r2.Vec {
	starts := make([]r2.Vec, c.NumRovers)
	for i := range starts {
		if i < len(c.RoverStarts) {
			starts[i] = c.RoverStarts[i].Vec()
		} else if c.StartBounds != nil {
			// Placeholder until the first sampled start
			starts[i] = r2.Vec{X: c.StartBounds.MinX, Y: c.StartBounds.MinY}
		}
	}
	return starts
}

// poiPositions returns the configured poi positions as vectors
func (c Config) poiPositions() []r2.Vec {
	positions := make([]r2.Vec, len(c.POIPositions))
	for j, p := range c.POIPositions {
		positions[j] = p.Vec()
	}
	return positions
}

func inInterval(v float64, i r1.Interval) bool {
	return v >= i.Min && v <= i.Max
}
