package roverdomain

import (
	"math"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("default config: %v", err)
	}
}

func TestConfigNormalize(t *testing.T) {
	c := Config{
		RoverStarts:  []Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		POIPositions: []Point{{X: 5, Y: 5}},
		POIValues:    []float64{1},
		Discount:     Float(0.5),
	}
	c.Normalize()

	if c.NumRovers != 3 {
		t.Errorf("rovers: \n\twant(3) \n\thave(%d)", c.NumRovers)
	}
	if c.NumPOIs != 1 {
		t.Errorf("pois: \n\twant(1) \n\thave(%d)", c.NumPOIs)
	}
	if c.Sectors != DefaultSectors || *c.Epsilon != DefaultEpsilon {
		t.Errorf("sensing defaults: have %d sectors and epsilon %v",
			c.Sectors, *c.Epsilon)
	}
	if c.Coupling != 1 || c.Evaluator != Global || c.Window != StepWindow {
		t.Errorf("evaluation defaults: have coupling %d, evaluator %q and "+
			"window %q", c.Coupling, c.Evaluator, c.Window)
	}
	if *c.Discount != 0.5 {
		t.Errorf("discount should not change: \n\twant(0.5) \n\thave(%v)",
			*c.Discount)
	}
}

func TestConfigRadius(t *testing.T) {
	c := DefaultConfig()
	if c.Radius() != c.ObservationRadius {
		t.Errorf("radius without capture radius: \n\twant(%v) \n\thave(%v)",
			c.ObservationRadius, c.Radius())
	}

	c.CaptureRadius = 1.5
	if c.Radius() != 1.5 {
		t.Errorf("capture radius: \n\twant(1.5) \n\thave(%v)", c.Radius())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"missing rover start", func(c *Config) { c.NumRovers = 3 }},
		{"heading count", func(c *Config) { c.RoverHeadings = []float64{0} }},
		{"NaN heading", func(c *Config) {
			c.RoverHeadings = []float64{0, math.NaN()}
		}},
		{"poi values", func(c *Config) { c.POIValues = c.POIValues[:3] }},
		{"infinite poi", func(c *Config) {
			c.POIPositions[0] = Point{X: math.Inf(1), Y: 0}
		}},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"NaN height", func(c *Config) { c.Height = math.NaN() }},
		{"start outside world", func(c *Config) {
			c.RoverStarts[1] = Point{X: 11, Y: 5}
		}},
		{"start bounds outside world", func(c *Config) {
			c.RoverStarts = nil
			c.StartBounds = &Bounds{MinX: 0, MaxX: 20, MinY: 0, MaxY: 1}
		}},
		{"unordered start bounds", func(c *Config) {
			c.RoverStarts = nil
			c.StartBounds = &Bounds{MinX: 3, MaxX: 2, MinY: 0, MaxY: 1}
		}},
		{"negative radius", func(c *Config) { c.ObservationRadius = -1 }},
		{"negative capture radius", func(c *Config) { c.CaptureRadius = -1 }},
		{"zero sectors", func(c *Config) { c.Sectors = 0 }},
		{"zero epsilon", func(c *Config) { c.Epsilon = Float(0) }},
		{"negative epsilon", func(c *Config) { c.Epsilon = Float(-0.1) }},
		{"negative max speed", func(c *Config) { c.MaxSpeed = -2 }},
		{"zero episode length", func(c *Config) { c.EpisodeLength = 0 }},
		{"unknown evaluator", func(c *Config) { c.Evaluator = "local" }},
		{"difference without rovers", func(c *Config) {
			c.RoverStarts = nil
			c.NumRovers = 0
			c.Evaluator = Difference
		}},
		{"unknown window", func(c *Config) { c.Window = "forever" }},
		{"zero coupling", func(c *Config) { c.Coupling = 0 }},
		{"discount above one", func(c *Config) { c.Discount = Float(1.5) }},
		{"NaN discount", func(c *Config) { c.Discount = Float(math.NaN()) }},
	}

	for _, test := range tests {
		c := DefaultConfig()
		test.modify(&c)

		if err := c.Validate(); !IsConfigurationError(err) {
			t.Errorf("%s: expected ConfigurationError, have %v", test.name,
				err)
		}
	}
}

func TestConfigRandomStarts(t *testing.T) {
	c := DefaultConfig()
	if c.RandomStarts() {
		t.Errorf("fixed starts should not be random")
	}

	c.StartBounds = &Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	if c.RandomStarts() {
		t.Errorf("explicit rover starts take precedence over start bounds")
	}

	c.RoverStarts = nil
	if !c.RandomStarts() {
		t.Errorf("start bounds without rover starts should be random")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("random starts: %v", err)
	}
}

func TestConfigUnsetDefaults(t *testing.T) {
	c := singleRoverConfig()
	c.Discount = nil
	c.Epsilon = nil

	r := newTestDomain(t, c)
	if d := r.DiscountSpec().LowerBound.AtVec(0); d != 1 {
		t.Errorf("unset discount: \n\twant(1) \n\thave(%v)", d)
	}
	if eps := r.Config().EpsilonValue(); eps != DefaultEpsilon {
		t.Errorf("unset epsilon: \n\twant(%v) \n\thave(%v)", DefaultEpsilon,
			eps)
	}

	// Unnormalized configs report the same defaults
	if c.DiscountValue() != 1 || c.EpsilonValue() != DefaultEpsilon {
		t.Errorf("accessors: have discount %v and epsilon %v",
			c.DiscountValue(), c.EpsilonValue())
	}
}

func TestConfigExplicitZeros(t *testing.T) {
	c := singleRoverConfig()
	c.Epsilon = Float(0)
	if _, err := New(c); !IsConfigurationError(err) {
		t.Errorf("zero epsilon: expected ConfigurationError, have %v", err)
	}

	c = singleRoverConfig()
	c.Discount = Float(0)
	r := newTestDomain(t, c)
	if d := r.DiscountSpec().LowerBound.AtVec(0); d != 0 {
		t.Errorf("zero discount: \n\twant(0) \n\thave(%v)", d)
	}
}
