package roverdomain

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestDynamicsClampsToWorld(t *testing.T) {
	d, err := NewDefaultDynamics(10, 5, 0)
	if err != nil {
		t.Fatal(err)
	}

	actions := [][]float64{
		{1e6, 1e6},
		{-1e6, -1e6},
		{1e6, -3},
		{-0.5, 1e9},
		{math.MaxFloat64, -math.MaxFloat64},
	}

	for _, a := range actions {
		s := newTestState(t, []r2.Vec{{X: 5, Y: 2.5}}, nil, nil)
		if err := d.Process(s, mat.NewVecDense(2, a)); err != nil {
			t.Fatalf("process %v: %v", a, err)
		}

		p, _ := s.RoverPosition(0)
		if p.X < 0 || p.X > 10 || p.Y < 0 || p.Y > 5 {
			t.Errorf("action %v: position %v left the world", a, p)
		}
	}

	// Moving along the boundary stops only the blocked axis
	s := newTestState(t, []r2.Vec{{X: 10, Y: 1}}, nil, nil)
	if err := d.Process(s, mat.NewVecDense(2, []float64{3, 2})); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.RoverPosition(0); p != (r2.Vec{X: 10, Y: 3}) {
		t.Errorf("boundary motion: \n\twant(%v) \n\thave(%v)",
			r2.Vec{X: 10, Y: 3}, p)
	}
}

func TestDynamicsZeroActionKeepsPositionAndHeading(t *testing.T) {
	d, _ := NewDefaultDynamics(10, 10, 0)
	s, err := NewState([]r2.Vec{{X: 3, Y: 4}}, []float64{1.25}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Process(s, mat.NewVecDense(2, nil)); err != nil {
		t.Fatal(err)
	}

	if p, _ := s.RoverPosition(0); p != (r2.Vec{X: 3, Y: 4}) {
		t.Errorf("zero action position: \n\twant(%v) \n\thave(%v)",
			r2.Vec{X: 3, Y: 4}, p)
	}
	if h, _ := s.RoverHeading(0); h != 1.25 {
		t.Errorf("zero action heading: \n\twant(1.25) \n\thave(%v)", h)
	}
}

func TestDynamicsHeadingFollowsMovement(t *testing.T) {
	d, _ := NewDefaultDynamics(10, 10, 0)

	tests := []struct {
		dx, dy, heading float64
	}{
		{1, 0, 0},
		{0, 1, math.Pi / 2},
		{-1, 0, math.Pi},
		{0, -1, 3 * math.Pi / 2},
		{1, 1, math.Pi / 4},
	}

	for _, test := range tests {
		s := newTestState(t, []r2.Vec{{X: 5, Y: 5}}, nil, nil)
		action := mat.NewVecDense(2, []float64{test.dx, test.dy})
		if err := d.Process(s, action); err != nil {
			t.Fatal(err)
		}

		h, _ := s.RoverHeading(0)
		if math.Abs(h-test.heading) > 1e-12 {
			t.Errorf("heading of (%v, %v): \n\twant(%v) \n\thave(%v)",
				test.dx, test.dy, test.heading, h)
		}
	}
}

func TestDynamicsAllowsOverlap(t *testing.T) {
	d, _ := NewDefaultDynamics(10, 10, 0)
	s := newTestState(t, []r2.Vec{{X: 4, Y: 5}, {X: 6, Y: 5}}, nil, nil)

	action := mat.NewVecDense(4, []float64{1, 0, -1, 0})
	if err := d.Process(s, action); err != nil {
		t.Fatal(err)
	}

	p0, _ := s.RoverPosition(0)
	p1, _ := s.RoverPosition(1)
	if p0 != p1 || p0 != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("rovers should overlap at (5, 5), have %v and %v", p0, p1)
	}
}

func TestDynamicsMaxSpeed(t *testing.T) {
	d, _ := NewDefaultDynamics(100, 100, 2)
	s := newTestState(t, []r2.Vec{{X: 50, Y: 50}}, nil, nil)

	if err := d.Process(s, mat.NewVecDense(2, []float64{30, 40})); err != nil {
		t.Fatal(err)
	}

	p, _ := s.RoverPosition(0)
	if math.Abs(p.X-51.2) > 1e-12 || math.Abs(p.Y-51.6) > 1e-12 {
		t.Errorf("max speed: \n\twant((51.2, 51.6)) \n\thave(%v)", p)
	}
}

func TestDynamicsRejectsMalformedActions(t *testing.T) {
	d, _ := NewDefaultDynamics(10, 10, 0)

	actions := []*mat.VecDense{
		nil,
		mat.NewVecDense(2, []float64{1, 1}),
		mat.NewVecDense(6, nil),
		mat.NewVecDense(4, []float64{1, math.NaN(), 0, 0}),
		mat.NewVecDense(4, []float64{1, 0, math.Inf(-1), 0}),
	}

	for i, a := range actions {
		s := newTestState(t, []r2.Vec{{X: 1, Y: 1}, {X: 2, Y: 2}}, nil, nil)
		before := s.Copy()

		if err := d.Process(s, a); !IsValidationError(err) {
			t.Errorf("action %d: expected ValidationError, have %v", i, err)
		}
		for r := 0; r < s.NumRovers(); r++ {
			have, _ := s.RoverPosition(r)
			want, _ := before.RoverPosition(r)
			if have != want {
				t.Errorf("action %d: state changed by a rejected action", i)
			}
		}
	}
}

func TestNewDefaultDynamicsRejectsBadBounds(t *testing.T) {
	if _, err := NewDefaultDynamics(0, 10, 0); !IsConfigurationError(err) {
		t.Errorf("zero width: expected ConfigurationError, have %v", err)
	}
	if _, err := NewDefaultDynamics(10, 10, -1); !IsConfigurationError(err) {
		t.Errorf("negative speed: expected ConfigurationError, have %v", err)
	}
}
