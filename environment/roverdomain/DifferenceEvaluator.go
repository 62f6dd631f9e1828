package roverdomain

import (
	"fmt"

	"github.com/samuelfneumann/roverdomain/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// DifferenceEvaluator credits each rover with its difference reward
//
//	D_i = G(all rovers) - G(all rovers except i)
//
// where G is computed by an embedded GlobalEvaluator over the same
// window. Removing rover i removes its position from the search of
// every POI over every State in the window and changes nothing else.
// Computing all difference rewards takes N+1 evaluations of G.
//
// Difference rewards are not additive: the sum of D_i need not equal G.
// The team reward reported alongside the difference rewards is G.
type DifferenceEvaluator struct {
	*GlobalEvaluator
	rovers int
}

// NewDifferenceEvaluator returns a new DifferenceEvaluator for a team
// of rovers rovers. Difference rewards are undefined without rovers, so
// rovers must be positive.
func NewDifferenceEvaluator(global *GlobalEvaluator,
	rovers int) (*DifferenceEvaluator, error) {
	if global == nil {
		return nil, &ConfigurationError{"newDifferenceEvaluator",
			fmt.Errorf("nil global evaluator")}
	}
	if rovers < 1 {
		return nil, &ConfigurationError{"newDifferenceEvaluator",
			fmt.Errorf("difference rewards need at least one rover, "+
				"have %d", rovers)}
	}

	return &DifferenceEvaluator{global, rovers}, nil
}

// Evaluate returns the team reward G and the difference reward of
// each rover
func (d *DifferenceEvaluator) Evaluate(history []*State, done bool) (float64,
	*mat.VecDense, error) {
	window, evaluate, err := d.selectWindow(history, done)
	if err != nil {
		return 0, nil, err
	}
	if n := history[0].NumRovers(); n != d.rovers {
		return 0, nil, &ValidationError{"evaluate", fmt.Errorf("illegal "+
			"number of rovers \n\twant(%d) \n\thave(%d)", d.rovers, n)}
	}
	if !evaluate {
		return 0, matutils.VecFilled(d.rovers, 0), nil
	}

	team := d.Global(window, NoExclusion)
	diffs := mat.NewVecDense(d.rovers, nil)
	for i := 0; i < d.rovers; i++ {
		diffs.SetVec(i, team-d.Global(window, i))
	}

	return team, diffs, nil
}
