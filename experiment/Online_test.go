package experiment

import (
	"io"
	"log"
	"sync"
	"testing"

	env "github.com/samuelfneumann/roverdomain/environment"
	"github.com/samuelfneumann/roverdomain/environment/roverdomain"
	"github.com/samuelfneumann/roverdomain/experiment/tracker"
	ts "github.com/samuelfneumann/roverdomain/timestep"
	"gonum.org/v1/gonum/mat"
)

func quiet(o *Online) *Online {
	o.SetLogger(log.New(io.Discard, "", 0))
	return o
}

func newTestExperiment(t *testing.T, c roverdomain.Config, episodes int,
	seed uint64, trackers ...tracker.Tracker) *Online {
	t.Helper()

	r, err := roverdomain.New(c)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewRandomPolicy(r.ActionSpec(), seed)
	if err != nil {
		t.Fatal(err)
	}
	return quiet(NewOnline(r, p, episodes, trackers...))
}

func TestOnlineRunsAllEpisodes(t *testing.T) {
	c := roverdomain.DefaultConfig()
	c.EpisodeLength = 7

	lengths := tracker.NewEpisodeLength()
	returns := tracker.NewReturn()
	o := newTestExperiment(t, c, 4, 1, lengths, returns)

	if err := o.Run(); err != nil {
		t.Fatal(err)
	}

	have := lengths.Lengths()
	if len(have) != 4 {
		t.Fatalf("episodes: \n\twant(4) \n\thave(%d)", len(have))
	}
	for i, l := range have {
		if l != 7 {
			t.Errorf("episode %d length: \n\twant(7) \n\thave(%d)", i, l)
		}
	}
	if len(returns.Returns()) != 4 {
		t.Errorf("returns: \n\twant(4) \n\thave(%d)", len(returns.Returns()))
	}

	// Running a finished experiment does nothing
	ended, err := o.RunEpisode()
	if err != nil || !ended {
		t.Errorf("finished experiment: have ended = %v and err = %v", ended,
			err)
	}
	if len(lengths.Lengths()) != 4 {
		t.Errorf("a finished experiment should not run more episodes")
	}
}

func TestOnlineRegister(t *testing.T) {
	c := roverdomain.DefaultConfig()
	c.EpisodeLength = 3
	o := newTestExperiment(t, c, 2, 1)

	if _, err := o.RunEpisode(); err != nil {
		t.Fatal(err)
	}

	lengths := tracker.NewEpisodeLength()
	o.Register(lengths)
	if err := o.Run(); err != nil {
		t.Fatal(err)
	}

	if l := lengths.Lengths(); len(l) != 1 {
		t.Errorf("late tracker episodes: \n\twant(1) \n\thave(%d)", len(l))
	}
}

func TestOnlineRoverReturnsMatchTeamReturn(t *testing.T) {
	c := roverdomain.DefaultConfig()
	c.EpisodeLength = 10

	team := tracker.NewReturn()
	rovers := tracker.NewRoverReturn()
	o := newTestExperiment(t, c, 3, 5, team, rovers)
	if err := o.Run(); err != nil {
		t.Fatal(err)
	}

	// With the global evaluator, every rover is credited the team reward
	for i, r := range rovers.Returns() {
		for j := range r {
			if r[j] != team.Returns()[i] {
				t.Errorf("episode %d rover %d: \n\twant(%v) \n\thave(%v)", i,
					j, team.Returns()[i], r[j])
			}
		}
	}
}

// failingPolicy selects actions of the wrong size
type failingPolicy struct{}

func (failingPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, nil)
}

func TestOnlineReturnsStepErrors(t *testing.T) {
	r, err := roverdomain.New(roverdomain.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	o := quiet(NewOnline(r, failingPolicy{}, 1))

	err = o.Run()
	if !roverdomain.IsValidationError(err) {
		t.Errorf("expected a wrapped ValidationError, have %v", err)
	}
}

func TestIndependentExperimentsRunConcurrently(t *testing.T) {
	c := roverdomain.DefaultConfig()
	c.EpisodeLength = 25
	c.Evaluator = roverdomain.Difference
	const runs = 4

	// Sequential reference runs
	want := make([][]float64, runs)
	for i := range want {
		returns := tracker.NewReturn()
		o := newTestExperiment(t, c, 3, uint64(i), returns)
		if err := o.Run(); err != nil {
			t.Fatal(err)
		}
		want[i] = returns.Returns()
	}

	have := make([]*tracker.Return, runs)
	experiments := make([]*Online, runs)
	for i := range experiments {
		have[i] = tracker.NewReturn()
		experiments[i] = newTestExperiment(t, c, 3, uint64(i), have[i])
	}

	var wg sync.WaitGroup
	errs := make([]error, runs)
	for i := range experiments {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = experiments[i].Run()
		}(i)
	}
	wg.Wait()

	for i := range experiments {
		if errs[i] != nil {
			t.Fatalf("run %d: %v", i, errs[i])
		}
		returns := have[i].Returns()
		for j := range want[i] {
			if returns[j] != want[i][j] {
				t.Errorf("run %d episode %d: \n\twant(%v) \n\thave(%v)", i, j,
					want[i][j], returns[j])
			}
		}
	}
}

func TestRandomPolicy(t *testing.T) {
	c := roverdomain.DefaultConfig()
	c.MaxSpeed = 0.25
	r, err := roverdomain.New(c)
	if err != nil {
		t.Fatal(err)
	}

	p1, err := NewRandomPolicy(r.ActionSpec(), 3)
	if err != nil {
		t.Fatal(err)
	}
	p2, _ := NewRandomPolicy(r.ActionSpec(), 3)

	for i := 0; i < 50; i++ {
		a1 := p1.SelectAction(ts.TimeStep{})
		a2 := p2.SelectAction(ts.TimeStep{})

		if !mat.Equal(a1, a2) {
			t.Errorf("equal seeds should select equal actions")
		}
		if a1.Len() != c.NumRovers*roverdomain.ActionDims {
			t.Fatalf("action length: \n\twant(%d) \n\thave(%d)",
				c.NumRovers*roverdomain.ActionDims, a1.Len())
		}
		for j := 0; j < a1.Len(); j++ {
			if v := a1.AtVec(j); v < -0.25 || v > 0.25 {
				t.Errorf("action %v outside the action bounds", v)
			}
		}
	}

	if _, err := NewRandomPolicy(r.RewardSpec(), 3); err == nil {
		t.Errorf("expected an error creating a policy from a reward spec")
	}
}

func TestRandomPolicyWithoutRovers(t *testing.T) {
	empty := &mat.VecDense{}
	spec := env.NewSpec(empty, env.Action, empty, empty, 0, env.Continuous)

	p, err := NewRandomPolicy(spec, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a := p.SelectAction(ts.TimeStep{}); a != nil {
		t.Errorf("expected a nil action without rovers, have %v", a)
	}
}

func TestCreateExp(t *testing.T) {
	lengths := tracker.NewEpisodeLength()
	c := Config{
		Type:     OnlineExp,
		Episodes: 2,
		Seed:     9,
		EnvConf:  roverdomain.DefaultConfig(),
	}

	e, err := c.CreateExp(lengths)
	if err != nil {
		t.Fatal(err)
	}
	quiet(e.(*Online))
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(lengths.Lengths()) != 2 {
		t.Errorf("episodes: \n\twant(2) \n\thave(%d)", len(lengths.Lengths()))
	}

	c.Type = "offline"
	if _, err := c.CreateExp(); err == nil {
		t.Errorf("expected an error for an unknown experiment type")
	}

	c.Type = OnlineExp
	c.EnvConf.Width = -1
	if _, err := c.CreateExp(); !roverdomain.IsConfigurationError(err) {
		t.Errorf("expected a wrapped ConfigurationError, have %v", err)
	}
}
