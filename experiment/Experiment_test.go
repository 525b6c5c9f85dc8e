package experiment

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/masterygen/agent/policy"
	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/environment/envconfig"
	"github.com/samuelfneumann/masterygen/environment/mastery"
	"github.com/samuelfneumann/masterygen/experiment/checkpointer"
	"github.com/samuelfneumann/masterygen/experiment/trackers"
	ts "github.com/samuelfneumann/masterygen/timestep"
	"github.com/samuelfneumann/masterygen/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

var _ Experiment = &Online{}

// scripted is a Rand which returns fixed sequences of numbers and
// records the order in which they were drawn
type scripted struct {
	ints   []int
	floats []float64
	calls  []string
}

func (s *scripted) Intn(n int) int {
	s.calls = append(s.calls, "Intn")
	if len(s.ints) == 0 {
		panic("scripted: no ints left")
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i
}

func (s *scripted) Float64() float64 {
	s.calls = append(s.calls, "Float64")
	if len(s.floats) == 0 {
		panic("scripted: no floats left")
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

// fixedStart always starts in the same state
type fixedStart []float64

func (f fixedStart) Start() *mat.VecDense {
	return mat.NewVecDense(len(f), append([]float64(nil), f...))
}

func newFixed(t *testing.T, start []float64, steps int,
	rng environment.Rand) *Online {
	t.Helper()

	task := mastery.NewPractice(fixedStart(start), steps, mastery.GoalMastery)
	env, _, err := mastery.New(task, mastery.DefaultDynamics(), len(start),
		rng)
	if err != nil {
		t.Fatal(err)
	}
	return NewOnline(env, policy.NewUniform(rng, env))
}

func equalFields(t *testing.T, got ts.Transition, want []float64) {
	t.Helper()

	fields := got.Fields()
	if len(fields) != len(want) {
		t.Fatalf("row = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("row = %v, want %v", fields, want)
		}
	}
}

func TestGenerateEpisodeProgressScenario(t *testing.T) {
	rng := &scripted{ints: []int{0}, floats: []float64{0.5, 0.95}}

	episode, err := GenerateEpisode(3, 1, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(episode) != 1 {
		t.Fatalf("rows = %v, want 1", len(episode))
	}

	equalFields(t, episode[0], []float64{0.6, 0.6, 0.7, 0, 0.2, 0.7, 0.6, 0.7})
	if episode[0].EndType != ts.Timeout {
		t.Errorf("end = %v, want %v", episode[0].EndType, ts.Timeout)
	}
}

func TestRegressScenario(t *testing.T) {
	rng := &scripted{ints: []int{0}, floats: []float64{0.05}}
	exp := newFixed(t, []float64{0.5}, 1, rng)

	episode, err := exp.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if len(episode) != 1 {
		t.Fatalf("rows = %v, want 1", len(episode))
	}

	// 0.45 rounds half up to 0.5
	equalFields(t, episode[0], []float64{0.5, 0, 0.9, 0.5})
}

func TestMasteredStartProducesOneRow(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		exp := newFixed(t, []float64{0.9, 0.9, 0.9}, 5,
			environment.NewRand(seed))

		episode, err := exp.RunEpisode()
		if err != nil {
			t.Fatal(err)
		}
		if len(episode) != 1 {
			t.Fatalf("seed %v: rows = %v, want 1", seed, len(episode))
		}
		if episode[0].EndType != ts.TerminalStateReached {
			t.Errorf("seed %v: end = %v, want %v", seed, episode[0].EndType,
				ts.TerminalStateReached)
		}
	}
}

func TestDrawOrder(t *testing.T) {
	tests := []struct {
		name   string
		rng    *scripted
		action int
		want   []string
	}{
		{
			name:   "biased action",
			rng:    &scripted{ints: []int{1}, floats: []float64{0.5, 0.95}},
			action: 1,
			want:   []string{"Intn", "Float64", "Float64"},
		},
		{
			name:   "unbiased action",
			rng:    &scripted{ints: []int{2}, floats: []float64{0.5}},
			action: 2,
			want:   []string{"Intn", "Float64"},
		},
		{
			name:   "early regression",
			rng:    &scripted{ints: []int{0}, floats: []float64{0.05}},
			action: 0,
			want:   []string{"Intn", "Float64"},
		},
	}

	for _, test := range tests {
		episode, err := GenerateEpisode(3, 1, test.rng)
		if err != nil {
			t.Fatalf("%v: %v", test.name, err)
		}
		if episode[0].Action != test.action {
			t.Errorf("%v: action = %v, want %v", test.name, episode[0].Action,
				test.action)
		}
		if len(test.rng.calls) != len(test.want) {
			t.Fatalf("%v: draws = %v, want %v", test.name, test.rng.calls,
				test.want)
		}
		for i := range test.want {
			if test.rng.calls[i] != test.want[i] {
				t.Errorf("%v: draws = %v, want %v", test.name, test.rng.calls,
					test.want)
			}
		}
	}
}

func TestGenerateEpisodeConfigErrors(t *testing.T) {
	configs := [][2]int{{0, 10}, {-1, 10}, {3, 0}, {3, -5}}

	for _, c := range configs {
		rng := &scripted{}
		episode, err := GenerateEpisode(c[0], c[1], rng)
		if !environment.IsConfigError(err) {
			t.Errorf("%v: expected config error, got %v", c, err)
		}
		if episode != nil {
			t.Errorf("%v: expected no rows, got %v", c, episode)
		}
		if len(rng.calls) != 0 {
			t.Errorf("%v: nothing should be drawn, got %v", c, rng.calls)
		}
	}
}

func TestGenerateEpisodeProperties(t *testing.T) {
	const stepCap = 40

	for _, concepts := range []int{1, 3, 5} {
		for seed := uint64(0); seed < 25; seed++ {
			episode, err := GenerateEpisode(concepts, stepCap,
				environment.NewRand(seed))
			if err != nil {
				t.Fatal(err)
			}
			checkEpisode(t, concepts, stepCap, episode)
		}
	}
}

func checkEpisode(t *testing.T, concepts, stepCap int,
	episode []ts.Transition) {
	t.Helper()

	if len(episode) == 0 || len(episode) > stepCap {
		t.Fatalf("rows = %v, want in [1, %v]", len(episode), stepCap)
	}

	start, _ := mastery.NewBoostedStart(concepts)
	if !mat.Equal(episode[0].State, start.Start()) {
		t.Errorf("first state = %v, want boosted start",
			episode[0].State.RawVector().Data)
	}

	task := mastery.NewPractice(start, stepCap, mastery.GoalMastery)
	for i, row := range episode {
		if row.Number != i+1 {
			t.Errorf("row %v has number %v", i, row.Number)
		}

		// Boundedness and quantization
		var values []float64
		values = append(values, row.State.RawVector().Data...)
		values = append(values, row.NextState.RawVector().Data...)
		for _, v := range values {
			if v < 0 || v > 1 || !floatutils.Quantized(v, mastery.Places) {
				t.Fatalf("row %v has invalid mastery %v", i, v)
			}
		}
		if !floatutils.Quantized(row.Reward, mastery.Places) {
			t.Errorf("row %v has unrounded reward %v", i, row.Reward)
		}

		// Chaining
		if i+1 < len(episode) && !mat.Equal(row.NextState,
			episode[i+1].State) {
			t.Fatalf("row %v does not chain into row %v", i, i+1)
		}

		// Reward zones and branches
		m := row.State.AtVec(row.Action)
		delta := row.Reward - mastery.BaseReward(m)
		var next float64
		switch {
		case math.Abs(delta-0.2) < 1e-9:
			next = floatutils.ClipRound(m+0.1, mastery.Unit, mastery.Places)
		case math.Abs(delta+0.1) < 1e-9:
			next = floatutils.ClipRound(m-0.05, mastery.Unit, mastery.Places)
		default:
			t.Fatalf("row %v: reward %v does not follow from mastery %v", i,
				row.Reward, m)
		}
		for j := 0; j < concepts; j++ {
			want := row.State.AtVec(j)
			if j == row.Action {
				want = next
			}
			if row.NextState.AtVec(j) != want {
				t.Fatalf("row %v: next mastery %v = %v, want %v", i, j,
					row.NextState.AtVec(j), want)
			}
		}

		// Termination
		last := i == len(episode)-1
		if row.Last() != last {
			t.Errorf("row %v: last = %v, want %v", i, row.Last(), last)
		}
		if !last && task.AtGoal(row.NextState) {
			t.Errorf("row %v reached the goal without ending", i)
		}
	}

	final := episode[len(episode)-1]
	if len(episode) < stepCap && !task.AtGoal(final.NextState) {
		t.Errorf("episode of %v rows ended before the goal", len(episode))
	}
	if task.AtGoal(final.NextState) && final.EndType != ts.TerminalStateReached {
		t.Errorf("goal reached but end = %v", final.EndType)
	}
}

func TestGenerateEpisodeDeterministic(t *testing.T) {
	render := func(seed uint64) []byte {
		episode, err := GenerateEpisode(5, 999, environment.NewRand(seed))
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := trackers.Write(&buf, 5, episode); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	for seed := uint64(0); seed < 10; seed++ {
		if !bytes.Equal(render(seed), render(seed)) {
			t.Errorf("seed %v: output differs between runs", seed)
		}
	}
}

func TestSeedTransition(t *testing.T) {
	c := Config{
		Type:     OnlineExp,
		Episodes: 2,
		Seed:     3,
		EnvConf:  envconfig.NewConfig(3, 20, envconfig.Boosted, true),
	}
	exp, err := c.CreateExp(environment.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}

	episode, err := exp.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if len(episode) < 2 {
		t.Fatalf("rows = %v, want a seed row and a step", len(episode))
	}
	equalFields(t, episode[0], []float64{0.6, 0.6, 0.6, 2, 1.2, 0.6, 0.6, 0.7})
	if !mat.Equal(episode[0].NextState, episode[1].State) {
		t.Error("seed row should chain into the first step")
	}
	if len(episode)-1 > 20 {
		t.Errorf("steps = %v, seed row should not count against the cap",
			len(episode)-1)
	}
}

func TestSeedTransitionMismatch(t *testing.T) {
	exp := newFixed(t, []float64{0.5, 0.5}, 5, environment.NewRand(1))
	seed, err := mastery.SeedTransition(2)
	if err != nil {
		t.Fatal(err)
	}
	exp.SetSeedTransition(seed)

	if _, err := exp.RunEpisode(); !environment.IsConfigError(err) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestRunTracksAndCheckpoints(t *testing.T) {
	dir := t.TempDir()
	c := Config{
		Episodes: 3,
		Seed:     7,
		EnvConf:  envconfig.NewConfig(2, 15, envconfig.Boosted, false),
	}

	lengths := trackers.NewEpisodeLength("")
	rows := trackers.NewTransitions(2, checkpointer.FilenameEnumerator(0,
		filepath.Join(dir, "episode"), ".csv"))

	exp, err := c.CreateExp(environment.NewRand(7), lengths)
	if err != nil {
		t.Fatal(err)
	}
	exp.Register(rows)
	exp.RegisterCheckpointer(checkpointer.NewNEpisode(1, rows))

	if err := exp.Run(c.Episodes); err != nil {
		t.Fatal(err)
	}
	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}

	if n := len(lengths.Data()); n != 3 {
		t.Errorf("episodes tracked = %v, want 3", n)
	}
	for i := 1; i <= 3; i++ {
		name := filepath.Join(dir, fmt.Sprintf("episode%d.csv", i))
		if _, err := os.Stat(name); err != nil {
			t.Errorf("episode %v was not saved: %v", i, err)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	env := envconfig.NewConfig(3, 10, envconfig.Boosted, true)

	tests := []struct {
		name  string
		c     Config
		valid bool
	}{
		{"online", Config{OnlineExp, 1, 0, env}, true},
		{"default type", Config{"", 1, 0, env}, true},
		{"unknown type", Config{"Offline", 1, 0, env}, false},
		{"no episodes", Config{OnlineExp, 0, 0, env}, false},
		{"bad env", Config{OnlineExp, 1, 0, envconfig.Config{}}, false},
	}

	for _, test := range tests {
		err := test.c.Validate()
		if test.valid && err != nil {
			t.Errorf("%v: unexpected error %v", test.name, err)
		}
		if !test.valid && !environment.IsConfigError(err) {
			t.Errorf("%v: expected config error, got %v", test.name, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{
		"Type": "OnlineExperiment",
		"Episodes": 4,
		"Seed": 11,
		"EnvConf": {"NumConcepts": 5, "StepCap": 999, "SeedRow": true}
	}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Type:     OnlineExp,
		Episodes: 4,
		Seed:     11,
		EnvConf:  envconfig.NewConfig(5, 999, "", true),
	}
	if c != want {
		t.Errorf("config = %+v, want %+v", c, want)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
