package experiment

import (
	"fmt"

	"github.com/samuelfneumann/masterygen/agent"
	"github.com/samuelfneumann/masterygen/agent/policy"
	env "github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/environment/envconfig"
	"github.com/samuelfneumann/masterygen/experiment/checkpointer"
	"github.com/samuelfneumann/masterygen/experiment/trackers"
	ts "github.com/samuelfneumann/masterygen/timestep"
	"gonum.org/v1/gonum/mat"
)

// Online is an Experiment that runs a fixed policy online in an
// environment, recording every transition
type Online struct {
	env.Environment
	agent.Policy
	seed          *ts.Transition
	trackers      []trackers.Tracker
	checkpointers []checkpointer.Checkpointer
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The t parameter is a slice of
// trackers.Tracker which determine what data is saved.
func NewOnline(e env.Environment, p agent.Policy,
	t ...trackers.Tracker) *Online {
	return &Online{Environment: e, Policy: p, trackers: t}
}

// SetSeedTransition sets a transition to record at the start of each
// episode, before any step is taken. The seed transition's next state
// must be the episode's starting state, otherwise RunEpisode returns
// an error.
func (o *Online) SetSeedTransition(seed ts.Transition) {
	o.seed = &seed
}

// Register registers a trackers.Tracker with an Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RegisterCheckpointer registers a checkpointer.Checkpointer which is
// sent every transition of the experiment after it has been tracked
func (o *Online) RegisterCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// RunEpisode runs a single episode of the experiment and returns its
// transitions in order. On error, the transitions generated before the
// error are returned along with it.
func (o *Online) RunEpisode() ([]ts.Transition, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return nil, err
	}

	var episode []ts.Transition
	if o.seed != nil {
		if !mat.Equal(o.seed.NextState, step.Observation) {
			return nil, &env.Error{
				Op: "runEpisode",
				Err: fmt.Errorf("%w: seed transition does not lead to the "+
					"starting state", env.ErrInvalidConfig),
			}
		}

		seed := *o.seed
		seed.State = mat.VecDenseCopyOf(o.seed.State)
		seed.NextState = mat.VecDenseCopyOf(o.seed.NextState)

		episode = append(episode, seed)
		if err := o.record(seed); err != nil {
			return episode, err
		}
	}

	for !step.Last() {
		// Select action, step in environment
		action := o.Policy.SelectAction(step)
		next, _, err := o.Environment.Step(action)
		if err != nil {
			return episode, err
		}

		t := ts.NewTransition(step, action, next)
		episode = append(episode, t)
		if err := o.record(t); err != nil {
			return episode, err
		}

		step = next
	}

	return episode, nil
}

// Run runs the experiment for a number of episodes
func (o *Online) Run(episodes int) error {
	for i := 0; i < episodes; i++ {
		if _, err := o.RunEpisode(); err != nil {
			return fmt.Errorf("run: episode %d: %w", i+1, err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return err
		}
	}
	return nil
}

// record tracks and then checkpoints a transition
func (o *Online) record(t ts.Transition) error {
	o.track(t)
	return o.checkpoint(t)
}

// track tracks a transition by caching its data in each Tracker
func (o *Online) track(t ts.Transition) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint sends a transition to each Checkpointer
func (o *Online) checkpoint(t ts.Transition) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}

// GenerateEpisode generates a single episode of practice over
// numConcepts concepts, starting from the boosted start state and
// practising uniformly random concepts until every concept is mastered
// or stepCap steps have been taken. Each step draws one action and then
// one or two branch numbers from rng, so a seeded rng reproduces the
// episode exactly.
//
// An error satisfying environment.IsConfigError is returned, before
// anything is drawn from rng, if numConcepts or stepCap is not positive.
func GenerateEpisode(numConcepts, stepCap int,
	rng env.Rand) ([]ts.Transition, error) {
	c := envconfig.NewConfig(numConcepts, stepCap, envconfig.Boosted, false)

	e, _, err := c.Create(0, rng)
	if err != nil {
		return nil, err
	}

	return NewOnline(e, policy.NewUniform(rng, e)).RunEpisode()
}
