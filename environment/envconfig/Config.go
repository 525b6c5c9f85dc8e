// Package envconfig provides configuration structs for configuring
// Mastery environments with default dynamics and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/environment/mastery"
	ts "github.com/samuelfneumann/masterygen/timestep"
)

// StartName stores the names of the start state distributions that
// can be configured with this package
type StartName string

// Start state distributions available for configuration
const (
	// Boosted starts every concept at 0.6 except the last, which
	// starts at 0.7
	Boosted StartName = "Boosted"

	// Uniform samples each concept's starting mastery uniformly
	Uniform StartName = "Uniform"
)

// Config implements a specific configuration of a Mastery environment
type Config struct {
	// NumConcepts is the number of concepts, and so the length of each
	// mastery vector and the number of actions
	NumConcepts int

	// StepCap is the maximum number of steps in an episode
	StepCap int

	// Start determines the start state distribution. The empty
	// StartName is treated as Boosted.
	Start StartName

	// SeedRow determines whether each episode is preceded by the seed
	// transition that leads to the Boosted start state. It can only be
	// used with the Boosted start.
	SeedRow bool
}

// NewConfig returns a new environment Config
func NewConfig(numConcepts, stepCap int, start StartName,
	seedRow bool) Config {
	return Config{
		NumConcepts: numConcepts,
		StepCap:     stepCap,
		Start:       start,
		SeedRow:     seedRow,
	}
}

// StartName returns the configured start state distribution
func (c Config) StartName() StartName {
	if c.Start == "" {
		return Boosted
	}
	return c.Start
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	switch {
	case c.NumConcepts <= 0:
		return configError("number of concepts %d <= 0", c.NumConcepts)

	case c.StepCap <= 0:
		return configError("step cap %d <= 0", c.StepCap)

	case c.StartName() != Boosted && c.StartName() != Uniform:
		return configError("no such start %q", c.Start)

	case c.SeedRow && c.StartName() != Boosted:
		return configError("seed row requires the %v start, have %v",
			Boosted, c.StartName())
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. All randomness in stepping
// the environment is drawn from rng. The seed is only used to seed
// random start state distributions.
func (c Config) Create(seed uint64,
	rng environment.Rand) (*mastery.Mastery, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, err
	}

	var (
		s   environment.Starter
		err error
	)
	switch c.StartName() {
	case Boosted:
		s, err = mastery.NewBoostedStart(c.NumConcepts)

	case Uniform:
		s, err = mastery.NewUniformStart(c.NumConcepts, seed)
	}
	if err != nil {
		return nil, ts.TimeStep{}, err
	}

	task := mastery.NewPractice(s, c.StepCap, mastery.GoalMastery)
	return mastery.New(task, mastery.DefaultDynamics(), c.NumConcepts, rng)
}

// SeedTransition returns the seed transition to precede episodes with
// and whether the Config asks for one
func (c Config) SeedTransition() (ts.Transition, bool, error) {
	if !c.SeedRow {
		return ts.Transition{}, false, nil
	}

	seed, err := mastery.SeedTransition(c.NumConcepts)
	if err != nil {
		return ts.Transition{}, false, err
	}
	return seed, true, nil
}

// configError returns an invalid configuration error with a formatted
// description
func configError(format string, args ...interface{}) error {
	args = append([]interface{}{environment.ErrInvalidConfig}, args...)
	return &environment.Error{
		Op:  "validate",
		Err: fmt.Errorf("%w: "+format, args...),
	}
}
