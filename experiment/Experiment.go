// Package experiment implements functionality for running an experiment
package experiment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/masterygen/agent/policy"
	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/environment/envconfig"
	"github.com/samuelfneumann/masterygen/experiment/trackers"
	ts "github.com/samuelfneumann/masterygen/timestep"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments turn each environment step into a timestep.Transition and
// send it to their Trackers, which cache the data they care about in
// RAM to be later saved to disk. The Save() function will then take all
// cached data and save it to disk. The Run() method runs a number of
// episodes back to back, and the RunEpisode() method runs a single
// episode and returns its transitions.
type Experiment interface {
	Run(episodes int) error
	RunEpisode() ([]ts.Transition, error)

	// Tracks a transition by sending it to each Tracker
	track(ts.Transition)

	// Save all tracked data to disk
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment.
	Register(t trackers.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type
	Episodes int
	Seed     uint64
	EnvConf  envconfig.Config
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.Type != OnlineExp && c.Type != "" {
		return &environment.Error{
			Op: "validate",
			Err: fmt.Errorf("%w: no such experiment type %q",
				environment.ErrInvalidConfig, c.Type),
		}
	}

	if c.Episodes <= 0 {
		return &environment.Error{
			Op: "validate",
			Err: fmt.Errorf("%w: episodes %d <= 0",
				environment.ErrInvalidConfig, c.Episodes),
		}
	}

	return c.EnvConf.Validate()
}

// CreateExp creates the experiment described by the Config. All
// actions and transitions are drawn from rng, while the Config's seed
// only seeds random start state distributions. The returned Online
// experiment is ready to be run for c.Episodes episodes.
func (c Config) CreateExp(rng environment.Rand,
	t ...trackers.Tracker) (*Online, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	env, _, err := c.EnvConf.Create(c.Seed, rng)
	if err != nil {
		return nil, err
	}

	exp := NewOnline(env, policy.NewUniform(rng, env), t...)

	seed, ok, err := c.EnvConf.SeedTransition()
	if err != nil {
		return nil, err
	}
	if ok {
		exp.SetSeedTransition(seed)
	}

	return exp, nil
}

// LoadConfig loads an experiment Config from a JSON file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config: %w",
			err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not parse %v: %w",
			path, err)
	}

	return c, nil
}
