// Package policy implements policies over discrete actions
package policy

import (
	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/timestep"
)

// Uniform implements a policy which selects each action of a discrete
// action space with equal probability, regardless of the state
type Uniform struct {
	actions int
	rng     environment.Rand
}

// NewUniform returns a new Uniform policy for env. Actions are drawn
// from rng, which should be the same stream env draws from so that
// a single seed determines an episode.
func NewUniform(rng environment.Rand, env environment.Environment) *Uniform {
	// Panics if actions are not discrete and 1-dimensional
	actions := env.ActionSpec().NumActions()

	return &Uniform{actions, rng}
}

// SelectAction selects an action uniformly at random. Exactly one
// number is drawn from the policy's random stream.
func (p *Uniform) SelectAction(_ timestep.TimeStep) int {
	return p.rng.Intn(p.actions)
}

// NumActions returns the number of actions the policy selects from
func (p *Uniform) NumActions() int {
	return p.actions
}
