// Package agent defines the interfaces of agents which act in
// environments
package agent

import "github.com/samuelfneumann/masterygen/timestep"

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Actions are indices
// into the discrete action space of an environment.
type Policy interface {
	SelectAction(t timestep.TimeStep) int
}
