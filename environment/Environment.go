// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/masterygen/timestep"
	"gonum.org/v1/gonum/mat"
)

// Rand is the single stream of random numbers that an environment and
// the policy acting in it draw from. Draws are consumed in a fixed
// order, so seeding the stream makes episodes reproducible.
//
// *rand.Rand from golang.org/x/exp/rand satisfies Rand.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a new seeded Rand
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. End returns whether the argument
// TimeStep ends the episode, and if so, sets its StepType to
// timestep.Last and records its EndType.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the start state distribution, goal, and episode
// termination of some environment
type Task interface {
	Starter
	Ender
	AtGoal(state mat.Vector) bool
}

// Environment implements a simulated environment, which includes a Task
// to complete
type Environment interface {
	Task
	Reset() (timestep.TimeStep, error) // Resets between episodes
	Step(action int) (timestep.TimeStep, bool, error)
	CurrentTimeStep() timestep.TimeStep
	RewardSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
