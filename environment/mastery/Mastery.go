// Package mastery implements an environment in which a learner
// practises concepts, and each concept's mastery evolves stochastically
// with practice
package mastery

import (
	"fmt"

	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/timestep"
	"github.com/samuelfneumann/masterygen/utils/floatutils"
	"github.com/samuelfneumann/masterygen/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Mastery implements an environment where observations are the mastery
// of each of a number of concepts and each action practises a single
// concept.
//
// Observations are vectors with one feature per concept, each in
// [0, 1] and rounded to one decimal place. Actions are integers in
// [0, concepts) which index the concept to practise. The rewards and
// next states of each step are sampled from the environment's Dynamics
// using the random stream given at construction, and the Task decides
// when episodes start and end.
type Mastery struct {
	environment.Task
	dynamics    Dynamics
	rng         environment.Rand
	concepts    int
	currentStep timestep.TimeStep
}

// New creates a new Mastery environment over concepts concepts with
// Task t and Dynamics d. All randomness in stepping the environment is
// drawn from rng. The environment is returned ready to use, along with
// its first TimeStep.
func New(t environment.Task, d Dynamics, concepts int,
	rng environment.Rand) (*Mastery, timestep.TimeStep, error) {
	if concepts <= 0 {
		return nil, timestep.TimeStep{}, &environment.Error{
			Op: "new",
			Err: fmt.Errorf("%w: concepts = %d <= 0",
				environment.ErrInvalidConfig, concepts),
		}
	}

	m := &Mastery{Task: t, dynamics: d, rng: rng, concepts: concepts}
	step, err := m.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, err
	}

	return m, step, nil
}

// Reset resets the environment to a starting state sampled from the
// Task. An error is returned if the Task starts in a state which is
// not a valid mastery vector.
func (m *Mastery) Reset() (timestep.TimeStep, error) {
	start := m.Start()
	if err := m.validate(start); err != nil {
		return timestep.TimeStep{}, err
	}

	step := timestep.New(timestep.First, 0, start, 0)
	m.currentStep = step

	return step, nil
}

// validate returns an error if state is not a mastery vector of the
// environment
func (m *Mastery) validate(state mat.Vector) error {
	if state.Len() != m.concepts {
		return &environment.Error{
			Op: "reset",
			Err: fmt.Errorf("%w: start state has %d concepts, want %d",
				environment.ErrInvalidConfig, state.Len(), m.concepts),
		}
	}

	for i := 0; i < state.Len(); i++ {
		v := state.AtVec(i)
		if v < Unit.Min || v > Unit.Max || !floatutils.Quantized(v, Places) {
			return &environment.Error{
				Op: "reset",
				Err: fmt.Errorf("%w: start mastery %v of concept %d is "+
					"not in [0, 1] with %d decimal place(s)",
					environment.ErrInvalidConfig, v, i, Places),
			}
		}
	}
	return nil
}

// Step takes one environmental step given action, which is the concept
// to practise. The returned TimeStep holds the reward, rounded to
// Places decimal places, and the next state. The returned boolean
// reports whether the episode has ended.
func (m *Mastery) Step(action int) (timestep.TimeStep, bool, error) {
	reward, next, err := m.dynamics.Transition(m.currentStep.Observation,
		action, m.rng)
	if err != nil {
		return timestep.TimeStep{}, false, err
	}

	number := m.currentStep.Number + 1
	step := timestep.New(timestep.Mid, floatutils.Round(reward, Places),
		next, number)
	m.End(&step)

	m.currentStep = step
	return step, step.Last(), nil
}

// CurrentTimeStep returns the most recent TimeStep of the environment
func (m *Mastery) CurrentTimeStep() timestep.TimeStep {
	return m.currentStep
}

// Concepts returns the number of concepts in the environment
func (m *Mastery) Concepts() int {
	return m.concepts
}

// ObservationSpec returns the observation specification of the
// environment
func (m *Mastery) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(m.concepts, nil)
	lowerBound := matutils.VecConst(m.concepts, Unit.Min)
	upperBound := matutils.VecConst(m.concepts, Unit.Max)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (m *Mastery) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(m.concepts - 1)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// RewardSpec returns the reward specification of the environment
func (m *Mastery) RewardSpec() environment.Spec {
	lo, hi := m.dynamics.RewardBounds()
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{lo})
	upperBound := mat.NewVecDense(1, []float64{hi})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

func (m *Mastery) String() string {
	str := "Mastery | Concepts: %v  |  Step: %v  |  State: %v"
	return fmt.Sprintf(str, m.concepts, m.currentStep.Number,
		matutils.Format(m.currentStep.Observation.T()))
}
