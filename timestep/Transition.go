package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (state, action, reward, next state) record and
// is the row type of a generated episode. Number is the step number of
// the next state, so the first generated transition has Number 1.
type Transition struct {
	State     *mat.VecDense
	Action    int
	Reward    float64
	NextState *mat.VecDense
	Number    int
	EndType
}

// NewTransition returns the transition taken from step by acting with
// action and arriving at next. The state vectors are copied so that
// later changes to either TimeStep are not seen by the Transition.
func NewTransition(step TimeStep, action int, next TimeStep) Transition {
	return Transition{
		State:     mat.VecDenseCopyOf(step.Observation),
		Action:    action,
		Reward:    next.Reward,
		NextState: mat.VecDenseCopyOf(next.Observation),
		Number:    next.Number,
		EndType:   next.EndType(),
	}
}

// Last returns whether the Transition ends its episode
func (t Transition) Last() bool {
	return t.EndType != Running
}

// Len returns the number of scalar fields in the Transition
func (t Transition) Len() int {
	return t.State.Len() + t.NextState.Len() + 2
}

// Fields flattens the Transition into its 2N+2 scalar fields in the
// order state, action, reward, next state
func (t Transition) Fields() []float64 {
	fields := make([]float64, 0, t.Len())
	fields = append(fields, t.State.RawVector().Data...)
	fields = append(fields, float64(t.Action), t.Reward)
	fields = append(fields, t.NextState.RawVector().Data...)

	return fields
}

func (t Transition) String() string {
	str := "Transition | Step: %v  |  Action: %v  |  Reward: %.1f  |  End: %v"

	return fmt.Sprintf(str, t.Number, t.Action, t.Reward, t.EndType)
}
