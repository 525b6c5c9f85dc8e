package mastery

import (
	"fmt"

	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Places is the number of decimal places mastery values and
	// recorded rewards are rounded to
	Places int = 1

	// Bounds of the productive zone, which is open on both ends
	ZoneMin float64 = 0.4
	ZoneMax float64 = 0.6

	// Mastery at or above which practising a concept is penalized
	Mastered float64 = 0.8

	ZoneReward     float64 = 1.0
	MasteredReward float64 = -2.0
)

// Unit is the interval that all mastery values lie in
var Unit = r1.Interval{Min: 0, Max: 1}

// BaseReward returns the reward for practising a concept with mastery
// m, before the outcome of the practice is known. Concepts in the
// productive zone (ZoneMin, ZoneMax) earn ZoneReward and concepts at or
// above Mastered earn MasteredReward. All other concepts earn nothing.
func BaseReward(m float64) float64 {
	if ZoneMin < m && m < ZoneMax {
		return ZoneReward
	} else if m >= Mastered {
		return MasteredReward
	}
	return 0.0
}

// RegressBias maps actions to an extra probability of regressing when
// that action is taken. The extra probability is only drawn when the
// base regression draw fails.
//
// The default table biases actions 0 and 1 heavily towards regression.
// This has always been part of the model, but it has no documented
// rationale and may be an artifact. It is kept as is.
type RegressBias map[int]float64

// DefaultRegressBias returns the default action bias table
func DefaultRegressBias() RegressBias {
	return RegressBias{0: 0.9, 1: 0.9}
}

// Dynamics implements the stochastic transition model of the Mastery
// environment. Practising a concept either progresses or regresses its
// mastery, and the reward for the step is the concept's BaseReward
// adjusted by the outcome.
type Dynamics struct {
	// RegressProb is the probability of regressing for any action
	RegressProb float64

	// Bias is the extra regression probability of specific actions
	Bias RegressBias

	// Progress and Regress are the changes in mastery on progression
	// and regression
	Progress float64
	Regress  float64

	// ProgressReward and RegressReward are added to the base reward on
	// progression and regression
	ProgressReward float64
	RegressReward  float64
}

// DefaultDynamics returns the default transition model
func DefaultDynamics() Dynamics {
	return Dynamics{
		RegressProb:    0.1,
		Bias:           DefaultRegressBias(),
		Progress:       0.1,
		Regress:        0.05,
		ProgressReward: 0.2,
		RegressReward:  -0.1,
	}
}

// Transition samples the reward and next state resulting from
// practising concept action in state. The returned state is a new
// vector, state itself is never modified. The reward is not rounded.
//
// Random numbers are drawn from rng in a fixed order: one draw for the
// base regression probability, then, only if that draw does not
// regress and action has a bias entry, one draw for the bias.
//
// An error is returned if action is not an index of state.
func (d Dynamics) Transition(state mat.Vector, action int,
	rng environment.Rand) (float64, *mat.VecDense, error) {
	if action < 0 || action >= state.Len() {
		return 0, nil, &environment.Error{
			Op: "transition",
			Err: fmt.Errorf("%w: %d not in [0, %d)",
				environment.ErrInvalidAction, action, state.Len()),
		}
	}

	m := state.AtVec(action)
	reward := BaseReward(m)
	next := mat.VecDenseCopyOf(state)

	if d.regresses(action, rng) {
		reward += d.RegressReward
		next.SetVec(action, floatutils.ClipRound(m-d.Regress, Unit, Places))
	} else {
		reward += d.ProgressReward
		next.SetVec(action, floatutils.ClipRound(m+d.Progress, Unit, Places))
	}

	return reward, next, nil
}

// regresses samples whether practising action regresses mastery
func (d Dynamics) regresses(action int, rng environment.Rand) bool {
	if rng.Float64() < d.RegressProb {
		return true
	}

	bias, ok := d.Bias[action]
	return ok && rng.Float64() < bias
}

// RewardBounds returns the minimum and maximum rewards that the
// Dynamics can produce
func (d Dynamics) RewardBounds() (lo, hi float64) {
	base := []float64{ZoneReward, MasteredReward, 0.0}

	var rewards []float64
	for _, r := range base {
		rewards = append(rewards, r+d.ProgressReward, r+d.RegressReward)
	}

	return floats.Min(rewards), floats.Max(rewards)
}

// Transition samples a transition using the default Dynamics
func Transition(state mat.Vector, action int,
	rng environment.Rand) (float64, *mat.VecDense, error) {
	return DefaultDynamics().Transition(state, action, rng)
}
