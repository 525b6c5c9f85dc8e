package mastery

import (
	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/timestep"
	"github.com/samuelfneumann/masterygen/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// GoalMastery is the mastery every concept must reach for the learner
// to have mastered all concepts
const GoalMastery float64 = 0.7

// Practice implements the task of practising concepts until all of them
// are mastered.
//
// Episodes end when every concept's mastery is at least the goal
// mastery, or after a step limit, whichever comes first. If both hold
// on the same step, the episode is considered to have reached the goal.
type Practice struct {
	environment.Starter
	goalEnder *environment.FunctionEnder
	stepEnder *environment.StepLimit
	goal      float64
}

// NewPractice creates and returns a new Practice task given a Starter,
// which determines the starting states; the maximum number of episode
// steps; and the goal mastery.
func NewPractice(s environment.Starter, episodeSteps int,
	goal float64) *Practice {
	p := &Practice{Starter: s, goal: goal}
	p.stepEnder = environment.NewStepLimit(episodeSteps)
	p.goalEnder = environment.NewFunctionEnder(p.AtGoal,
		timestep.TerminalStateReached)

	return p
}

// AtGoal returns whether every concept in state has at least the goal
// mastery
func (p *Practice) AtGoal(state mat.Vector) bool {
	return matutils.VecMin(state) >= p.goal
}

// Goal returns the goal mastery
func (p *Practice) Goal() float64 {
	return p.goal
}

// Steps returns the step limit of episodes
func (p *Practice) Steps() int {
	return p.stepEnder.Steps()
}

// End determines if a timestep is the last timestep in the episode.
// If so, it changes the TimeStep's StepType to timestep.Last and sets
// its EndType. The goal is checked before the step limit.
func (p *Practice) End(t *timestep.TimeStep) bool {
	if end := p.goalEnder.End(t); end {
		return true
	}

	if end := p.stepEnder.End(t); end {
		return true
	}
	return false
}
