package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/masterygen/timestep"
)

// Return tracks and saves the episodic return in an experiment. When a
// transition is tracked, this Tracker will extract the reward and
// accumulate the return for each episode in the experiment. Rows in
// output files only ever hold their own reward; the return is a
// summary statistic.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker. If filename is
// empty, Save does nothing.
func NewReturn(filename string) *Return {
	var tracker Return
	tracker.lastTimeStep = -1
	tracker.filename = filename
	return &tracker
}

// Track tracks the rewards seen on a transition. By calling this
// method on every transition, the Tracker will store all rewards seen
// in the episode, and save the cumulative reward for that episode as
// the episodic return. When a new episode starts, this method will
// automatically detect this and start accumulating the rewards for this
// new episode separately from the rewards seen on previous episodes.
//
// Track panics if it is called for non-sequential transitions
func (r *Return) Track(t ts.Transition) {
	// Ensure that Track is called on sequential transitions. Episodes
	// start at step 1, or at step 0 if a seed transition is tracked.
	start := r.lastTimeStep < 0 && t.Number <= 1
	if !start && r.lastTimeStep+1 != t.Number {
		msg := fmt.Sprintf("track: last two transitions tracked are not "+
			"sequential: step %v --> step %v were tracked",
			r.lastTimeStep, t.Number)
		panic(msg)
	}

	// Seed transitions are not generated, so their reward is not
	// part of the return
	if t.Number > 0 {
		r.currentReturn += t.Reward
	}
	if !t.Last() {
		r.lastTimeStep = t.Number
		return
	}

	// Episode has ended, cache the return and begin tracking the return
	// for a new episode
	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastTimeStep = -1
}

// Data returns the return of each finished episode
func (r *Return) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	if r.filename == "" {
		return nil
	}
	return save(r.filename, r.episodeReturns)
}
