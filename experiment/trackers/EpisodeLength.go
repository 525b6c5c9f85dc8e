package trackers

import (
	ts "github.com/samuelfneumann/masterygen/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment. The length of an episode is the number of transitions
// generated in it, excluding any seed transition.
//
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// length will not be saved.
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at the specified location filename. If filename is empty,
// Save does nothing.
func NewEpisodeLength(filename string) *EpisodeLength {
	var tracker EpisodeLength
	tracker.filename = filename
	return &tracker
}

// Track tracks the episode lengths in an experiment. When this function
// is called, it caches the episode length if the transition passed to
// it is the last one in the episode. Otherwise, it waits to receive the
// last transition in an episode before caching the episode length.
func (e *EpisodeLength) Track(t ts.Transition) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, t.Number)
	}
}

// Data returns the length of each finished episode
func (e *EpisodeLength) Data() []int {
	return e.episodeLengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	if e.filename == "" {
		return nil
	}
	return save(e.filename, e.episodeLengths)
}
