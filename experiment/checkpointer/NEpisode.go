package checkpointer

import ts "github.com/samuelfneumann/masterygen/timestep"

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	episodes int
	object   Saver // Object to save
}

// NewNEpisode returns a checkpointer that checkpoints object every n
// completed episodes. It panics if n is not positive.
func NewNEpisode(n int, object Saver) Checkpointer {
	if n <= 0 {
		panic("newNEpisode: interval must be positive")
	}

	return &nEpisode{
		interval: n,
		object:   object,
	}
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method whenever t completes the n-th episode since the
// last checkpoint
func (n *nEpisode) Checkpoint(t ts.Transition) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval == 0 {
		return n.object.Save()
	}
	return nil
}
