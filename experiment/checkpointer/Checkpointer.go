// Package checkpointer implements periodic saving of data tracked
// during an experiment
package checkpointer

import ts "github.com/samuelfneumann/masterygen/timestep"

// Saver is an object that can save the data it holds
type Saver interface {
	Save() error
}

// Checkpointer checkpoints/saves objects based on the transitions of
// an experiment
type Checkpointer interface {
	Checkpoint(ts.Transition) error
}
