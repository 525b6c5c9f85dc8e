package trackers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	ts "github.com/samuelfneumann/masterygen/timestep"
)

// Transitions tracks every transition of an experiment and saves each
// finished episode as a CSV file with one row per transition.
//
// Each call to Save writes the episodes finished since the previous
// call, each to the file named by the next call of the filename
// function, and then forgets them. Use checkpointer.FilenameEnumerator
// to save each episode to its own file.
type Transitions struct {
	concepts int
	filename func() string
	current  []ts.Transition
	finished [][]ts.Transition
}

// NewTransitions returns a new Transitions tracker for episodes over
// concepts concepts
func NewTransitions(concepts int, filename func() string) *Transitions {
	return &Transitions{concepts: concepts, filename: filename}
}

// Track caches t. If t ends its episode, the episode is queued to be
// written on the next call to Save.
func (tr *Transitions) Track(t ts.Transition) {
	tr.current = append(tr.current, t)

	if t.Last() {
		tr.finished = append(tr.finished, tr.current)
		tr.current = nil
	}
}

// Save writes all episodes finished since the last call to Save
func (tr *Transitions) Save() error {
	for len(tr.finished) > 0 {
		if err := tr.saveEpisode(tr.filename(), tr.finished[0]); err != nil {
			return err
		}
		tr.finished = tr.finished[1:]
	}
	return nil
}

// saveEpisode writes a single episode to filename
func (tr *Transitions) saveEpisode(filename string,
	episode []ts.Transition) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := Write(file, tr.concepts, episode); err != nil {
		return fmt.Errorf("save %v: %w", filename, err)
	}
	return file.Close()
}

// Header returns the CSV header of an episode over concepts concepts:
// mastery[0..N-1], action, reward, newMastery[0..N-1]
func Header(concepts int) []string {
	header := make([]string, 0, 2*concepts+2)
	for i := 0; i < concepts; i++ {
		header = append(header, fmt.Sprintf("mastery[%d]", i))
	}
	header = append(header, "action", "reward")
	for i := 0; i < concepts; i++ {
		header = append(header, fmt.Sprintf("newMastery[%d]", i))
	}
	return header
}

// Record returns the CSV record of a transition. Floats are written in
// the shortest decimal form that represents them exactly, so 0.6 is
// written as 0.6 and 1.0 as 1. Actions are written as integers.
func Record(t ts.Transition) []string {
	record := make([]string, 0, t.Len())
	for i := 0; i < t.State.Len(); i++ {
		record = append(record, FormatFloat(t.State.AtVec(i)))
	}
	record = append(record, strconv.Itoa(t.Action), FormatFloat(t.Reward))
	for i := 0; i < t.NextState.Len(); i++ {
		record = append(record, FormatFloat(t.NextState.AtVec(i)))
	}
	return record
}

// FormatFloat formats a float in the output format of CSV files
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write writes the header and one record per transition of episode to
// w as CSV. An error is returned if a transition does not have concepts
// concepts or if writing fails.
func Write(w io.Writer, concepts int, episode []ts.Transition) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header(concepts)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, t := range episode {
		if t.State.Len() != concepts || t.NextState.Len() != concepts {
			return fmt.Errorf("write: transition %d has %d and %d concepts, "+
				"want %d", i, t.State.Len(), t.NextState.Len(), concepts)
		}

		if err := writer.Write(Record(t)); err != nil {
			return fmt.Errorf("write transition %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
