// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ts "github.com/samuelfneumann/masterygen/timestep"
)

// ProgressBar implements a progress bar over the episodes of an
// experiment. It is managed manually: Display must be called whenever
// an updated progress bar should be printed. Registered as an
// experiment's checkpointer, it increments and displays itself at the
// end of each episode.
//
// ProgressBar does not use concurrency.
type ProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// New returns a new ProgressBar that is width characters wide, reaches
// 100% after max calls to Increment, and prints to out
func New(out io.Writer, width, max int) *ProgressBar {
	if max <= 0 {
		panic(fmt.Sprintf("new: max progress %d <= 0", max))
	}

	return &ProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of progress made
func (p *ProgressBar) Progress() float64 {
	return p.currentProgress / p.maxProgress
}

// Checkpoint increments and displays the progress bar if t ends an
// episode
func (p *ProgressBar) Checkpoint(t ts.Transition) error {
	if !t.Last() {
		return nil
	}

	p.Increment()
	return p.Display()
}

// Display prints the progress bar over the previously printed one
func (p *ProgressBar) Display() error {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.Progress() * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		p.Progress()*100, "%", time.Since(p.startTime).Truncate(time.Second)))

	_, err := fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.bar.String())
	return err
}
