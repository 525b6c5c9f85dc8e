package mastery

import (
	"fmt"

	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/timestep"
	"github.com/samuelfneumann/masterygen/utils/floatutils"
	"github.com/samuelfneumann/masterygen/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// InitialMastery is the starting mastery of every concept but the
	// boosted one
	InitialMastery float64 = 0.6

	// BoostedMastery is the starting mastery of the boosted concept
	BoostedMastery float64 = 0.7

	// SeedReward is the reward recorded on the seed transition
	SeedReward float64 = 1.2
)

// BoostedStart always starts episodes in the same state: every concept
// at InitialMastery except the last, which was just learned and starts
// at BoostedMastery.
type BoostedStart struct {
	concepts int
}

// NewBoostedStart returns a new BoostedStart over concepts concepts
func NewBoostedStart(concepts int) (*BoostedStart, error) {
	if concepts <= 0 {
		return nil, &environment.Error{
			Op: "newBoostedStart",
			Err: fmt.Errorf("%w: concepts = %d <= 0",
				environment.ErrInvalidConfig, concepts),
		}
	}
	return &BoostedStart{concepts}, nil
}

// Boosted returns the index of the boosted concept
func (b *BoostedStart) Boosted() int {
	return b.concepts - 1
}

// Start returns a new starting state vector
func (b *BoostedStart) Start() *mat.VecDense {
	start := matutils.VecConst(b.concepts, InitialMastery)
	start.SetVec(b.Boosted(), BoostedMastery)
	return start
}

// QuantizedStart wraps a Starter and clips each feature of its starting
// states to [0, 1] before rounding it to Places decimal places
type QuantizedStart struct {
	environment.Starter
}

// Start returns a new starting state vector
func (q QuantizedStart) Start() *mat.VecDense {
	start := q.Starter.Start()
	for i := 0; i < start.Len(); i++ {
		start.SetVec(i, floatutils.ClipRound(start.AtVec(i), Unit, Places))
	}
	return start
}

// NewUniformStart returns a Starter which samples each concept's
// mastery uniformly from [0, 1], quantized to Places decimal places
func NewUniformStart(concepts int, seed uint64) (environment.Starter, error) {
	if concepts <= 0 {
		return nil, &environment.Error{
			Op: "newUniformStart",
			Err: fmt.Errorf("%w: concepts = %d <= 0",
				environment.ErrInvalidConfig, concepts),
		}
	}

	bounds := make([]r1.Interval, concepts)
	for i := range bounds {
		bounds[i] = Unit
	}

	return QuantizedStart{environment.NewUniformStarter(bounds, seed)}, nil
}

// SeedTransition returns the synthetic transition that precedes
// generated episodes in output files. It records the boosted concept
// being practised from a state where all concepts have InitialMastery,
// so its next state is the BoostedStart starting state.
func SeedTransition(concepts int) (timestep.Transition, error) {
	start, err := NewBoostedStart(concepts)
	if err != nil {
		return timestep.Transition{}, err
	}

	return timestep.Transition{
		State:     matutils.VecConst(concepts, InitialMastery),
		Action:    start.Boosted(),
		Reward:    SeedReward,
		NextState: start.Start(),
		Number:    0,
	}, nil
}
