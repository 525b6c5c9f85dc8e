package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/masterygen/environment"
	"github.com/samuelfneumann/masterygen/environment/envconfig"
	"github.com/samuelfneumann/masterygen/experiment"
	"github.com/samuelfneumann/masterygen/experiment/checkpointer"
	"github.com/samuelfneumann/masterygen/experiment/trackers"
	"github.com/samuelfneumann/masterygen/plot"
	ts "github.com/samuelfneumann/masterygen/timestep"
	"github.com/samuelfneumann/masterygen/utils/progressbar"
	"gonum.org/v1/gonum/floats"
)

func main() {
	concepts := flag.Int("concepts", 5, "number of concepts")
	steps := flag.Int("steps", 999, "maximum number of steps per episode")
	seed := flag.Uint64("seed", 0, "random seed (default derived from the time)")
	episodes := flag.Int("episodes", 1, "number of episodes to generate")
	seedRow := flag.Bool("seedrow", true, "precede each episode with the seed row")
	start := flag.String("start", string(envconfig.Boosted),
		"start state distribution (Boosted or Uniform)")
	out := flag.String("out", "generated_data.csv", "output CSV path")
	configPath := flag.String("config", "",
		"JSON experiment config, replaces the flag values")
	chart := flag.String("chart", "", "HTML path to chart the first episode")
	progress := flag.Bool("progress", false, "display a progress bar")
	flush := flag.Int("flush", 1, "save episodes every N completed episodes")
	returnsPath := flag.String("returns", "", "gob path to save episode returns")
	lengthsPath := flag.String("lengths", "", "gob path to save episode lengths")
	flag.Parse()

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if !seedSet {
		*seed = uint64(time.Now().UnixNano())
	}

	c := experiment.Config{
		Type:     experiment.OnlineExp,
		Episodes: *episodes,
		Seed:     *seed,
		EnvConf: envconfig.NewConfig(*concepts, *steps,
			envconfig.StartName(*start), *seedRow),
	}
	if *configPath != "" {
		var err error
		c, err = experiment.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("could not load config: %v", err)
		}
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	runID := uuid.New()
	log.Printf("run %v: seed %v, %d concepts, step cap %d, %d episode(s)",
		runID, c.Seed, c.EnvConf.NumConcepts, c.EnvConf.StepCap, c.Episodes)

	rng := environment.NewRand(c.Seed)

	rows := trackers.NewTransitions(c.EnvConf.NumConcepts,
		OutputNames(*out, c.Episodes))
	returns := trackers.NewReturn(*returnsPath)
	lengths := trackers.NewEpisodeLength(*lengthsPath)

	exp, err := c.CreateExp(rng, rows, returns, lengths)
	if err != nil {
		log.Fatalf("could not create experiment: %v", err)
	}

	if *flush <= 0 {
		log.Fatalf("flush interval %d <= 0", *flush)
	}
	exp.RegisterCheckpointer(checkpointer.NewNEpisode(*flush, rows))

	if *progress {
		exp.RegisterCheckpointer(progressbar.New(os.Stderr, 50, c.Episodes))
	}

	var first []ts.Transition
	for i := 0; i < c.Episodes; i++ {
		episode, err := exp.RunEpisode()
		if err != nil {
			log.Fatalf("could not generate episode %d: %v", i+1, err)
		}
		if i == 0 {
			first = episode
		}
	}
	if *progress {
		fmt.Fprintln(os.Stderr)
	}

	if err := exp.Save(); err != nil {
		log.Fatalf("could not save data: %v", err)
	}

	if *chart != "" {
		if err := saveChart(*chart, runID, c.Seed, first); err != nil {
			log.Fatalf("could not save chart: %v", err)
		}
	}

	summarize(returns.Data(), lengths.Data(), *out)
}

// OutputNames returns the function naming the CSV file of each
// episode. A single episode is written to out itself, while multiple
// episodes are written to enumerated files beside it.
func OutputNames(out string, episodes int) func() string {
	if episodes == 1 {
		return checkpointer.Filename(out)
	}

	ext := filepath.Ext(out)
	return checkpointer.FilenameEnumerator(0, strings.TrimSuffix(out, ext),
		ext)
}

// saveChart saves an HTML chart of episode to filename
func saveChart(filename string, runID uuid.UUID, seed uint64,
	episode []ts.Transition) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	subtitle := fmt.Sprintf("run %v, seed %v", runID, seed)
	if err := plot.Episode(file, "mastery", subtitle, episode); err != nil {
		return err
	}
	return file.Close()
}

// summarize prints a summary of the generated episodes
func summarize(returns []float64, lengths []int, out string) {
	steps := make([]float64, len(lengths))
	for i := range lengths {
		steps[i] = float64(lengths[i])
	}

	n := float64(len(lengths))
	fmt.Println(aurora.Green(fmt.Sprintf("generated %d episode(s) to %v",
		len(lengths), out)))
	fmt.Println(aurora.Blue(fmt.Sprintf("mean length: %.2f  (min %v, max %v)",
		floats.Sum(steps)/n, floats.Min(steps), floats.Max(steps))))
	fmt.Println(aurora.Blue(fmt.Sprintf("mean return: %.2f",
		floats.Sum(returns)/n)))
}
