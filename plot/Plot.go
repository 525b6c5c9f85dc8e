// Package plot renders generated episodes as interactive HTML charts
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	ts "github.com/samuelfneumann/masterygen/timestep"
)

// Theme is the echarts theme used by all charts
const Theme = "shine"

// Episode renders an episode to w as an HTML page with two charts: the
// mastery of each concept after every step as lines, and the reward of
// every step as bars
func Episode(w io.Writer, title, subtitle string,
	episode []ts.Transition) error {
	if len(episode) == 0 {
		return fmt.Errorf("episode: cannot plot an empty episode")
	}

	page := components.NewPage()
	page.AddCharts(
		Mastery(title, subtitle, episode),
		Rewards(episode),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("episode: could not render: %w", err)
	}
	return nil
}

// Mastery returns a line chart with one series per concept, tracing
// the concept's mastery from the first state of the episode through
// the next state of every transition
func Mastery(title, subtitle string, episode []ts.Transition) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: Theme,
		}),
	)

	steps := []string{fmt.Sprintf("%d", episode[0].Number-1)}
	for _, t := range episode {
		steps = append(steps, fmt.Sprintf("%d", t.Number))
	}
	line = line.SetXAxis(steps)

	concepts := episode[0].State.Len()
	for c := 0; c < concepts; c++ {
		items := make([]opts.LineData, 0, len(episode)+1)
		items = append(items, opts.LineData{Value: episode[0].State.AtVec(c)})
		for _, t := range episode {
			items = append(items, opts.LineData{Value: t.NextState.AtVec(c)})
		}

		line.AddSeries(fmt.Sprintf("concept %d", c), items)
	}

	return line
}

// Rewards returns a bar chart of the reward of each transition
func Rewards(episode []ts.Transition) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "reward",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: Theme,
		}),
	)

	steps := make([]string, 0, len(episode))
	items := make([]opts.BarData, 0, len(episode))
	for _, t := range episode {
		steps = append(steps, fmt.Sprintf("%d", t.Number))
		items = append(items, opts.BarData{Value: t.Reward})
	}

	bar.SetXAxis(steps).AddSeries("reward", items)
	return bar
}
