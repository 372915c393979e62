package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/instrsim/instrsim/model"
	"github.com/instrsim/instrsim/report"
	"github.com/instrsim/instrsim/simulate"
	"github.com/instrsim/instrsim/spc"
)

// runTestType returns the action for a single test type's run subcommand.
func (a *App) runTestType(t model.TestType) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		sum, err := a.runOne(t)
		if err != nil {
			return err
		}
		printSummary(os.Stdout, sum)
		return nil
	}
}

// runOne simulates one test type, summarizes it and writes the report
// artifacts, replacing any prior report for that type.
func (a *App) runOne(t model.TestType) (*model.Summary, error) {
	a.logger.Info().Str("test", string(t)).Msg("Starting simulation")

	sim, err := simulate.New(t, a.cfg, a.rng)
	if err != nil {
		return nil, err
	}
	run, err := sim.Run()
	if err != nil {
		return nil, fmt.Errorf("%s simulation failed: %w", t, err)
	}

	sum := spc.Summarize(run, a.cfg.Sigma)

	writer := report.NewWriter(a.logger, a.cfg.ReportsDir)
	artifacts, err := writer.Write(run, &sum)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s report: %w", t, err)
	}

	a.logger.Info().
		Str("test", string(t)).
		Str("run_id", run.ID).
		Int("samples", sum.SampleCount).
		Int("artifacts", len(artifacts)).
		Msg("Simulation complete")
	return &sum, nil
}

// runAll runs every simulation in sequence. A failing simulation is reported
// and does not stop the remaining ones.
func (a *App) runAll(ctx *cli.Context) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	types := model.AllTestTypes()
	completed := 0
	for _, t := range types {
		sum, err := a.runOne(t)
		if err != nil {
			a.logger.Error().Err(err).Str("test", string(t)).Msg("Simulation failed")
			red.Fprintf(os.Stdout, "✗ %s: %v\n", displayName(t), err)
			continue
		}
		completed++
		green.Fprintf(os.Stdout, "✓ %s: %d samples, %.2f%% pass\n",
			displayName(t), sum.SampleCount, sum.PassRate*100)
	}

	fmt.Fprintf(os.Stdout, "\nTests completed: %d/%d\n\n", completed, len(types))

	entries, err := report.LoadEntries(a.logger, a.cfg.ReportsDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		printSummary(os.Stdout, &e.Summary)
	}
	return nil
}

// printSummary renders one run's summary the way the station consoles do.
func printSummary(w io.Writer, sum *model.Summary) {
	fmt.Fprintf(w, "=== %s ===\n", displayName(sum.Type))
	fmt.Fprintf(w, "Run %.8s at %s\n", sum.RunID, sum.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Samples: %d  Pass: %d  Fail: %d  Pass rate: %.2f%%\n",
		sum.SampleCount, sum.PassCount, sum.FailCount, sum.PassRate*100)

	for _, name := range orderedKeys(sum) {
		if cs, ok := sum.Channels[name]; ok {
			fmt.Fprintf(w, "  %-12s mean=%.3f std=%.3f min=%.3f max=%.3f LCL=%.3f UCL=%.3f",
				channelLabel(name, cs.Unit), cs.Mean, cs.Std, cs.Min, cs.Max, cs.LCL, cs.UCL)
			if cs.Cp != nil && cs.Cpk != nil {
				fmt.Fprintf(w, " Cp=%.3f Cpk=%.3f", *cs.Cp, *cs.Cpk)
			}
			fmt.Fprintln(w)
		}
		if gs, ok := sum.Groups[name]; ok {
			fmt.Fprintf(w, "  %-12s %d points  %.2f%% pass  mean=%.3f std=%.3f min=%.3f max=%.3f\n",
				channelLabel(name, gs.Unit), gs.Count, gs.PassRate*100, gs.Mean, gs.Std, gs.Min, gs.Max)
		}
	}
	fmt.Fprintln(w)
}

// orderedKeys returns the summary's channel or group names in run order,
// falling back to whatever the maps carry for summaries written before the
// order was recorded.
func orderedKeys(sum *model.Summary) []string {
	if len(sum.Order) > 0 {
		return sum.Order
	}
	keys := make([]string, 0, len(sum.Channels)+len(sum.Groups))
	for name := range sum.Channels {
		keys = append(keys, name)
	}
	for name := range sum.Groups {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func channelLabel(name, unit string) string {
	if unit == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, unit)
}
