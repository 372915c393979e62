package cli

// This file contains the list command for displaying report artifacts.

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/instrsim/instrsim/report"
)

// list prints every report directory with its artifacts and sizes.
func (a *App) list(ctx *cli.Context) error {
	entries, err := report.LoadEntries(a.logger, a.cfg.ReportsDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No test results found")
		fmt.Println("Run the simulations first: instrsim run all")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%s (%s)\n", displayName(e.Summary.Type), e.Dir)
		fmt.Fprintf(os.Stdout, "  run %.8s  %s  %d samples  %.2f%% pass\n",
			e.Summary.RunID,
			e.Summary.Timestamp.Format("2006-01-02 15:04:05"),
			e.Summary.SampleCount,
			e.Summary.PassRate*100)
		for _, art := range e.Artifacts {
			fmt.Fprintf(os.Stdout, "  - [%-10s] %-40s %8.1f KB\n",
				art.Type, art.File, float64(art.Size)/1024)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
