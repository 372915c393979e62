package cli

// This file contains the interactive text-menu viewer over the reports
// directory.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/instrsim/instrsim/model"
	"github.com/instrsim/instrsim/report"
)

// Viewer is the interactive text-mode results browser. Input and output are
// injected so the menu loop can be driven from tests.
type Viewer struct {
	logger     zerolog.Logger
	reportsDir string
	in         *bufio.Scanner
	out        io.Writer
}

// NewViewer builds a viewer over the reports directory.
func NewViewer(logger zerolog.Logger, reportsDir string, in io.Reader, out io.Writer) *Viewer {
	return &Viewer{
		logger:     logger,
		reportsDir: reportsDir,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// view runs the interactive results viewer.
func (a *App) view(ctx *cli.Context) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	v := NewViewer(a.logger, a.cfg.ReportsDir, os.Stdin, os.Stdout)
	return v.Run()
}

// Run drives the menu loop until the user exits or input ends.
func (v *Viewer) Run() error {
	for {
		fmt.Fprintln(v.out, "\n=== Test Results Viewer ===")
		fmt.Fprintln(v.out, "  1. Show all test summaries")
		fmt.Fprintln(v.out, "  2. Show one test summary")
		fmt.Fprintln(v.out, "  3. Show raw data head")
		fmt.Fprintln(v.out, "  4. List report files")
		fmt.Fprintln(v.out, "  5. Exit")

		choice, ok := v.prompt("Select an option: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			v.showAllSummaries()
		case "2":
			v.showOneSummary()
		case "3":
			v.showDataHead()
		case "4":
			v.listFiles()
		case "5", "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintf(v.out, "Unknown option %q\n", choice)
		}
	}
}

// prompt reads one trimmed line; ok is false when input ended.
func (v *Viewer) prompt(msg string) (string, bool) {
	fmt.Fprint(v.out, msg)
	if !v.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(v.in.Text()), true
}

func (v *Viewer) loadEntries() []report.Entry {
	entries, err := report.LoadEntries(v.logger, v.reportsDir)
	if err != nil {
		fmt.Fprintf(v.out, "Failed to load reports: %v\n", err)
		return nil
	}
	return entries
}

func (v *Viewer) showAllSummaries() {
	entries := v.loadEntries()
	if len(entries) == 0 {
		fmt.Fprintln(v.out, "No test results found - no data to display")
		return
	}
	for _, e := range entries {
		printSummary(v.out, &e.Summary)
	}
}

func (v *Viewer) showOneSummary() {
	name, ok := v.prompt("Test type (burnin/hipot/isolation/laser/parametric/ict): ")
	if !ok {
		return
	}
	t, err := model.ParseTestType(name)
	if err != nil {
		fmt.Fprintf(v.out, "%v\n", err)
		return
	}
	entry, err := report.LoadEntry(v.logger, v.reportsDir, t)
	if err != nil {
		fmt.Fprintf(v.out, "Failed to load report: %v\n", err)
		return
	}
	if entry == nil {
		fmt.Fprintf(v.out, "No test results found for %s - no data to display\n", displayName(t))
		return
	}
	printSummary(v.out, &entry.Summary)
}

func (v *Viewer) showDataHead() {
	name, ok := v.prompt("Test type (burnin/hipot/isolation/laser/parametric/ict): ")
	if !ok {
		return
	}
	t, err := model.ParseTestType(name)
	if err != nil {
		fmt.Fprintf(v.out, "%v\n", err)
		return
	}

	rows := 10
	if answer, ok := v.prompt("Rows to show [10]: "); ok && answer != "" {
		parsed, err := strconv.Atoi(answer)
		if err != nil || parsed < 1 {
			fmt.Fprintf(v.out, "Invalid row count %q\n", answer)
			return
		}
		rows = parsed
	}

	header, data, err := report.ReadDataHead(v.reportsDir, t, rows)
	if err != nil {
		fmt.Fprintf(v.out, "No test results found for %s - no data to display\n", displayName(t))
		return
	}
	fmt.Fprintln(v.out, strings.Join(header, "  "))
	for _, rec := range data {
		fmt.Fprintln(v.out, strings.Join(rec, "  "))
	}
	fmt.Fprintf(v.out, "(%d of the raw rows shown)\n", len(data))
}

func (v *Viewer) listFiles() {
	entries := v.loadEntries()
	if len(entries) == 0 {
		fmt.Fprintln(v.out, "No test results found - no data to display")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(v.out, "%s (%s)\n", displayName(e.Summary.Type), e.Dir)
		for _, art := range e.Artifacts {
			fmt.Fprintf(v.out, "  - [%-10s] %-40s %8.1f KB\n",
				art.Type, art.File, float64(art.Size)/1024)
		}
	}
}
