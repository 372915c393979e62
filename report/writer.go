// Package report serializes test runs to the reports directory and reads
// them back for the viewers. Each test type owns one directory; rerunning a
// simulation replaces that directory's artifacts wholesale.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/instrsim/instrsim/model"
)

// Writer persists a TestRun and its Summary as CSV, JSON and PNG artifacts
// under <baseDir>/<test-type>/.
type Writer struct {
	logger  zerolog.Logger
	baseDir string
}

// NewWriter returns a writer rooted at baseDir.
func NewWriter(logger zerolog.Logger, baseDir string) *Writer {
	return &Writer{logger: logger, baseDir: baseDir}
}

// Write replaces the test type's directory and writes all artifacts for the
// run. Returns the artifact descriptors with their on-disk sizes.
func (w *Writer) Write(run *model.TestRun, sum *model.Summary) ([]model.Artifact, error) {
	dir := filepath.Join(w.baseDir, string(run.Type))

	// Wholesale replacement: no incremental merge with prior runs.
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear report directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var artifacts []model.Artifact

	csvName := fmt.Sprintf("%s_data.csv", run.Type)
	if err := w.writeCSV(filepath.Join(dir, csvName), run); err != nil {
		return nil, err
	}
	artifacts = registerFile(artifacts, dir, csvName, model.ArtifactTypeRawCSV)

	jsonName := fmt.Sprintf("%s_stats.json", run.Type)
	if err := w.writeJSON(filepath.Join(dir, jsonName), sum); err != nil {
		return nil, err
	}
	artifacts = registerFile(artifacts, dir, jsonName, model.ArtifactTypeStatsJSON)

	chartArtifacts, err := renderCharts(dir, run, sum)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, chartArtifacts...)

	w.logger.Debug().
		Str("dir", dir).
		Str("run_id", run.ID).
		Int("artifacts", len(artifacts)).
		Msg("Wrote report artifacts")
	return artifacts, nil
}

func (w *Writer) writeCSV(path string, run *model.TestRun) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if len(run.Points) > 0 {
		if err := cw.Write([]string{"sequence", "group", "test_point", "value", "pass"}); err != nil {
			return err
		}
		for _, p := range run.Points {
			rec := []string{
				strconv.Itoa(p.Sequence),
				p.Group,
				p.Point,
				strconv.FormatFloat(p.Value, 'f', -1, 64),
				boolFlag(p.Pass),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	} else {
		header := append([]string{"timestamp"}, run.Channels...)
		header = append(header, "pass")
		if err := cw.Write(header); err != nil {
			return err
		}
		rec := make([]string, len(header))
		for _, s := range run.Samples {
			rec[0] = s.Timestamp.Format(time.RFC3339Nano)
			for i, v := range s.Values {
				rec[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
			rec[len(rec)-1] = boolFlag(s.Pass)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeJSON(path string, sum *model.Summary) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
