package report

// This file contains the shared utilities for loading and parsing report
// artifacts, used by the list/view commands and the dashboard.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/instrsim/instrsim/model"
)

// Entry is one test type's report directory: its parsed summary and the
// artifacts found alongside it.
type Entry struct {
	Summary   model.Summary
	Dir       string
	Artifacts []model.Artifact
}

// LoadEntries loads every test type directory under baseDir that carries a
// parseable stats JSON. Malformed artifacts are logged and skipped, never
// fatal. A missing reports directory yields an empty result.
func LoadEntries(logger zerolog.Logger, baseDir string) ([]Entry, error) {
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		return nil, nil
	}

	var entries []Entry
	for _, t := range model.AllTestTypes() {
		entry, err := LoadEntry(logger, baseDir, t)
		if err != nil {
			logger.Warn().Err(err).Str("test", string(t)).Msg("Failed to load report entry")
			continue
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

// LoadEntry loads one test type's report directory. Returns (nil, nil) when
// no report exists for that type.
func LoadEntry(logger zerolog.Logger, baseDir string, t model.TestType) (*Entry, error) {
	dir := filepath.Join(baseDir, string(t))
	statsPath := filepath.Join(dir, fmt.Sprintf("%s_stats.json", t))
	if _, err := os.Stat(statsPath); os.IsNotExist(err) {
		return nil, nil
	}

	sum, err := parseSummary(statsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", statsPath, err)
	}

	artifacts, err := scanArtifacts(dir)
	if err != nil {
		return nil, err
	}

	return &Entry{Summary: sum, Dir: dir, Artifacts: artifacts}, nil
}

func parseSummary(path string) (model.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Summary{}, err
	}
	var sum model.Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}

// scanArtifacts classifies the files in a report directory by suffix.
func scanArtifacts(dir string) ([]model.Artifact, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var artifacts []model.Artifact
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		var t model.ArtifactType
		switch {
		case strings.HasSuffix(name, "_data.csv"):
			t = model.ArtifactTypeRawCSV
		case strings.HasSuffix(name, "_stats.json"):
			t = model.ArtifactTypeStatsJSON
		case strings.HasSuffix(name, "_spc.png"), strings.HasSuffix(name, "_range.png"):
			t = model.ArtifactTypeSPCChartPNG
		case strings.HasSuffix(name, ".png"):
			t = model.ArtifactTypeTimeSeriesPNG
		default:
			continue
		}
		var size uint64
		if info, err := f.Info(); err == nil {
			size = uint64(info.Size())
		}
		artifacts = append(artifacts, model.Artifact{Type: t, Size: size, File: name})
	}
	return artifacts, nil
}

// ReadDataHead reads the raw CSV header and up to n data rows for a test
// type, for the viewer and the dashboard's raw-data table.
func ReadDataHead(baseDir string, t model.TestType, n int) (header []string, rows [][]string, err error) {
	path := filepath.Join(baseDir, string(t), fmt.Sprintf("%s_data.csv", t))
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open raw data: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err = cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for len(rows) < n {
		rec, err := cr.Read()
		if err != nil {
			break
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// CountDataRows counts the data rows (excluding the header) in a test
// type's raw CSV.
func CountDataRows(baseDir string, t model.TestType) (int, error) {
	path := filepath.Join(baseDir, string(t), fmt.Sprintf("%s_data.csv", t))
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open raw data: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	// Variable-width rows across test types
	cr.FieldsPerRecord = -1
	count := -1 // discount the header
	for {
		if _, err := cr.Read(); err != nil {
			break
		}
		count++
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}
