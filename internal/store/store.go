// Package store persists run artifacts: gob snapshots of statistics
// tables, report text, and the serialized gist payload. Every write
// overwrites any previous artifact at the same path; re-runs against the
// same code state intentionally share file names.
package store

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"benchreport/internal/bench"
)

// ErrIO indicates a local artifact could not be written or read.
var ErrIO = errors.New("artifact i/o failed")

// SaveStats writes a labeled set of statistics tables as a gob snapshot.
func SaveStats(path string, stats map[string]*bench.CaseStatistics) error {
	return saveGob(path, stats)
}

// LoadStats reads a snapshot written by SaveStats.
func LoadStats(path string) (map[string]*bench.CaseStatistics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open snapshot %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	var stats map[string]*bench.CaseStatistics
	if err := gob.NewDecoder(f).Decode(&stats); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot %s: %v", ErrIO, path, err)
	}
	return stats, nil
}

// SaveJudgement writes a judgement as a gob snapshot.
func SaveJudgement(path string, j *bench.Judgement) error {
	return saveGob(path, j)
}

// LoadJudgement reads a snapshot written by SaveJudgement.
func LoadJudgement(path string) (*bench.Judgement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open snapshot %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	var j bench.Judgement
	if err := gob.NewDecoder(f).Decode(&j); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot %s: %v", ErrIO, path, err)
	}
	return &j, nil
}

// WriteText creates or truncates path and writes content in one logical
// operation. The content lands in a temp file first and is renamed into
// place, so a concurrent reader never observes a half-written file.
func WriteText(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", ErrIO, dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename into %s: %v", ErrIO, path, err)
	}
	return nil
}

// WriteJSON serializes v as indented JSON using the same atomic write.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrIO, path, err)
	}
	return WriteText(path, string(data)+"\n")
}

func saveGob(path string, v any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", ErrIO, dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode snapshot %s: %v", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close snapshot %s: %v", ErrIO, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename into %s: %v", ErrIO, path, err)
	}
	return nil
}
