// Package snapshot reads and writes the dated CSV files the pipeline
// publishes. One file per capture day; a same-day rerun replaces it.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wonny/energytrends/internal/contracts"
)

const (
	filePrefix     = "energy_supply_quarterly_"
	fileSuffix     = ".csv"
	fileDateLayout = "20060102"
)

// ErrNoSnapshot is returned when no snapshot CSV exists to validate
var ErrNoSnapshot = errors.New("no output CSV found to validate")

// FileName returns the snapshot filename for records captured at t
func FileName(t time.Time) string {
	return filePrefix + t.UTC().Format(fileDateLayout) + fileSuffix
}

// IsSnapshotName reports whether name follows the snapshot naming pattern
func IsSnapshotName(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix)
}

// Write stores records as dir/energy_supply_quarterly_<YYYYMMDD>.csv with a
// header row in contracts.EventColumns order. The file is replaced atomically.
// ⭐ SSOT: 스냅샷 CSV 포맷은 여기서만 정의
func Write(dir string, records []contracts.EventRecord, captured time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(contracts.EventColumns); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			tmp.Close()
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}

	path := filepath.Join(dir, FileName(captured))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("publish snapshot: %w", err)
	}

	return path, nil
}

// Latest returns the snapshot in dir with the greatest filename
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSnapshot
		}
		return "", fmt.Errorf("list output dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsSnapshotName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoSnapshot
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(dir, names[0]), nil
}
