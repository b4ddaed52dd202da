package quality

import (
	"fmt"

	"github.com/wonny/energytrends/pkg/config"
	"github.com/wonny/energytrends/pkg/logger"
)

// Check names reported in Failure.Check
const (
	CheckRowCount      = "row_count"
	CheckSchema        = "schema"
	CheckMissingValues = "missing_values"
)

// Thresholds are the limits every check set is evaluated against
// ⭐ SSOT: inline / standalone 검증은 같은 임계값을 공유
type Thresholds struct {
	MinRows    int `yaml:"min_rows"`
	MaxMissing int `yaml:"max_missing"`
}

// ThresholdsFrom reads the thresholds from the pipeline config
func ThresholdsFrom(cfg *config.Config) Thresholds {
	return Thresholds{
		MinRows:    cfg.Pipeline.MinRows,
		MaxMissing: cfg.Pipeline.MaxMissing,
	}
}

// CheckSet selects which checks a Gate runs
type CheckSet struct {
	Name          string
	Required      []string
	MissingBudget bool
}

// InlineChecks is run against freshly reshaped records before they are written
func InlineChecks() CheckSet {
	return CheckSet{
		Name:     "inline",
		Required: []string{"event_date", "series_name", "value"},
	}
}

// FullChecks is run against a persisted snapshot
func FullChecks() CheckSet {
	return CheckSet{
		Name:          "full",
		Required:      []string{"event_date", "event_year", "event_quarter", "series_name", "value"},
		MissingBudget: true,
	}
}

// Failure is a breached check. Reason carries the actual and threshold values.
type Failure struct {
	Check  string
	Reason string
}

func (f *Failure) Error() string {
	return "quality check failed: " + f.Reason
}

// Gate validates a Dataset against Thresholds
type Gate struct {
	thresholds Thresholds
	checks     CheckSet
	logger     *logger.Logger
}

// NewGate creates a Gate running checks with thresholds
func NewGate(thresholds Thresholds, checks CheckSet, log *logger.Logger) *Gate {
	return &Gate{
		thresholds: thresholds,
		checks:     checks,
		logger:     log.Module("quality").WithField("checks", checks.Name),
	}
}

// Thresholds returns the limits the gate enforces
func (g *Gate) Thresholds() Thresholds {
	return g.thresholds
}

// Check runs row count, schema and (when enabled) missing-value checks in
// that order. The first breach is returned as *Failure.
func (g *Gate) Check(ds Dataset) error {
	g.logger.Info("Starting quality checks")

	// 1. Row count
	rows := ds.Len()
	g.logger.WithField("rows", rows).Info("Row count")
	if rows < g.thresholds.MinRows {
		return g.fail(CheckRowCount, fmt.Sprintf("row count %d below threshold %d", rows, g.thresholds.MinRows))
	}

	// 2. Required columns
	if missing := missingColumns(ds.Columns(), g.checks.Required); len(missing) > 0 {
		return g.fail(CheckSchema, fmt.Sprintf("missing required columns %v", missing))
	}

	// 3. Missing values across required columns
	if g.checks.MissingBudget {
		total := 0
		for _, col := range g.checks.Required {
			total += ds.NullCount(col)
		}
		g.logger.WithField("missing", total).Info("Total missing values")
		if total > g.thresholds.MaxMissing {
			return g.fail(CheckMissingValues, fmt.Sprintf("missing values %d exceed threshold %d", total, g.thresholds.MaxMissing))
		}
	}

	g.logger.Info("All quality checks passed")
	return nil
}

func (g *Gate) fail(check, reason string) error {
	g.logger.WithField("check", check).Error(reason)
	return &Failure{Check: check, Reason: reason}
}

func missingColumns(have, required []string) []string {
	present := make(map[string]bool, len(have))
	for _, c := range have {
		present[c] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
