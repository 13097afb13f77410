package coverage

import (
	"errors"
	"fmt"
)

// Errors returned by the tree model.
var (
	ErrIncompatibleMetric   = errors.New("incompatible metric")
	ErrInvalidTreeStructure = errors.New("invalid tree structure")
	ErrNegativeValue        = errors.New("negative value")
)

// Value is an immutable measurement of one metric. Ratio metrics carry
// covered and missed counts; scalar metrics carry an amount.
type Value struct {
	metric  Metric
	covered int
	missed  int
	amount  int
}

// NewCoverage creates a ratio value.
func NewCoverage(metric Metric, covered, missed int) (Value, error) {
	if !metric.IsRatio() {
		return Value{}, fmt.Errorf("%w: %s is not a ratio metric", ErrIncompatibleMetric, metric)
	}
	if covered < 0 || missed < 0 {
		return Value{}, fmt.Errorf("%w: %s covered=%d missed=%d", ErrNegativeValue, metric, covered, missed)
	}
	return Value{metric: metric, covered: covered, missed: missed}, nil
}

// NewValue creates a scalar value.
func NewValue(metric Metric, amount int) (Value, error) {
	if metric.IsRatio() {
		return Value{}, fmt.Errorf("%w: %s is not a scalar metric", ErrIncompatibleMetric, metric)
	}
	if amount < 0 {
		return Value{}, fmt.Errorf("%w: %s amount=%d", ErrNegativeValue, metric, amount)
	}
	return Value{metric: metric, amount: amount}, nil
}

// presence is the synthesized value of a containment metric.
func presence(metric Metric, covered bool) Value {
	if covered {
		return Value{metric: metric, covered: 1}
	}
	return Value{metric: metric, missed: 1}
}

// Metric returns the measured metric.
func (v Value) Metric() Metric { return v.metric }

// IsRatio reports whether v is a covered/missed pair.
func (v Value) IsRatio() bool { return v.metric.IsRatio() }

// Covered returns the covered count of a ratio value.
func (v Value) Covered() int { return v.covered }

// Missed returns the missed count of a ratio value.
func (v Value) Missed() int { return v.missed }

// Total returns covered+missed for ratios and the amount for scalars.
func (v Value) Total() int {
	if v.IsRatio() {
		return v.covered + v.missed
	}
	return v.amount
}

// Amount returns the amount of a scalar value.
func (v Value) Amount() int { return v.amount }

// Add combines two values of the same metric by summing their components.
func (v Value) Add(other Value) (Value, error) {
	if v.metric != other.metric {
		return Value{}, fmt.Errorf("%w: cannot add %s to %s", ErrIncompatibleMetric, other.metric, v.metric)
	}
	return Value{
		metric:  v.metric,
		covered: v.covered + other.covered,
		missed:  v.missed + other.missed,
		amount:  v.amount + other.amount,
	}, nil
}

// Percentage returns covered/total as a fraction in [0,1]. The second
// result is false when the percentage is undefined: a zero total or a
// scalar value.
func (v Value) Percentage() (float64, bool) {
	total := v.covered + v.missed
	if !v.IsRatio() || total == 0 {
		return 0, false
	}
	return float64(v.covered) / float64(total), true
}

// String renders the value as "LINE: 23/33 (69.70%)" or "LOC: 33".
func (v Value) String() string {
	if !v.IsRatio() {
		return fmt.Sprintf("%s: %d", v.metric, v.amount)
	}
	pct, ok := v.Percentage()
	if !ok {
		return fmt.Sprintf("%s: %d/%d (n/a)", v.metric, v.covered, v.Total())
	}
	return fmt.Sprintf("%s: %d/%d (%.2f%%)", v.metric, v.covered, v.Total(), pct*100)
}

// addValue accumulates v into values, keyed by metric.
func addValue(values map[Metric]Value, v Value) {
	if existing, ok := values[v.metric]; ok {
		values[v.metric], _ = existing.Add(v)
		return
	}
	values[v.metric] = v
}
