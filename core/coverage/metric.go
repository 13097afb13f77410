// Package coverage has the unified coverage tree model: metrics, values,
// nodes and the aggregation and merge rules that operate on them.
package coverage

import (
	"fmt"
	"strings"
)

// Metric identifies what a Value measures. Metrics are ordered by rank:
// containment levels first (outermost to innermost), then leaf metrics.
type Metric int

// All metrics supported.
const (
	Container Metric = iota // synthetic root for merged modules
	Module
	Package
	File
	Class
	Method

	Line
	Branch
	Instruction
	McdcPair
	FunctionCall
	Mutation

	Complexity
	CognitiveComplexity
	NPathComplexity
	LOC
	NCSS
	Tests
)

var metricNames = [...]string{
	Container:           "CONTAINER",
	Module:              "MODULE",
	Package:             "PACKAGE",
	File:                "FILE",
	Class:               "CLASS",
	Method:              "METHOD",
	Line:                "LINE",
	Branch:              "BRANCH",
	Instruction:         "INSTRUCTION",
	McdcPair:            "MCDC_PAIR",
	FunctionCall:        "FUNCTION_CALL",
	Mutation:            "MUTATION",
	Complexity:          "COMPLEXITY",
	CognitiveComplexity: "COGNITIVE_COMPLEXITY",
	NPathComplexity:     "NPATH_COMPLEXITY",
	LOC:                 "LOC",
	NCSS:                "NCSS",
	Tests:               "TESTS",
}

// allowedChildren is the containment table used when attaching nodes.
var allowedChildren = map[Metric][]Metric{
	Container: {Module},
	Module:    {Package, File},
	Package:   {Package, File, Class},
	File:      {Class, Method},
	Class:     {Method},
}

// coverageMetrics are the ratio metrics that count as coverage data when
// deciding whether a container node is covered.
var coverageMetrics = []Metric{Line, Branch, Instruction, McdcPair, FunctionCall, Mutation}

// Metrics returns all metrics in rank order.
func Metrics() []Metric {
	all := make([]Metric, 0, len(metricNames))
	for m := range metricNames {
		all = append(all, Metric(m))
	}
	return all
}

// ParseMetric resolves a metric name. Matching is case-insensitive and
// accepts '-' in place of '_'.
func ParseMetric(name string) (Metric, error) {
	normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_")
	for m, n := range metricNames {
		if n == normalized {
			return Metric(m), nil
		}
	}
	return 0, fmt.Errorf("unknown metric '%s'", name)
}

// String returns the upper-case metric name.
func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return fmt.Sprintf("METRIC(%d)", int(m))
	}
	return metricNames[m]
}

// IsContainer reports whether the metric is a containment level.
func (m Metric) IsContainer() bool {
	return m >= Container && m <= Method
}

// IsRatio reports whether values of this metric are covered/missed pairs.
// Containment metrics are ratios of covered and missed nodes.
func (m Metric) IsRatio() bool {
	return m <= Mutation
}

// IsCoverage reports whether the metric counts as coverage data.
func (m Metric) IsCoverage() bool {
	return m >= Line && m <= Mutation
}

// Compare orders metrics by rank.
func (m Metric) Compare(other Metric) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

// CanContain reports whether a node of this metric may directly own a node
// of the child metric.
func (m Metric) CanContain(child Metric) bool {
	for _, c := range allowedChildren[m] {
		if c == child {
			return true
		}
	}
	return false
}

// Contains reports whether the metric is an ancestor of other in the
// containment hierarchy, directly or transitively.
func (m Metric) Contains(other Metric) bool {
	return m.IsContainer() && other.IsContainer() && m < other
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
