package schema

// CheckResult holds the results of a quality gate.
type CheckResult struct {
	Passed      bool              `json:"passed"`
	ReportCount int               `json:"report_count"`
	Evaluations []CheckEvaluation `json:"evaluations"`
}

// CheckEvaluation is one threshold compared against the merged aggregate.
type CheckEvaluation struct {
	Metric    string  `json:"metric"`
	Threshold float64 `json:"threshold"`
	Percent   float64 `json:"percent"`
	Covered   int     `json:"covered"`
	Total     int     `json:"total"`
	Measured  bool    `json:"measured"` // false when the reports carry no data for the metric
	Passed    bool    `json:"passed"`
}

// Violations returns the evaluations that did not pass.
func (r CheckResult) Violations() []CheckEvaluation {
	var out []CheckEvaluation
	for _, e := range r.Evaluations {
		if !e.Passed {
			out = append(out, e)
		}
	}
	return out
}
