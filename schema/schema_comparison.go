package schema

// ComparisonDetail holds the base and target percentages of one metric or file.
type ComparisonDetail struct {
	Key           string  `json:"key"`            // metric name or file path
	BeforePercent float64 `json:"before_percent"` // percentage in the base reports
	AfterPercent  float64 `json:"after_percent"`  // percentage in the target reports
	Delta         float64 `json:"delta"`          // AfterPercent - BeforePercent (positive means better)
	BeforeTotal   int     `json:"before_total"`
	AfterTotal    int     `json:"after_total"`
	Status        Status  `json:"status"`
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	LineDelta      float64 `json:"line_delta"`
	TotalNew       int     `json:"total_new_files"`
	TotalRemoved   int     `json:"total_removed_files"`
	TotalChanged   int     `json:"total_changed_files"`
	TotalUnchanged int     `json:"total_unchanged_files"`
}

// ComparisonResult holds the metric and file deltas between two report sets.
type ComparisonResult struct {
	Metrics []ComparisonDetail `json:"metrics"`
	Files   []ComparisonDetail `json:"files"`
	Summary ComparisonSummary  `json:"summary"`
}
