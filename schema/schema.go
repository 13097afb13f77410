// Package schema has the records, enums and labels shared by all parts of covtree.
package schema

// MetricSummary is the rolled-up value of one metric over a whole tree.
// Ratio metrics fill Covered, Missed, Total and Percent; scalar metrics
// fill Amount only.
type MetricSummary struct {
	Metric     string  `json:"metric"`
	Covered    int     `json:"covered"`
	Missed     int     `json:"missed"`
	Total      int     `json:"total"`
	Amount     int     `json:"amount"`
	Percent    float64 `json:"percent"`
	HasPercent bool    `json:"has_percent"`
	IsRatio    bool    `json:"is_ratio"`
}

// SummaryResult is the outcome of parsing and merging a set of reports.
type SummaryResult struct {
	Root        string          `json:"root"`
	Format      string          `json:"format"`
	ReportCount int             `json:"report_count"`
	FileCount   int             `json:"file_count"`
	Metrics     []MetricSummary `json:"metrics"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// FileResult holds the coverage figures of a single source file.
type FileResult struct {
	Path           string  `json:"path"`
	Package        string  `json:"package"`
	CoveredLines   int     `json:"covered_lines"`
	MissedLines    int     `json:"missed_lines"`
	LinePercent    float64 `json:"line_percent"`
	HasLines       bool    `json:"has_lines"`
	CoveredBranch  int     `json:"covered_branches"`
	MissedBranch   int     `json:"missed_branches"`
	BranchPercent  float64 `json:"branch_percent"`
	HasBranches    bool    `json:"has_branches"`
	LinesOfCode    int     `json:"loc"`
	Complexity     int     `json:"complexity"`
	MethodCount    int     `json:"methods"`
	MissedLineList []int   `json:"missed_line_numbers,omitempty"`
}

// PackageResult holds the rolled-up coverage figures of a package.
type PackageResult struct {
	Name          string  `json:"name"`
	FileCount     int     `json:"files"`
	CoveredLines  int     `json:"covered_lines"`
	MissedLines   int     `json:"missed_lines"`
	LinePercent   float64 `json:"line_percent"`
	HasLines      bool    `json:"has_lines"`
	BranchPercent float64 `json:"branch_percent"`
	HasBranches   bool    `json:"has_branches"`
	LinesOfCode   int     `json:"loc"`
	Tests         int     `json:"tests"`
}
