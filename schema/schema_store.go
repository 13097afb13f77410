package schema

import "time"

// NodeMetric is one rolled-up value of one tree node, ready to be stored.
type NodeMetric struct {
	NodePath   string // slash-joined names from the root, e.g. "mod/pkg/file.go"
	NodeMetric string // containment metric of the node, e.g. "FILE"
	Metric     string
	Covered    int
	Missed     int
	Amount     int
}

// RunRecord represents a row from the covtree_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	ReportCount   int32
	Format        string
	ConfigParams  *string
}

// NodeMetricRecord represents a row from the covtree_node_metrics table.
type NodeMetricRecord struct {
	RunID      int64
	NodePath   string
	NodeMetric string
	Metric     string
	Covered    int32
	Missed     int32
	Amount     int32
}
