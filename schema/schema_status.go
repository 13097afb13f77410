package schema

import "time"

// StoreStatus represents the status of the result store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalReportsRead int              `json:"total_reports_read"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
