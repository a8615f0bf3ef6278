package domain

import "time"

// SyncResult counts the outcome of one sweep over a set of records.
type SyncResult struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// SyncSummary is returned by the status recalculation job.
type SyncSummary struct {
	SyncResult
	Installations SyncResult    `json:"installations"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}
