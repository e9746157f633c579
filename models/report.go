package models

import "time"

// BandwidthStats are the cumulative savings achieved by batching and
// compressing outbound traffic.
type BandwidthStats struct {
	BatchesSent      int64   `json:"batches_sent"`
	OperationsSent   int64   `json:"operations_sent"`
	RawBytes         int64   `json:"raw_bytes"`
	CompressedBytes  int64   `json:"compressed_bytes"`
	BytesSaved       int64   `json:"bytes_saved"`
	AverageBatchSize float64 `json:"average_batch_size"`
}

// LatencySummary holds percentiles of publish-to-acknowledge latency.
type LatencySummary struct {
	Samples int           `json:"samples"`
	P50     time.Duration `json:"p50"`
	P95     time.Duration `json:"p95"`
	P99     time.Duration `json:"p99"`
}

// AnalyticsReport is a point-in-time snapshot of sync health produced by the
// analytics service and exportable as JSON or CSV for diagnostics.
type AnalyticsReport struct {
	GeneratedAt time.Time `json:"generated_at"`

	Operations        int64 `json:"operations"`
	ConflictsRaised   int64 `json:"conflicts_raised"`
	ConflictsResolved int64 `json:"conflicts_resolved"`
	DeadLetters       int64 `json:"dead_letters"`

	// ConflictRate is conflicts raised per hundred operations.
	ConflictRate float64 `json:"conflict_rate"`

	// FailureRate is dead-lettered operations per hundred operations.
	FailureRate float64 `json:"failure_rate"`

	// BacklogTrend is the slope of recent queue-depth samples: positive
	// means the backlog is growing.
	BacklogTrend float64 `json:"backlog_trend"`

	// HealthScore aggregates conflict rate, failure rate, and backlog
	// trend into a 0–100 score.
	HealthScore float64 `json:"health_score"`

	Latency   LatencySummary `json:"latency"`
	Bandwidth BandwidthStats `json:"bandwidth"`
}
