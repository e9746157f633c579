package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/keyfold/syncengine/models"
)

const (
	// maxLatencySamples caps the percentile window; older samples are
	// discarded so the summary reflects recent behavior.
	maxLatencySamples = 1024

	// maxDepthSamples caps the backlog trend window.
	maxDepthSamples = 256
)

type analyticsService struct {
	bandwidth func() models.BandwidthStats

	mu                sync.Mutex
	operations        int64
	conflictsRaised   int64
	conflictsResolved int64
	deadLetters       int64
	latencies         []time.Duration
	depths            []float64
}

// NewAnalyticsService creates the passive metrics collector. bandwidth reads
// the optimizer's cumulative counters at report time.
func NewAnalyticsService(bandwidth func() models.BandwidthStats) AnalyticsService {
	return &analyticsService{bandwidth: bandwidth}
}

func (a *analyticsService) RecordOperation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.operations++
}

func (a *analyticsService) RecordConflictRaised() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conflictsRaised++
}

func (a *analyticsService) RecordConflictResolved() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conflictsResolved++
}

func (a *analyticsService) RecordDeadLetter() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deadLetters++
}

func (a *analyticsService) RecordLatency(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.latencies = append(a.latencies, d)
	if len(a.latencies) > maxLatencySamples {
		a.latencies = a.latencies[len(a.latencies)-maxLatencySamples:]
	}
}

func (a *analyticsService) SampleQueueDepth(depth int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.depths = append(a.depths, float64(depth))
	if len(a.depths) > maxDepthSamples {
		a.depths = a.depths[len(a.depths)-maxDepthSamples:]
	}
}

func (a *analyticsService) Report() models.AnalyticsReport {
	a.mu.Lock()

	report := models.AnalyticsReport{
		GeneratedAt:       time.Now().UTC(),
		Operations:        a.operations,
		ConflictsRaised:   a.conflictsRaised,
		ConflictsResolved: a.conflictsResolved,
		DeadLetters:       a.deadLetters,
		Latency:           summarizeLatencies(a.latencies),
		BacklogTrend:      depthSlope(a.depths),
	}

	if a.operations > 0 {
		report.ConflictRate = float64(a.conflictsRaised) / float64(a.operations) * 100
		report.FailureRate = float64(a.deadLetters) / float64(a.operations) * 100
	}

	a.mu.Unlock()

	if a.bandwidth != nil {
		report.Bandwidth = a.bandwidth()
	}
	report.HealthScore = healthScore(report)

	return report
}

func (a *analyticsService) Export(format string) ([]byte, error) {
	report := a.Report()

	switch format {
	case "json":
		return json.MarshalIndent(report, "", "  ")

	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)

		records := [][]string{
			{"metric", "value"},
			{"generated_at", report.GeneratedAt.Format(time.RFC3339)},
			{"operations", strconv.FormatInt(report.Operations, 10)},
			{"conflicts_raised", strconv.FormatInt(report.ConflictsRaised, 10)},
			{"conflicts_resolved", strconv.FormatInt(report.ConflictsResolved, 10)},
			{"dead_letters", strconv.FormatInt(report.DeadLetters, 10)},
			{"conflict_rate", strconv.FormatFloat(report.ConflictRate, 'f', 2, 64)},
			{"failure_rate", strconv.FormatFloat(report.FailureRate, 'f', 2, 64)},
			{"backlog_trend", strconv.FormatFloat(report.BacklogTrend, 'f', 4, 64)},
			{"health_score", strconv.FormatFloat(report.HealthScore, 'f', 1, 64)},
			{"latency_p50_ms", strconv.FormatInt(report.Latency.P50.Milliseconds(), 10)},
			{"latency_p95_ms", strconv.FormatInt(report.Latency.P95.Milliseconds(), 10)},
			{"latency_p99_ms", strconv.FormatInt(report.Latency.P99.Milliseconds(), 10)},
			{"batches_sent", strconv.FormatInt(report.Bandwidth.BatchesSent, 10)},
			{"operations_sent", strconv.FormatInt(report.Bandwidth.OperationsSent, 10)},
			{"bytes_saved", strconv.FormatInt(report.Bandwidth.BytesSaved, 10)},
		}
		if err := w.WriteAll(records); err != nil {
			return nil, fmt.Errorf("write csv report: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func summarizeLatencies(samples []time.Duration) models.LatencySummary {
	if len(samples) == 0 {
		return models.LatencySummary{}
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return models.LatencySummary{
		Samples: len(sorted),
		P50:     percentile(sorted, 0.50),
		P95:     percentile(sorted, 0.95),
		P99:     percentile(sorted, 0.99),
	}
}

// percentile expects sorted input (nearest-rank method).
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// depthSlope fits a least-squares line through the recent queue-depth
// samples. A positive slope means the backlog is growing.
func depthSlope(depths []float64) float64 {
	n := float64(len(depths))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range depths {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// healthScore starts from 100 and deducts for conflicts, permanent failures,
// and a growing backlog. Clamped to [0, 100].
func healthScore(report models.AnalyticsReport) float64 {
	score := 100.0
	score -= report.ConflictRate * 2
	score -= report.FailureRate * 5
	if report.BacklogTrend > 0 {
		score -= report.BacklogTrend * 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
