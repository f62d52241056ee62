package harness

import "time"

// Delta directions.
const (
	DirectionImproved     = "improved"
	DirectionRegressed    = "regressed"
	DirectionUnchanged    = "unchanged"
	DirectionNotAvailable = "not available"
)

// lowerIsBetter marks metrics whose polarity is inverted: a drop in
// latency or error rate is an improvement.
var lowerIsBetter = map[string]bool{
	MetricAvgLatencyMS: true,
	MetricErrorRate:    true,
}

// MetricDelta is the change in one metric between two runs.
type MetricDelta struct {
	Metric    string  `json:"metric"`
	Before    float64 `json:"before"`
	After     float64 `json:"after"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}

// Comparison is the per-metric delta table between two runs.
type Comparison struct {
	BeforeTimestamp   time.Time     `json:"before_timestamp"`
	AfterTimestamp    time.Time     `json:"after_timestamp"`
	BeforeFingerprint string        `json:"before_prompt_fingerprint"`
	AfterFingerprint  string        `json:"after_prompt_fingerprint"`
	Deltas            []MetricDelta `json:"metric_changes"`
}

// Compare diffs two runs metric by metric.
//
// A metric missing from either run is reported with direction
// "not available" instead of failing the comparison; older snapshots
// may predate a metric. Comparing B against A negates every delta of
// comparing A against B.
func Compare(before, after *EvalRun) *Comparison {
	comparison := &Comparison{
		BeforeTimestamp:   before.Timestamp,
		AfterTimestamp:    after.Timestamp,
		BeforeFingerprint: before.PromptFingerprint,
		AfterFingerprint:  after.PromptFingerprint,
	}

	for _, metric := range metricOrder {
		beforeVal, beforeOK := before.Metrics[metric]
		afterVal, afterOK := after.Metrics[metric]

		delta := MetricDelta{Metric: metric, Before: beforeVal, After: afterVal}
		if !beforeOK || !afterOK {
			delta.Direction = DirectionNotAvailable
		} else {
			delta.Delta = afterVal - beforeVal
			delta.Direction = direction(metric, delta.Delta)
		}
		comparison.Deltas = append(comparison.Deltas, delta)
	}

	return comparison
}

func direction(metric string, delta float64) string {
	switch {
	case delta == 0:
		return DirectionUnchanged
	case delta > 0 != lowerIsBetter[metric]:
		return DirectionImproved
	default:
		return DirectionRegressed
	}
}
