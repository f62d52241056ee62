package harness

// Aggregate computes run-level metrics from scored outcomes.
//
// Rate metrics and average latency are computed over error-free outcomes
// only; an errored scenario carries no signal about action selection or
// template quality. error_rate is computed over all outcomes. With zero
// error-free outcomes the quality metrics are 0, not NaN.
func Aggregate(outcomes []Outcome) Metrics {
	metrics := Metrics{
		MetricActionAccuracy: 0,
		MetricLiquidValid:    0,
		MetricRendersToJSON:  0,
		MetricAvgLatencyMS:   0,
		MetricErrorRate:      0,
	}
	if len(outcomes) == 0 {
		return metrics
	}

	var succeeded, correct, liquidValid, rendersJSON, errored int
	var totalLatency float64

	for _, o := range outcomes {
		if o.Error != "" {
			errored++
			continue
		}
		succeeded++
		if o.ActionCorrect {
			correct++
		}
		if o.LiquidValid {
			liquidValid++
		}
		if o.RendersToJSON {
			rendersJSON++
		}
		totalLatency += o.LatencyMS
	}

	if succeeded > 0 {
		n := float64(succeeded)
		metrics[MetricActionAccuracy] = float64(correct) / n * 100
		metrics[MetricLiquidValid] = float64(liquidValid) / n * 100
		metrics[MetricRendersToJSON] = float64(rendersJSON) / n * 100
		metrics[MetricAvgLatencyMS] = totalLatency / n
	}
	metrics[MetricErrorRate] = float64(errored) / float64(len(outcomes)) * 100

	return metrics
}
