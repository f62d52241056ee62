package harness

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestAggregate_Empty(t *testing.T) {
	metrics := Aggregate(nil)

	assert.Equal(t, 0.0, metrics[MetricActionAccuracy])
	assert.Equal(t, 0.0, metrics[MetricErrorRate])
	assert.Equal(t, 0.0, metrics[MetricAvgLatencyMS])
}

func TestAggregate_AllCorrect(t *testing.T) {
	outcomes := []Outcome{
		{ActionCorrect: true, LiquidValid: true, RendersToJSON: true, LatencyMS: 100},
		{ActionCorrect: true, LiquidValid: true, RendersToJSON: true, LatencyMS: 200},
	}

	metrics := Aggregate(outcomes)

	assert.Equal(t, 100.0, metrics[MetricActionAccuracy])
	assert.Equal(t, 100.0, metrics[MetricLiquidValid])
	assert.Equal(t, 100.0, metrics[MetricRendersToJSON])
	assert.Equal(t, 150.0, metrics[MetricAvgLatencyMS])
	assert.Equal(t, 0.0, metrics[MetricErrorRate])
}

func TestAggregate_MixedResults(t *testing.T) {
	outcomes := []Outcome{
		{ActionCorrect: true, LiquidValid: true, RendersToJSON: true, LatencyMS: 100},
		{ActionCorrect: false, LiquidValid: true, RendersToJSON: false, LatencyMS: 300},
		{ActionCorrect: true, LiquidValid: false, RendersToJSON: false, LatencyMS: 200},
		{ActionCorrect: false, LiquidValid: false, RendersToJSON: false, LatencyMS: 400},
	}

	metrics := Aggregate(outcomes)

	assert.Equal(t, 50.0, metrics[MetricActionAccuracy])
	assert.Equal(t, 50.0, metrics[MetricLiquidValid])
	assert.Equal(t, 25.0, metrics[MetricRendersToJSON])
	assert.Equal(t, 250.0, metrics[MetricAvgLatencyMS])
	assert.Equal(t, 0.0, metrics[MetricErrorRate])
}

func TestAggregate_ErroredOutcomesExcludedFromQualityMetrics(t *testing.T) {
	outcomes := []Outcome{
		{ActionCorrect: true, LiquidValid: true, RendersToJSON: true, LatencyMS: 100},
		{Error: "connection refused"},
		{ActionCorrect: true, LiquidValid: true, RendersToJSON: true, LatencyMS: 300},
		{Error: "agent panicked: nil deref"},
	}

	metrics := Aggregate(outcomes)

	// Quality metrics are over the two error-free outcomes only.
	assert.Equal(t, 100.0, metrics[MetricActionAccuracy])
	assert.Equal(t, 200.0, metrics[MetricAvgLatencyMS])
	// error_rate is over all four.
	assert.Equal(t, 50.0, metrics[MetricErrorRate])
}

func TestAggregate_AllErrored(t *testing.T) {
	outcomes := []Outcome{
		{Error: "boom"},
		{Error: "boom"},
	}

	metrics := Aggregate(outcomes)

	assert.Equal(t, 0.0, metrics[MetricActionAccuracy])
	assert.Equal(t, 0.0, metrics[MetricAvgLatencyMS])
	assert.Equal(t, 100.0, metrics[MetricErrorRate])
}

func genOutcome() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Float64Range(0, 5000),
		gen.Bool(),
	).Map(func(vals []interface{}) Outcome {
		o := Outcome{
			ActionCorrect: vals[0].(bool),
			LiquidValid:   vals[1].(bool),
			RendersToJSON: vals[2].(bool),
			LatencyMS:     vals[3].(float64),
		}
		if vals[4].(bool) {
			o = Outcome{Error: "invocation failed"}
		}
		return o
	})
}

func TestAggregate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rate metrics stay within [0, 100]", prop.ForAll(
		func(outcomes []Outcome) bool {
			metrics := Aggregate(outcomes)
			for _, name := range []string{MetricActionAccuracy, MetricLiquidValid, MetricRendersToJSON, MetricErrorRate} {
				if metrics[name] < 0 || metrics[name] > 100 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genOutcome()),
	))

	properties.Property("error_rate counts every errored outcome", prop.ForAll(
		func(outcomes []Outcome) bool {
			if len(outcomes) == 0 {
				return Aggregate(outcomes)[MetricErrorRate] == 0
			}
			errored := 0
			for _, o := range outcomes {
				if o.Error != "" {
					errored++
				}
			}
			want := float64(errored) / float64(len(outcomes)) * 100
			return Aggregate(outcomes)[MetricErrorRate] == want
		},
		gen.SliceOf(genOutcome()),
	))

	properties.Property("aggregation is order-independent", prop.ForAll(
		func(outcomes []Outcome) bool {
			reversed := make([]Outcome, len(outcomes))
			for i, o := range outcomes {
				reversed[len(outcomes)-1-i] = o
			}
			forward := Aggregate(outcomes)
			backward := Aggregate(reversed)
			for name, val := range forward {
				// Latency sums in a different order can differ in the
				// last float bits.
				if diff := backward[name] - val; diff > 1e-9 || diff < -1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genOutcome()),
	))

	properties.TestingRun(t)
}
