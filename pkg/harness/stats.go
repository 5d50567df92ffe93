/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stats.go
Description: Iteration statistics for the RESP fuzzing harness. Counters
over executions, sent commands, and outcome classes, exposed in Prometheus
text form for post-run inspection. Per-process only: the engine restarts the
harness each iteration, so these mainly matter in standalone soak runs.
*/

package harness

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var (
	iterationsTotal = metrics.NewCounter("respfuzz_iterations_total")
	commandsSent    = metrics.NewCounter("respfuzz_commands_sent_total")

	cleanTotal = metrics.NewCounter(`respfuzz_iterations_outcome_total{outcome="clean"}`)
	hangTotal  = metrics.NewCounter(`respfuzz_iterations_outcome_total{outcome="hang"}`)
	crashTotal = metrics.NewCounter(`respfuzz_iterations_outcome_total{outcome="crash"}`)
)

func countStatus(s Status) {
	switch s {
	case StatusClean:
		cleanTotal.Inc()
	case StatusHang:
		hangTotal.Inc()
	case StatusCrash:
		crashTotal.Inc()
	}
}

// WriteStats dumps all harness counters in Prometheus text format.
func WriteStats(w io.Writer) {
	metrics.WritePrometheus(w, false)
}
