package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(conversionsTotal, conversionDuration, mergeInputs, scratchDirs) }

var conversionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversions_total",
		Help: "Conversions by operation and status (ok/unsupported/timeout/tool_error/io_error).",
	},
	[]string{"operation", "status"},
)

var conversionDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "conversion_duration_seconds",
		Help:    "Wall-clock duration of one conversion, per tool.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	},
	[]string{"tool", "success"},
)

var mergeInputs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "merge_input_files",
		Help:    "Number of PDFs per merge request.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	},
)

var scratchDirs = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "scratch_dirs_active",
		Help: "Scratch directories currently on disk.",
	},
)

func IncScratchDirs() { scratchDirs.Inc() }
func DecScratchDirs() { scratchDirs.Dec() }

func IncConversion(operation, status string) {
	conversionsTotal.WithLabelValues(norm(operation), norm(status)).Inc()
}

func ObserveConversion(tool string, seconds float64, success bool) {
	conversionDuration.WithLabelValues(norm(tool), strconv.FormatBool(success)).Observe(seconds)
}

func ObserveMergeInputs(n int) {
	mergeInputs.Observe(float64(n))
}
