package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	vsphereGenerator = "vsphere_generator"

	// Generation metrics
	recordsTotal      = "records_total"
	regionVMsTotal    = "region_vms_total"
	generationSeconds = "generation_duration_seconds"

	// Emitter metrics
	emittedFilesTotal = "emitted_files_total"

	// Labels
	kindLabel   = "kind"
	regionLabel = "region"
	formatLabel = "format"
)

var registry = prometheus.NewRegistry()

/**
* Metrics definition
**/
var recordsTotalMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: vsphereGenerator,
		Name:      recordsTotal,
		Help:      "number of generated records per entity kind",
	},
	[]string{kindLabel},
)

var regionVMsTotalMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: vsphereGenerator,
		Name:      regionVMsTotal,
		Help:      "number of generated virtual machines per region",
	},
	[]string{regionLabel},
)

var generationSecondsMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: vsphereGenerator,
		Name:      generationSeconds,
		Help:      "time spent building an inventory",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	},
)

var emittedFilesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: vsphereGenerator,
		Name:      emittedFilesTotal,
		Help:      "number of files written per output format",
	},
	[]string{formatLabel},
)

func UpdateRecordCountMetric(kind string, count int) {
	labels := prometheus.Labels{
		kindLabel: kind,
	}
	recordsTotalMetric.With(labels).Set(float64(count))
}

func UpdateRegionVMsMetric(region string, count int) {
	labels := prometheus.Labels{
		regionLabel: region,
	}
	regionVMsTotalMetric.With(labels).Set(float64(count))
}

func ObserveGenerationDuration(seconds float64) {
	generationSecondsMetric.Observe(seconds)
}

func IncreaseEmittedFilesMetric(format string, count int) {
	labels := prometheus.Labels{
		formatLabel: format,
	}
	emittedFilesTotalMetric.With(labels).Add(float64(count))
}

// WriteToTextfile dumps the registry in the node exporter textfile format.
func WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	registry.MustRegister(recordsTotalMetric)
	registry.MustRegister(regionVMsTotalMetric)
	registry.MustRegister(generationSecondsMetric)
	registry.MustRegister(emittedFilesTotalMetric)
}
