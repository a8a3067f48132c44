package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	syncedProductsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_products_total",
			Help: "Total number of products processed by catalog sync runs.",
		},
		[]string{"vendor", "result"},
	)
	syncedImagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_images_total",
			Help: "Total number of product images processed by catalog sync runs.",
		},
		[]string{"result"},
	)
	syncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_run_duration_seconds",
			Help:    "Histogram of catalog sync run durations.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"result"},
	)
	runningTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_running_tasks",
			Help: "Number of sync tasks currently running in this worker.",
		},
	)
)

func init() {
	prometheus.MustRegister(syncedProductsTotal)
	prometheus.MustRegister(syncedImagesTotal)
	prometheus.MustRegister(syncDuration)
	prometheus.MustRegister(runningTasks)
}

// RecordProducts records per-vendor product counters for one sync run.
func RecordProducts(vendor string, created, updated, deactivated, failed int32) {
	syncedProductsTotal.WithLabelValues(vendor, "created").Add(float64(created))
	syncedProductsTotal.WithLabelValues(vendor, "updated").Add(float64(updated))
	syncedProductsTotal.WithLabelValues(vendor, "deactivated").Add(float64(deactivated))
	syncedProductsTotal.WithLabelValues(vendor, "failed").Add(float64(failed))
}

// RecordImage records the outcome of one product image download.
func RecordImage(stored bool) {
	if stored {
		syncedImagesTotal.WithLabelValues("stored").Inc()
		return
	}
	syncedImagesTotal.WithLabelValues("failed").Inc()
}

// RecordRun records the duration and outcome of one sync run.
func RecordRun(duration time.Duration, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	syncDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// TaskStarted increments the running tasks gauge.
func TaskStarted() {
	runningTasks.Inc()
}

// TaskFinished decrements the running tasks gauge.
func TaskFinished() {
	runningTasks.Dec()
}

// Handler returns HTTP handler exporting the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
