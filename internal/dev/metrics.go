package dev

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics for the dev server.
type metrics struct {
	updatesSent      prometheus.Counter
	reloadsSent      prometheus.Counter
	transformErrors  prometheus.Counter
	buildsTotal      *prometheus.CounterVec
	buildDuration    prometheus.Histogram
	connectedClients prometheus.Gauge
}

// globalMetrics is the singleton metrics instance, created on first use.
var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

func initMetrics() *metrics {
	factory := promauto.With(prometheus.DefaultRegisterer)

	return &metrics{
		updatesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lumen",
			Name:      "updates_sent_total",
			Help:      "Total number of hot update messages broadcast to clients",
		}),

		reloadsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lumen",
			Name:      "reloads_sent_total",
			Help:      "Total number of full reload messages broadcast to clients",
		}),

		transformErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lumen",
			Name:      "transform_errors_total",
			Help:      "Total number of per-module transform failures",
		}),

		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumen",
			Name:      "builds_total",
			Help:      "Total number of bundle builds by status",
		}, []string{"status"}),

		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lumen",
			Name:      "build_duration_seconds",
			Help:      "Bundle build duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		connectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lumen",
			Name:      "connected_clients",
			Help:      "Number of connected update clients",
		}),
	}
}

func getMetrics() *metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = initMetrics()
	})
	return globalMetrics
}

func metricsUpdateSent() {
	getMetrics().updatesSent.Inc()
}

func metricsReloadSent() {
	getMetrics().reloadsSent.Inc()
}

func metricsTransformError() {
	getMetrics().transformErrors.Inc()
}

func metricsBuild(success bool, d time.Duration) {
	m := getMetrics()
	status := "success"
	if !success {
		status = "error"
	}
	m.buildsTotal.WithLabelValues(status).Inc()
	m.buildDuration.Observe(d.Seconds())
}

func metricsConnectedClients(delta int) {
	getMetrics().connectedClients.Add(float64(delta))
}
