package credentials

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution chain metrics
	resolutionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluster_access_resolution_total",
			Help: "Total number of successful configuration resolutions",
		},
		[]string{"tier"}, // explicit, stored, in_cluster, default_file
	)

	resolutionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluster_access_resolution_errors_total",
			Help: "Total number of failed configuration resolutions",
		},
		[]string{"tier"}, // tier on which resolution stopped, or canceled
	)

	acquisitionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cluster_access_acquisition_duration_seconds",
			Help:    "Time spent inside a scoped client acquisition",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)
)
