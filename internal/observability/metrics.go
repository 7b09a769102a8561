package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec
	activitiesGraded  *prometheus.CounterVec
	lessonsCompleted  prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hearth_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		activitiesGraded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_activities_graded_total",
			Help: "Total number of activity submissions graded, by type and outcome.",
		}, []string{"activity_type", "result"})

		lessonsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hearth_lessons_completed_total",
			Help: "Total number of lesson completions recorded.",
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, activitiesGraded, lessonsCompleted)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ActivitiesGraded exposes the grading outcome counter.
func ActivitiesGraded() *prometheus.CounterVec {
	RegisterMetrics()
	return activitiesGraded
}

// LessonsCompleted exposes the lesson completion counter.
func LessonsCompleted() prometheus.Counter {
	RegisterMetrics()
	return lessonsCompleted
}
