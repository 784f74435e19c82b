package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"permit-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Truck lifecycle metrics
	TruckOperationsCounter prometheus.CounterVec

	// Permit metrics
	PermitsGeneratedCounter  prometheus.CounterVec
	PermitRejectionsCounter  prometheus.CounterVec
	AllocationRemainingGauge prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(appConfig *config.Config) {
	// Use metric prefix from configuration
	prefix := appConfig.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	TruckOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_truck_operations_total",
			Help: "Total number of truck operations",
		},
		[]string{"operation"},
	)

	PermitsGeneratedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_permits_generated_total",
			Help: "Total number of permits generated",
		},
		[]string{"category"},
	)

	PermitRejectionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_permit_rejections_total",
			Help: "Total number of permit generations rejected",
		},
		[]string{"category", "reason"},
	)

	AllocationRemainingGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_allocation_remaining_liters",
			Help: "Remaining allocation volume in liters",
		},
		[]string{"company", "category"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordTruckOperation increments the counter for truck operations
func RecordTruckOperation(operation string) {
	TruckOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPermitGenerated increments the permit counter for a category
func RecordPermitGenerated(category string) {
	PermitsGeneratedCounter.WithLabelValues(category).Inc()
}

// RecordPermitRejection increments the rejection counter for a category
func RecordPermitRejection(category, reason string) {
	PermitRejectionsCounter.WithLabelValues(category, reason).Inc()
}

// UpdateAllocationRemaining updates the remaining-volume gauge
func UpdateAllocationRemaining(company, category string, remaining float64) {
	AllocationRemainingGauge.WithLabelValues(company, category).Set(remaining)
}
