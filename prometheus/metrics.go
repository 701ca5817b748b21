package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter metrics
var (
	// OTP delivery counter
	OTPSentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_otp_sent_total",
			Help: "Total number of OTP challenges issued",
		},
	)

	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Total number of OTP verification attempts",
		},
	)

	// Registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_register_total",
			Help: "Total number of users created on first verification",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_request", "invalid_otp", "role_mismatch", "db_error"
	)

	// Weight entry counter by entry type
	WeightEntryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_weight_entries_total",
			Help: "Total number of weight entries recorded",
		},
		[]string{"entry_type"},
	)

	// Bill lifecycle counters
	BillCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_bills_created_total",
			Help: "Total number of bills generated",
		},
	)

	BillStatusCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_bill_status_changes_total",
			Help: "Total number of bill status transitions",
		},
		[]string{"status"},
	)
)

// Histogram metrics
var (
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		OTPSentCounter,
		LoginCounter,
		RegisterCounter,
		AuthErrorCounter,
		WeightEntryCounter,
		BillCreatedCounter,
		BillStatusCounter,
		DBOperationDuration,
	)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// TrackDBOperation returns a function that records the duration of a database
// operation when called. Usage: defer TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
