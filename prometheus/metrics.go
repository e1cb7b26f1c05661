package prometheus

import (
	"time"

	"orderportal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginAttemptsCounter prometheus.Counter
	AuthErrorsCounter    prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Order metrics
	OrdersPlacedCounter    prometheus.Counter
	OrderAmountHistogram   prometheus.Histogram
	OrderFailuresCounter   prometheus.CounterVec
	OrderOperationsCounter prometheus.CounterVec
	OfferSuppressedCounter prometheus.Counter
	BackorderCounter       prometheus.Counter

	// Stock metrics
	StockOperationsCounter prometheus.CounterVec
	StockInventoryGauge    prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

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

	LoginAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	OrdersPlacedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_orders_placed_total",
			Help: "Total number of successfully placed orders",
		},
	)

	OrderAmountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_order_amount",
			Help:    "Distribution of order total amounts",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	OrderFailuresCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_failures_total",
			Help: "Total number of rejected or failed order placements",
		},
		[]string{"reason"},
	)

	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order management operations",
		},
		[]string{"operation"},
	)

	OfferSuppressedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_offers_suppressed_total",
			Help: "Total number of offers withheld for low stock",
		},
	)

	BackorderCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_backorders_total",
			Help: "Total number of order lines accepted beyond on-hand stock",
		},
	)

	StockOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_operations_total",
			Help: "Total number of stock management operations",
		},
		[]string{"operation"},
	)

	StockInventoryGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_stock_inventory",
			Help: "Current on-hand quantity for stock items",
		},
		[]string{"item_code"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordOrderFailure increments the counter for a rejected order placement
func RecordOrderFailure(reason string) {
	OrderFailuresCounter.WithLabelValues(reason).Inc()
}

// RecordOrderOperation increments the counter for order management operations
func RecordOrderOperation(operation string) {
	OrderOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordStockOperation increments the counter for stock management operations
func RecordStockOperation(operation string) {
	StockOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateStockInventory updates the gauge for a stock item's on-hand quantity
func UpdateStockInventory(itemCode string, quantity float64) {
	StockInventoryGauge.WithLabelValues(itemCode).Set(quantity)
}
