package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 订单指标
	ordersCreatedTotal   prometheus.Counter
	ordersPaidTotal      prometheus.Counter
	ordersCancelledTotal *prometheus.CounterVec

	// 库存提交指标
	stockCommitsTotal *prometheus.CounterVec
	stockCommitLines  *prometheus.CounterVec

	// 支付网关指标
	gatewayRequestsTotal  *prometheus.CounterVec
	webhookEventsTotal    *prometheus.CounterVec
	circuitBreakerState   *prometheus.GaugeVec

	// 应用指标
	activeGoroutines prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ordersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created",
			},
		),

		ordersPaidTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_paid_total",
				Help: "Total number of orders that reached payment SUCCESS",
			},
		),

		ordersCancelledTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_cancelled_total",
				Help: "Total number of cancelled orders",
			},
			[]string{"cancelled_by"},
		),

		stockCommitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_commits_total",
				Help: "Total number of stock commit invocations",
			},
			[]string{"outcome"},
		),

		stockCommitLines: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_commit_lines_total",
				Help: "Per-line stock commit results",
			},
			[]string{"result"},
		),

		gatewayRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Outbound payment gateway requests",
			},
			[]string{"operation", "status"},
		),

		webhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Payment gateway webhook events received",
			},
			[]string{"event"},
		),

		circuitBreakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gateway_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),

		activeGoroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "app_goroutines",
				Help: "Number of active goroutines",
			},
		),
	}
}

// Default 全局指标收集器
var Default = NewMetricsCollector()

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordOrderCreated 记录订单创建
func (m *MetricsCollector) RecordOrderCreated() {
	m.ordersCreatedTotal.Inc()
}

// RecordOrderPaid 记录订单支付成功
func (m *MetricsCollector) RecordOrderPaid() {
	m.ordersPaidTotal.Inc()
}

// RecordOrderCancelled 记录订单取消
func (m *MetricsCollector) RecordOrderCancelled(cancelledBy string) {
	m.ordersCancelledTotal.WithLabelValues(cancelledBy).Inc()
}

// RecordStockCommit 记录库存提交结果
func (m *MetricsCollector) RecordStockCommit(outcome string) {
	m.stockCommitsTotal.WithLabelValues(outcome).Inc()
}

// RecordStockCommitLine 记录单行库存提交结果
func (m *MetricsCollector) RecordStockCommitLine(result string) {
	m.stockCommitLines.WithLabelValues(result).Inc()
}

// RecordGatewayRequest 记录网关请求
func (m *MetricsCollector) RecordGatewayRequest(operation, status string) {
	m.gatewayRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordWebhookEvent 记录 Webhook 事件
func (m *MetricsCollector) RecordWebhookEvent(event string) {
	m.webhookEventsTotal.WithLabelValues(event).Inc()
}

// SetCircuitBreakerState 记录熔断器状态变更
func (m *MetricsCollector) SetCircuitBreakerState(name string, state float64) {
	m.circuitBreakerState.WithLabelValues(name).Set(state)
}

// CollectRuntimeMetrics 启动运行时指标采集
func (m *MetricsCollector) CollectRuntimeMetrics(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			m.activeGoroutines.Set(float64(runtime.NumGoroutine()))
		}
	}()
}
