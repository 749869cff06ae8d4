// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordGraphQLOperation(operation string)
	RecordImageUpload()
	RecordImageRejected()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	gqlOperations  *prometheus.CounterVec
	imagesUploaded prometheus.Counter
	imagesRejected prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogd_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogd_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		gqlOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogd_graphql_operations_total",
			Help: "GraphQL操作別の実行数",
		}, []string{"operation"}),
		imagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogd_images_uploaded_total",
			Help: "保存された画像の合計数",
		}),
		imagesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogd_images_rejected_total",
			Help: "形式不正などで拒否された画像の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.gqlOperations,
		c.imagesUploaded,
		c.imagesRejected,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordGraphQLOperation はGraphQL操作の実行を記録する。
func (c *Collector) RecordGraphQLOperation(operation string) {
	c.gqlOperations.WithLabelValues(operation).Inc()
}

// RecordImageUpload は画像の保存を記録する。
func (c *Collector) RecordImageUpload() {
	c.imagesUploaded.Inc()
}

// RecordImageRejected は画像の拒否を記録する。
func (c *Collector) RecordImageRejected() {
	c.imagesRejected.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
