// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// ゲートウェイクライアントとセッションクリーンアップワーカーから利用する。
type Collector struct {
	backendCalls    *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	tokenRefresh    *prometheus.CounterVec
	sessionsCleaned prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supplefront_backend_calls_total",
			Help: "バックエンドAPI呼び出しの合計数（パス分類・ステータスコード別）",
		}, []string{"path_class", "status_code"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supplefront_backend_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"path_class"}),
		tokenRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supplefront_token_refresh_total",
			Help: "アクセストークンリフレッシュの合計数（結果別）",
		}, []string{"result"}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supplefront_sessions_cleaned_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.backendCalls,
		c.backendLatency,
		c.tokenRefresh,
		c.sessionsCleaned,
	)

	return c
}

// RecordBackendCall はバックエンド呼び出しの結果とレイテンシを記録する。
// statusCodeが0の場合はトランスポート障害を示す。
func (c *Collector) RecordBackendCall(pathClass string, statusCode int, duration time.Duration) {
	c.backendCalls.WithLabelValues(pathClass, strconv.Itoa(statusCode)).Inc()
	c.backendLatency.WithLabelValues(pathClass).Observe(duration.Seconds())
}

// RecordTokenRefresh はトークンリフレッシュの結果を記録する。
func (c *Collector) RecordTokenRefresh(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.tokenRefresh.WithLabelValues(result).Inc()
}

// RecordSessionsCleaned は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	c.sessionsCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
