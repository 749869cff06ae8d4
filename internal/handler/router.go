package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/blogd/internal/metrics"
	"github.com/hitoshi/blogd/internal/middleware"
)

// HealthChecker はヘルスチェックが必要とするDB接続のインターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// GraphQL
	Schema *graphql.Schema

	// 画像
	ImageStore ImageStorer
	ImageDir   string
	MaxUpload  int64

	// 監視
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Auth → Logging → Metrics
//
// Authゲートはリクエストを拒否せず認証状態を注入するだけなので、
// 全ルートに適用し、認可の判断はリゾルバ・ハンドラーに委ねる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))

	graphqlHandler := NewGraphQLHandler(deps.Schema, deps.Metrics)
	uploadHandler := NewUploadHandler(deps.ImageStore, deps.MaxUpload, deps.Metrics)

	// GraphQL単一エンドポイント
	r.Post("/graphql", graphqlHandler.ServeHTTP)

	// 画像アップロード（アップロード専用レート制限を適用）
	r.With(deps.RateLimiter.UploadMiddleware()).Put("/post-image", uploadHandler.StoreImage)

	// アップロード済み画像の静的配信（読み取り専用）
	fileServer := http.FileServer(http.Dir(deps.ImageDir))
	r.Get("/images/*", http.StripPrefix("/images/", fileServer).ServeHTTP)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
			writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheusスクレイプ
	r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)

	return r
}
