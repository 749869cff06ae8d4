package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/hitoshi/blogd/internal/model"
)

// GraphQLMetrics はGraphQLハンドラーが記録するメトリクスのインターフェース。
type GraphQLMetrics interface {
	RecordGraphQLOperation(operation string)
}

// GraphQLHandler は単一エンドポイントでGraphQLリクエストを処理する。
// リクエストのコンテキストをそのままスキーマ実行に渡すため、
// 認証ミドルウェアが設定したアイデンティティがリゾルバまで届く。
type GraphQLHandler struct {
	schema  *graphql.Schema
	metrics GraphQLMetrics
}

// NewGraphQLHandler はGraphQLHandlerを生成する。
func NewGraphQLHandler(schema *graphql.Schema, metrics GraphQLMetrics) *GraphQLHandler {
	return &GraphQLHandler{
		schema:  schema,
		metrics: metrics,
	}
}

// graphqlRequest はGraphQL over HTTPのリクエストボディ。
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// ServeHTTP はPOSTされたGraphQLクエリを実行し、結果をJSONで返す。
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIErrorResponse(w, &model.APIError{
			Status:  http.StatusMethodNotAllowed,
			Message: "Method not allowed.",
		})
		return
	}

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, &model.APIError{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body.",
		})
		return
	}

	h.metrics.RecordGraphQLOperation(operationLabel(req))

	response := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	body, err := json.Marshal(response)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// operationLabel はメトリクスラベル用の操作名を決定する。
// operationNameが無い場合はクエリ種別（query/mutation）に落とす。
func operationLabel(req graphqlRequest) string {
	if req.OperationName != "" {
		return req.OperationName
	}
	if strings.HasPrefix(strings.TrimSpace(req.Query), "mutation") {
		return "mutation"
	}
	return "query"
}
