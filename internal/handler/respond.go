package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogd/internal/model"
)

// apiErrorResponse はエラーレスポンスのJSON表現。
// dataは検証エラーの一覧など補足情報で、無い場合は出力しない。
type apiErrorResponse struct {
	Message string             `json:"message"`
	Status  int                `json:"status"`
	Data    []model.FieldError `json:"data,omitempty"`
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, apiErr *model.APIError) {
	writeJSONResponse(w, apiErr.Status, apiErrorResponse{
		Message: apiErr.Message,
		Status:  apiErr.Status,
		Data:    apiErr.Data,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPレスポンスに変換する。
// APIError以外のエラーは詳細をログにのみ記録し、500の一般的なメッセージを返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, &model.APIError{
		Status:  http.StatusInternalServerError,
		Message: "An error occurred.",
	})
}
