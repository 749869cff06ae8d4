package gql

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogd/internal/model"
)

// resolverError はAPIErrorをGraphQLエラーのextensionsに変換するラッパー。
// レスポンス上は {message, extensions: {status, data}} の形になる。
type resolverError struct {
	apiErr *model.APIError
}

// Error はerrorインターフェースを実装する。
func (e *resolverError) Error() string {
	return e.apiErr.Message
}

// Extensions はGraphQLエラーのextensionsフィールドを返す。
// statusは常に含み、検証エラーの場合はdataに違反フィールド一覧を含む。
func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"status": e.apiErr.Status,
	}
	if e.apiErr.Data != nil {
		ext["data"] = e.apiErr.Data
	}
	return ext
}

// wrapError はサービス層のエラーをGraphQLレスポンス用に変換する。
// APIError以外のエラーは詳細をログにのみ記録し、
// クライアントにはstatus 500の一般的なメッセージを返す。
func wrapError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return &resolverError{apiErr: apiErr}
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	return &resolverError{apiErr: &model.APIError{
		Status:  http.StatusInternalServerError,
		Message: "An error occurred.",
	}}
}

// errNotAuthenticated は未認証アクセスへの共通エラーを返す。
func errNotAuthenticated() error {
	return &resolverError{apiErr: model.NewAuthenticationError("Not authenticated")}
}
