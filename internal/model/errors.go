package model

import "net/http"

// FieldError は入力検証で違反したフィールド1件分のメッセージを表す。
type FieldError struct {
	Message string `json:"message"`
}

// APIError はAPI境界で返す統一エラーフォーマットを表す。
// StatusはHTTPステータスコード相当の値。Dataは検証エラーの一覧など
// 構造化された補足情報を持ち、無い場合はnil。
type APIError struct {
	Status  int
	Message string
	Data    []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return e.Message
}

// NewValidationError は入力検証エラー（422）を生成する。
// errsには違反フィールドごとのメッセージを全件渡す。
func NewValidationError(errs []FieldError) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Message: "Invalid input.",
		Data:    errs,
	}
}

// NewAuthenticationError は未認証エラー（401）を生成する。
func NewAuthenticationError(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Message: message,
	}
}

// NewAuthorizationError は認証済みだが権限のない操作へのエラー（403）を生成する。
func NewAuthorizationError() *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Message: "Not authorized",
	}
}

// NewNotFoundError は対象リソースが存在しないエラー（404）を生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// NewConflictError は重複登録エラー（409）を生成する。
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Message: message,
	}
}
