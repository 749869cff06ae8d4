package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogd/internal/middleware"
	"github.com/hitoshi/blogd/internal/model"
)

// ImageStorer はアップロードハンドラーが必要とするストレージインターフェース。
type ImageStorer interface {
	// Allowed は指定されたContent-Typeの画像を受け付けるかを返す。
	Allowed(contentType string) bool
	// Save は画像を保存し、公開パス（"images/<name>"）を返す。
	Save(r io.Reader, contentType string) (string, error)
	// Delete は公開パスで指定された画像を削除する。
	Delete(publicPath string) error
}

// UploadMetrics はアップロードハンドラーが記録するメトリクスのインターフェース。
type UploadMetrics interface {
	RecordImageUpload()
	RecordImageRejected()
}

// UploadHandler は記事画像アップロードのHTTPハンドラー。
type UploadHandler struct {
	store         ImageStorer
	maxUploadSize int64
	metrics       UploadMetrics
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(store ImageStorer, maxUploadSize int64, metrics UploadMetrics) *UploadHandler {
	return &UploadHandler{
		store:         store,
		maxUploadSize: maxUploadSize,
		metrics:       metrics,
	}
}

// uploadResponse は画像アップロードのレスポンス。
type uploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// StoreImage は記事画像のアップロードを処理する。
// PUT /post-image
//
// multipart/form-dataのimageフィールドからファイルを受け取る。
// ファイルが無い、または許可されない形式の場合は保存せず200を返す。
// oldPathフィールドが指定された場合は差し替え前の画像を削除する。
func (h *UploadHandler) StoreImage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if !identity.Authenticated() {
		writeAPIErrorResponse(w, model.NewAuthenticationError("Not authenticated"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeAPIErrorResponse(w, &model.APIError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "Upload is too large.",
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONResponse(w, http.StatusOK, uploadResponse{Message: "No file provided!"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !h.store.Allowed(contentType) {
		// 非対応の形式はエラーにせず、ファイル無しと同じ応答を返す
		h.metrics.RecordImageRejected()
		writeJSONResponse(w, http.StatusOK, uploadResponse{Message: "No file provided!"})
		return
	}

	filePath, err := h.store.Save(file, contentType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if oldPath := r.FormValue("oldPath"); oldPath != "" {
		// 差し替え前の画像が消せなくてもアップロード自体は成功として扱う
		if err := h.store.Delete(oldPath); err != nil {
			slog.Warn("failed to delete replaced image",
				slog.String("path", oldPath),
				slog.String("error", err.Error()))
		}
	}

	h.metrics.RecordImageUpload()
	writeJSONResponse(w, http.StatusCreated, uploadResponse{
		Message:  "File stored.",
		FilePath: filePath,
	})
}
