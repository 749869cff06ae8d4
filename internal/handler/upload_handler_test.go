package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/hitoshi/blogd/internal/middleware"
)

// --- モック定義 ---

type mockImageStore struct {
	allowedFn func(contentType string) bool
	saveFn    func(r io.Reader, contentType string) (string, error)
	deleteFn  func(publicPath string) error

	savedTypes   []string
	deletedPaths []string
}

func (m *mockImageStore) Allowed(contentType string) bool {
	if m.allowedFn != nil {
		return m.allowedFn(contentType)
	}
	switch contentType {
	case "image/png", "image/jpg", "image/jpeg":
		return true
	}
	return false
}

func (m *mockImageStore) Save(r io.Reader, contentType string) (string, error) {
	m.savedTypes = append(m.savedTypes, contentType)
	if m.saveFn != nil {
		return m.saveFn(r, contentType)
	}
	return "images/11111111-1111-1111-1111-111111111111.png", nil
}

func (m *mockImageStore) Delete(publicPath string) error {
	m.deletedPaths = append(m.deletedPaths, publicPath)
	if m.deleteFn != nil {
		return m.deleteFn(publicPath)
	}
	return nil
}

type mockUploadMetrics struct {
	uploaded int
	rejected int
}

func (m *mockUploadMetrics) RecordImageUpload()   { m.uploaded++ }
func (m *mockUploadMetrics) RecordImageRejected() { m.rejected++ }

// newUploadRequest はmultipart/form-dataのPUTリクエストを組み立てる。
// contentTypeが空の場合はファイルパート自体を省略する。
func newUploadRequest(t *testing.T, contentType, oldPath string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if contentType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		part.Write([]byte("fake image bytes"))
	}

	if oldPath != "" {
		mw.WriteField("oldPath", oldPath)
	}

	mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/post-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withVerifiedIdentity(req *http.Request) *http.Request {
	ctx := middleware.ContextWithIdentity(req.Context(), middleware.Identity{
		State:    middleware.IdentityVerified,
		UserID:   "user-1",
		UserName: "Alice",
	})
	return req.WithContext(ctx)
}

// --- テスト ---

// 未認証のアップロードが401で拒否されることを検証
func TestUploadHandler_StoreImage_RequiresAuth(t *testing.T) {
	tests := map[string]func(req *http.Request) *http.Request{
		"anonymous": func(req *http.Request) *http.Request { return req },
		"unverified": func(req *http.Request) *http.Request {
			ctx := middleware.ContextWithIdentity(req.Context(),
				middleware.Identity{State: middleware.IdentityUnverified})
			return req.WithContext(ctx)
		},
	}

	for name, prepare := range tests {
		t.Run(name, func(t *testing.T) {
			store := &mockImageStore{}
			h := NewUploadHandler(store, 1<<20, &mockUploadMetrics{})

			req := prepare(newUploadRequest(t, "image/png", ""))
			w := httptest.NewRecorder()
			h.StoreImage(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}

			var body apiErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Message != "Not authenticated" {
				t.Errorf("message = %q", body.Message)
			}
			if len(store.savedTypes) != 0 {
				t.Error("store should not be called without auth")
			}
		})
	}
}

func TestUploadHandler_StoreImage_Success(t *testing.T) {
	store := &mockImageStore{}
	collector := &mockUploadMetrics{}
	h := NewUploadHandler(store, 1<<20, collector)

	req := withVerifiedIdentity(newUploadRequest(t, "image/png", ""))
	w := httptest.NewRecorder()
	h.StoreImage(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var body uploadResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Message != "File stored." {
		t.Errorf("message = %q, want %q", body.Message, "File stored.")
	}
	if !strings.HasPrefix(body.FilePath, "images/") {
		t.Errorf("filePath = %q, want images/ prefix", body.FilePath)
	}
	if collector.uploaded != 1 {
		t.Errorf("uploaded metric = %d, want 1", collector.uploaded)
	}
}

// ファイル無しのリクエストがエラーではなく200で応答されることを検証
func TestUploadHandler_StoreImage_NoFile(t *testing.T) {
	store := &mockImageStore{}
	h := NewUploadHandler(store, 1<<20, &mockUploadMetrics{})

	req := withVerifiedIdentity(newUploadRequest(t, "", ""))
	w := httptest.NewRecorder()
	h.StoreImage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body uploadResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Message != "No file provided!" {
		t.Errorf("message = %q, want %q", body.Message, "No file provided!")
	}
	if body.FilePath != "" {
		t.Errorf("filePath = %q, want empty", body.FilePath)
	}
}

// 許可されない形式がファイル無しと同じ応答になり、保存されないことを検証
func TestUploadHandler_StoreImage_DisallowedType(t *testing.T) {
	store := &mockImageStore{}
	collector := &mockUploadMetrics{}
	h := NewUploadHandler(store, 1<<20, collector)

	req := withVerifiedIdentity(newUploadRequest(t, "application/pdf", ""))
	w := httptest.NewRecorder()
	h.StoreImage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body uploadResponse
	json.NewDecoder(w.Body).Decode(&body)
	if body.Message != "No file provided!" {
		t.Errorf("message = %q, want %q", body.Message, "No file provided!")
	}
	if len(store.savedTypes) != 0 {
		t.Error("disallowed type should not be saved")
	}
	if collector.rejected != 1 {
		t.Errorf("rejected metric = %d, want 1", collector.rejected)
	}
}

// oldPath指定時に差し替え前の画像が削除されることを検証
func TestUploadHandler_StoreImage_DeletesOldImage(t *testing.T) {
	store := &mockImageStore{}
	h := NewUploadHandler(store, 1<<20, &mockUploadMetrics{})

	req := withVerifiedIdentity(newUploadRequest(t, "image/jpeg", "images/old.png"))
	w := httptest.NewRecorder()
	h.StoreImage(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if len(store.deletedPaths) != 1 || store.deletedPaths[0] != "images/old.png" {
		t.Errorf("deletedPaths = %v, want [images/old.png]", store.deletedPaths)
	}
}

// 古い画像の削除失敗がアップロード成功の応答を妨げないことを検証
func TestUploadHandler_StoreImage_OldImageDeleteFailure(t *testing.T) {
	store := &mockImageStore{
		deleteFn: func(publicPath string) error {
			return fmt.Errorf("disk error")
		},
	}
	h := NewUploadHandler(store, 1<<20, &mockUploadMetrics{})

	req := withVerifiedIdentity(newUploadRequest(t, "image/png", "images/old.png"))
	w := httptest.NewRecorder()
	h.StoreImage(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

// サイズ上限を超えるアップロードが413で拒否されることを検証
func TestUploadHandler_StoreImage_TooLarge(t *testing.T) {
	store := &mockImageStore{}
	h := NewUploadHandler(store, 16, &mockUploadMetrics{})

	req := withVerifiedIdentity(newUploadRequest(t, "image/png", ""))
	w := httptest.NewRecorder()
	h.StoreImage(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
	if len(store.savedTypes) != 0 {
		t.Error("oversized upload should not be saved")
	}
}

var _ ImageStorer = (*mockImageStore)(nil)
