// Package storage はアップロード画像のディスク保存を提供する。
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedImageTypes はアップロードを許可するContent-Type。
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
}

// ImageStore は画像ファイルの保存と削除を行う。
// 保存先は起動時に指定された1ディレクトリに限定される。
type ImageStore struct {
	dir string
}

// NewImageStore はImageStoreを生成し、保存先ディレクトリを作成する。
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Allowed は指定されたContent-Typeの画像を受け付けるかを返す。
func (s *ImageStore) Allowed(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// Save は画像をUUIDのファイル名で保存し、公開パス（"images/<uuid><ext>"）を返す。
// 許可されないContent-Typeの場合はエラーを返す。
func (s *ImageStore) Save(r io.Reader, contentType string) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type: %s", contentType)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "images/" + name, nil
}

// Delete は公開パス（"images/<name>"）で指定された画像を削除する。
// ディレクトリ外を指すパスは拒否する。ファイルが既に無い場合はエラーにしない。
func (s *ImageStore) Delete(publicPath string) error {
	name, err := s.resolveName(publicPath)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Dir は保存先ディレクトリを返す。静的配信のルートとして使用する。
func (s *ImageStore) Dir() string {
	return s.dir
}

// resolveName は公開パスからファイル名を取り出す。
// パストラバーサルでディレクトリ外を指すものは拒否する。
func (s *ImageStore) resolveName(publicPath string) (string, error) {
	name := strings.TrimPrefix(filepath.ToSlash(publicPath), "images/")
	name = filepath.Base(filepath.Clean(name))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid image path: %s", publicPath)
	}
	return name, nil
}
