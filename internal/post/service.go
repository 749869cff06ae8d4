// Package post は記事管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
	"github.com/hitoshi/blogd/internal/validation"
)

// DefaultPageSize は記事一覧の1ページあたりの件数のデフォルト値。
const DefaultPageSize = 2

// Input は記事の作成・更新入力を表す。
// ImageURLはクライアント側のパスエンコード都合でプレースホルダ区切り
// （"images__"）を使用して送られてくる。
type Input struct {
	Title    string
	Content  string
	ImageURL string
}

// ListResult は記事一覧の取得結果を表す。
type ListResult struct {
	Posts      []*model.Post
	TotalPosts int
}

// ImageDeleter は保存済み画像の削除インターフェース。
// storage.ImageStoreの部分集合として定義する。
type ImageDeleter interface {
	Delete(publicPath string) error
}

// Sanitizer は記事本文のサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Service は記事管理のサービス層。
type Service struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	images    ImageDeleter
	sanitizer Sanitizer
	pageSize  int
}

// NewService はServiceを生成する。pageSizeが0以下の場合はデフォルト値を使用する。
func NewService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	images ImageDeleter,
	sanitizer Sanitizer,
	pageSize int,
) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		postRepo:  postRepo,
		userRepo:  userRepo,
		images:    images,
		sanitizer: sanitizer,
		pageSize:  pageSize,
	}
}

// normalizeImageURL はプレースホルダ区切り（"images__"）を
// 実パス区切り（"images/"）に書き換える。
func normalizeImageURL(s string) string {
	return strings.Replace(s, "images__", "images/", 1)
}

// Create は認証済みユーザーの記事を作成する。
// creatorNameはオーナー表示名のスナップショットとして保存される。
// オーナーのユーザーレコードが既に消えている場合は401を返す。
func (s *Service) Create(ctx context.Context, ownerID, ownerName string, input Input) (*model.Post, error) {
	if errs := validation.ValidatePostFields(input.Title, input.Content); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}
	if owner == nil {
		return nil, model.NewAuthenticationError("Invalid user.")
	}

	post := &model.Post{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Content:     s.sanitizer.Sanitize(input.Content),
		CreatorName: ownerName,
		ImageURL:    normalizeImageURL(input.ImageURL),
		UserID:      ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("user_id", ownerID),
	)

	return post, nil
}

// Get は指定IDの記事を取得する。存在しない場合はNotFoundErrorを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewNotFoundError("No post found!")
	}

	return post, nil
}

// List は記事一覧をページ単位で取得する。
// pageが1未満の場合は1として扱う。範囲外のページは空一覧と正しい総数を返す。
func (s *Service) List(ctx context.Context, page int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	offset := (page - 1) * s.pageSize
	posts, err := s.postRepo.List(ctx, s.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &ListResult{
		Posts:      posts,
		TotalPosts: total,
	}, nil
}

// Update はオーナー本人による記事の更新を行う。
// 記事が存在しない場合は404、オーナーでない場合は403、
// 入力検証違反は422を返す。creatorNameは更新時点の表示名で上書きされる。
// 更新クエリ自体もオーナー一致を条件にするため、チェック後に記事が
// 消えた場合でも他者の記事を書き換えることはない。
func (s *Service) Update(ctx context.Context, ownerID, ownerName, id string, input Input) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewNotFoundError("No post found!")
	}

	if post.UserID != ownerID {
		return nil, model.NewAuthorizationError()
	}

	if errs := validation.ValidatePostFields(input.Title, input.Content); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	post.Title = input.Title
	post.Content = s.sanitizer.Sanitize(input.Content)
	post.CreatorName = ownerName
	post.ImageURL = normalizeImageURL(input.ImageURL)

	updated, err := s.postRepo.UpdateOwned(ctx, post, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if !updated {
		// チェックと更新の間に記事が削除されたケース
		return nil, model.NewNotFoundError("No post found!")
	}

	return post, nil
}

// Delete はオーナー本人による記事の削除を行う。
// 保存済み画像ファイルも併せて削除する。
// 記事が存在しない場合は404、オーナーでない場合は403を返す。
func (s *Service) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return false, model.NewNotFoundError("No post found!")
	}

	if post.UserID != ownerID {
		return false, model.NewAuthorizationError()
	}

	if post.ImageURL != "" {
		if err := s.images.Delete(post.ImageURL); err != nil {
			// 画像の削除失敗は記事削除を妨げない
			slog.Warn("failed to delete post image",
				slog.String("post_id", id),
				slog.String("image_url", post.ImageURL),
				slog.String("error", err.Error()),
			)
		}
	}

	deleted, err := s.postRepo.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	if !deleted {
		return false, model.NewNotFoundError("No post found!")
	}

	slog.Info("post deleted",
		slog.String("post_id", id),
		slog.String("user_id", ownerID),
	)

	return true, nil
}
