// Package user はユーザープロフィールのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
)

// Service はユーザープロフィールのサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Me は自分のユーザーレコードを取得する。
// 対象が存在しない場合はNotFoundErrorを返す。
func (s *Service) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("No user found!")
	}

	return user, nil
}

// UpdateStatus は自分のステータスを更新し、更新後のユーザーを返す。
// 対象が存在しない場合はNotFoundErrorを返す。
func (s *Service) UpdateStatus(ctx context.Context, userID, status string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("No user found!")
	}

	updated, err := s.userRepo.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !updated {
		// 存在確認と更新の間に削除されたケース
		return nil, model.NewNotFoundError("No user found!")
	}

	user.Status = status
	return user, nil
}
