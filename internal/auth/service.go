// Package auth はユーザー登録・ログインのドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
	"github.com/hitoshi/blogd/internal/validation"
)

// bcryptCost はパスワードハッシュのコストファクター。
const bcryptCost = 12

// TokenIssuer はIDトークンの発行に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(email, userID, userName string) (string, error)
}

// LoginResult はログイン成功時の結果を表す。
type LoginResult struct {
	Token    string
	UserID   string
	UserName string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Signup は新規ユーザーを登録する。
// 入力検証に違反した場合は全フィールド分のエラーを含むValidationError、
// メールアドレスが登録済みの場合はConflictErrorを返す。
// パスワードはbcrypt（コスト12）でハッシュ化して保存する。
func (s *Service) Signup(ctx context.Context, email, name, password string) (*model.User, error) {
	if errs := validation.ValidateSignup(email, password); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, model.NewConflictError("User exists already!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       model.DefaultUserStatus,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Login はメールアドレスとパスワードを照合し、IDトークンを発行する。
// ユーザーが存在しない場合とパスワード不一致の場合はいずれも401を返す。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewAuthenticationError("User not found.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewAuthenticationError("Password is incorrect.")
	}

	tok, err := s.issuer.Issue(user.Email, user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return &LoginResult{
		Token:    tok,
		UserID:   user.ID,
		UserName: user.Name,
	}, nil
}
