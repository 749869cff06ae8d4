// Package token は署名付きIDトークンの発行と検証を提供する。
//
// トークンはHS256で署名したJWTで、メールアドレス・ユーザーID・表示名と
// 発行時刻・有効期限を含む。失効リストは持たず、有効期限切れのみで
// 無効になる。共有シークレットの漏洩は全トークンの漏洩を意味する。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はトークンに埋め込むユーザー情報を表す。
type Claims struct {
	Email    string `json:"email"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// Service はIDトークンの発行と検証を行う。
// secretとttlは起動時に設定され、以後変更されない。
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService はServiceを生成する。ttlが0以下の場合は1時間を使用する。
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はクレームを埋め込んだ署名付きトークンを発行する。
// 発行時刻と有効期限（発行時刻＋TTL）を自動で付与する。
func (s *Service) Issue(email, userID, userName string) (string, error) {
	now := s.now()
	claims := &Claims{
		Email:    email,
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、埋め込まれたクレームを返す。
// 署名不正・不正な形式・期限切れの場合はエラーを返す。
// トークンが存在しない場合の扱いは呼び出し側の責務であり、
// Verifyには常に非空のトークン文字列を渡すこと。
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}
