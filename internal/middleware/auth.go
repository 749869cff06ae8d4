// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hitoshi/blogd/internal/token"
)

// IdentityState はリクエストの認証状態を表す。
type IdentityState string

const (
	// IdentityAnonymous はトークンが提示されなかった状態。
	IdentityAnonymous IdentityState = "anonymous"
	// IdentityUnverified はトークンが提示されたが検証に失敗した状態。
	// Anonymousとは区別して保持するが、認可判断上は同じ扱いになる。
	IdentityUnverified IdentityState = "unverified"
	// IdentityVerified はトークンの検証に成功した状態。
	IdentityVerified IdentityState = "verified"
)

// Identity はリクエストごとの認証事実を表す。
// ゲートで生成され、リクエスト完了まで読み取り専用で保持される。
type Identity struct {
	State    IdentityState
	UserID   string
	UserName string
	Email    string
}

// Authenticated は検証済みの認証状態かを返す。
func (id Identity) Authenticated() bool {
	return id.State == IdentityVerified
}

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストにIdentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenVerifier はトークン検証に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// NewAuthMiddleware はAuthorizationヘッダのBearerトークンを検証し、
// 認証事実をリクエストコンテキストに注入するミドルウェアを返す。
//
// このゲートはリクエストを拒否しない。トークンが無い場合はAnonymous、
// 検証に失敗した場合はUnverifiedとしてそのまま通し、認可の判断は
// 下流のリゾルバ・ハンドラーに委ねる。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolveIdentity(verifier, r.Header.Get("Authorization"))
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveIdentity はAuthorizationヘッダから認証状態を解決する。
func resolveIdentity(verifier TokenVerifier, header string) Identity {
	if header == "" {
		return Identity{State: IdentityAnonymous}
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return Identity{State: IdentityUnverified}
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		// 検証失敗はゲートでは拒否しない
		return Identity{State: IdentityUnverified}
	}

	return Identity{
		State:    IdentityVerified,
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Email:    claims.Email,
	}
}

// IdentityFromContext はリクエストコンテキストからIdentityを取得する。
// 認証ミドルウェアを通過していないコンテキストではAnonymousを返す。
func IdentityFromContext(ctx context.Context) Identity {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	if !ok {
		return Identity{State: IdentityAnonymous}
	}
	return identity
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
