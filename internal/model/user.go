// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultUserStatus は新規登録ユーザーの初期ステータス。
const DefaultUserStatus = "I am new"

// User はブログの利用ユーザーを表す。
// PasswordHashはbcryptハッシュで、GraphQLレスポンスには含めない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Status       string
	CreatedAt    time.Time
}
