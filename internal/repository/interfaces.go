// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/blogd/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// UpdateStatus は指定ユーザーのステータスを更新する。
	// 対象が存在しない場合はfalseを返す。
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

// PostRepository は記事データの永続化インターフェース。
type PostRepository interface {
	// Create は記事を作成する。
	Create(ctx context.Context, post *model.Post) error

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// List は記事を作成日時の昇順でlimit件、offset件スキップして取得する。
	List(ctx context.Context, limit, offset int) ([]*model.Post, error)

	// Count は記事の総数を返す。
	Count(ctx context.Context) (int, error)

	// UpdateOwned はオーナー一致を条件に記事を更新する。
	// 更新された場合はtrue、対象が存在しないかオーナー不一致の場合はfalseを返す。
	// 条件付きUPDATEにより所有者チェックと更新の間の競合を防ぐ。
	UpdateOwned(ctx context.Context, post *model.Post, ownerID string) (bool, error)

	// DeleteOwned はオーナー一致を条件に記事を削除する。
	// 削除された場合はtrue、対象が存在しないかオーナー不一致の場合はfalseを返す。
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}
