package model

import "time"

// Post はブログ記事を表す。
// CreatorNameは作成・更新時点のオーナー表示名のスナップショットであり、
// Userへの参照ではない。オーナーはUserIDで一意に定まる。
type Post struct {
	ID          string
	Title       string
	Content     string
	CreatorName string
	ImageURL    string
	UserID      string
	CreatedAt   time.Time
}
