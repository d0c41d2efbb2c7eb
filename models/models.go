package models

// All 参与自动迁移的表
func All() []any {
	return []any{
		&User{},
		&Follow{},
		&Post{},
		&PostLike{},
		&Comment{},
		&Message{},
		&Notification{},
	}
}
