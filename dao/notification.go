package dao

import (
	"context"

	"Socio/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationDAO struct {
	Repo[models.Notification]
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{Repo: NewRepo[models.Notification](db)}
}

func (d *NotificationDAO) Tx(tx *gorm.DB) *NotificationDAO {
	return &NotificationDAO{Repo: d.Repo.Tx(tx)}
}

// NotificationKey 定位一条业务通知
type NotificationKey struct {
	Recipient int64
	Sender    int64
	Types     []string
	PostID    *int64
	CommentID *int64
}

func (k NotificationKey) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("recipient_id = ? AND sender_id = ? AND notification_type IN ?", k.Recipient, k.Sender, k.Types)
	if k.PostID != nil {
		db = db.Where("post_id = ?", *k.PostID)
	}
	if k.CommentID != nil {
		db = db.Where("comment_id = ?", *k.CommentID)
	}
	return db
}

// Find 匹配 key 的通知
func (d *NotificationDAO) Find(ctx context.Context, key NotificationKey) ([]*models.Notification, error) {
	items := make([]*models.Notification, 0)
	err := d.Db.WithContext(ctx).Scopes(key.scope).Find(&items).Error
	return items, err
}

// DeleteByIds 按ID删除
func (d *NotificationDAO) DeleteByIds(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return d.Db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Notification{}).Error
}

// ConvertType follow_request 转 new_follower 等类型转换，同时重置为未读
func (d *NotificationDAO) ConvertType(ctx context.Context, id int64, typ string, extra map[string]any) error {
	fields := map[string]any{"notification_type": typ, "is_read": false}
	if extra != nil {
		fields["extra"] = datatypes.JSONMap(extra)
	}
	return d.Model(ctx).Where("id = ?", id).Updates(fields).Error
}

func (d *NotificationDAO) ByPost(ctx context.Context, postID int64) ([]*models.Notification, error) {
	items := make([]*models.Notification, 0)
	err := d.Db.WithContext(ctx).Where("post_id = ?", postID).Find(&items).Error
	return items, err
}

// ListByRecipient 最新的在前
func (d *NotificationDAO) ListByRecipient(ctx context.Context, uid int64, page, size int) ([]*models.Notification, error) {
	items := make([]*models.Notification, 0)
	err := d.Db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", uid).
		Order("id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// MarkRead 只处理 uid 的未读通知，ids 为空时全部标记，返回变更行数
func (d *NotificationDAO) MarkRead(ctx context.Context, uid int64, ids []int64) (int64, error) {
	tx := d.Model(ctx).Where("recipient_id = ? AND is_read = ?", uid, false)
	if len(ids) > 0 {
		tx = tx.Where("id IN ?", ids)
	}
	res := tx.Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (d *NotificationDAO) UnreadCount(ctx context.Context, uid int64) (int64, error) {
	return d.QueryCount(ctx, "recipient_id = ? AND is_read = ?", uid, false)
}
