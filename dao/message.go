package dao

import (
	"context"

	"Socio/models"

	"gorm.io/gorm"
)

type MessageDAO struct {
	Repo[models.Message]
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{Repo: NewRepo[models.Message](db)}
}

// pair 两人之间双向的消息
func pair(a, b int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
	}
}

// Conversation 会话消息，最新的在前
func (d *MessageDAO) Conversation(ctx context.Context, uid, peer int64, page, size int) ([]*models.Message, error) {
	items := make([]*models.Message, 0)
	err := d.Db.WithContext(ctx).
		Scopes(pair(uid, peer)).
		Order("id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// Latest 会话中最新一条，没有返回 nil
func (d *MessageDAO) Latest(ctx context.Context, uid, peer int64) (*models.Message, error) {
	var item models.Message
	err := d.Db.WithContext(ctx).Scopes(pair(uid, peer)).Order("id DESC").Limit(1).Find(&item).Error
	if err != nil || item.ID == 0 {
		return nil, err
	}
	return &item, nil
}

// MarkConversationRead peer 发给 uid 的未读消息置为已读，返回本次标记的ID
func (d *MessageDAO) MarkConversationRead(ctx context.Context, uid, peer int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := d.Model(ctx).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", peer, uid, false).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return ids, err
	}

	return d.markRead(ctx, ids)
}

// MarkRead 只处理 uid 收到且未读的消息，返回本次标记的消息
func (d *MessageDAO) MarkRead(ctx context.Context, uid int64, ids []int64) ([]*models.Message, error) {
	items := make([]*models.Message, 0)
	if len(ids) == 0 {
		return items, nil
	}

	err := d.Db.WithContext(ctx).
		Where("id IN ? AND receiver_id = ? AND is_read = ?", ids, uid, false).
		Order("id ASC").
		Find(&items).Error
	if err != nil || len(items) == 0 {
		return items, err
	}

	candidates := make([]int64, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, item.ID)
	}

	marked, err := d.markRead(ctx, candidates)
	if err != nil {
		return nil, err
	}

	hit := make(map[int64]struct{}, len(marked))
	for _, id := range marked {
		hit[id] = struct{}{}
	}

	res := make([]*models.Message, 0, len(marked))
	for _, item := range items {
		if _, ok := hit[item.ID]; ok {
			item.IsRead = true
			res = append(res, item)
		}
	}
	return res, nil
}

// markRead 逐条 unread -> read，并发标记时每条只会被一方计入
func (d *MessageDAO) markRead(ctx context.Context, ids []int64) ([]int64, error) {
	marked := make([]int64, 0, len(ids))
	for _, id := range ids {
		res := d.Model(ctx).Where("id = ? AND is_read = ?", id, false).Update("is_read", true)
		if res.Error != nil {
			return marked, res.Error
		}
		if res.RowsAffected > 0 {
			marked = append(marked, id)
		}
	}
	return marked, nil
}

// MarkDelivered 首次投递到接收方连接时调用，返回是否发生变更
func (d *MessageDAO) MarkDelivered(ctx context.Context, id, receiver int64) (bool, error) {
	res := d.Model(ctx).
		Where("id = ? AND receiver_id = ? AND is_delivered = ?", id, receiver, false).
		Update("is_delivered", true)
	return res.RowsAffected > 0, res.Error
}

func (d *MessageDAO) UnreadCount(ctx context.Context, uid int64) (int64, error) {
	return d.QueryCount(ctx, "receiver_id = ? AND is_read = ?", uid, false)
}

// UnreadBySenders 各发送者发给 uid 的未读数
func (d *MessageDAO) UnreadBySenders(ctx context.Context, uid int64, senders []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(senders))
	if len(senders) == 0 {
		return res, nil
	}

	type row struct {
		SenderID int64
		Total    int64
	}
	var rows []row
	err := d.Model(ctx).
		Select("sender_id, COUNT(*) AS total").
		Where("receiver_id = ? AND is_read = ? AND sender_id IN ?", uid, false, senders).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.SenderID] = r.Total
	}
	return res, nil
}

// Partner 会话对象及最后一条消息ID
type Partner struct {
	PartnerID int64
	LastID    int64
}

// Partners 与 uid 有过消息往来的用户，按最近互动倒序
// keyword 非空时按用户名过滤（不区分大小写）
func (d *MessageDAO) Partners(ctx context.Context, uid int64, keyword string, page, size int) ([]Partner, error) {
	if page < 1 {
		page = 1
	}

	query := `
		SELECT t.partner_id, MAX(t.id) AS last_id FROM (
			SELECT receiver_id AS partner_id, id FROM messages WHERE sender_id = ?
			UNION ALL
			SELECT sender_id AS partner_id, id FROM messages WHERE receiver_id = ?
		) t`
	args := []any{uid, uid}

	if keyword != "" {
		query += ` JOIN users u ON u.id = t.partner_id WHERE LOWER(u.username) LIKE ? ESCAPE '!'`
		args = append(args, containsPattern(keyword))
	}

	query += ` GROUP BY t.partner_id ORDER BY last_id DESC LIMIT ? OFFSET ?`
	args = append(args, size, (page-1)*size)

	items := make([]Partner, 0)
	err := d.Db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	return items, err
}
