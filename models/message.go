package models

import "time"

// Message 私信
// is_delivered: 已投递到接收方在线连接; is_read: 接收方已读
type Message struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID    int64     `gorm:"column:sender_id;not null;index:idx_pair,priority:1" json:"sender_id"`
	ReceiverID  int64     `gorm:"column:receiver_id;not null;index:idx_pair,priority:2;index:idx_receiver_read,priority:1" json:"receiver_id"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	IsDelivered bool      `gorm:"column:is_delivered;not null;default:false" json:"is_delivered"`
	IsRead      bool      `gorm:"column:is_read;not null;default:false;index:idx_receiver_read,priority:2" json:"is_read"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"timestamp"`
}

func (Message) TableName() string {
	return "messages"
}
