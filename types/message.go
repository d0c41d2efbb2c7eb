package types

import "time"

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type MessageItem struct {
	ID          int64     `json:"id"`
	Sender      int64     `json:"sender"`
	Receiver    int64     `json:"receiver"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsDelivered bool      `json:"is_delivered"`
	IsRead      bool      `json:"is_read"`
}

type SenderStatus struct {
	ID     int64 `json:"id"`
	IsRead bool  `json:"is_read"`
}

type ConversationResponse struct {
	Messages []*MessageItem `json:"messages"`
	// 最新一条是自己发出时，对方是否已读
	MostRecentSenderStatus *SenderStatus `json:"most_recent_sender_status"`
	Page                   int           `json:"page"`
	PageSize               int           `json:"page_size"`
}

type PartnersRequest struct {
	Username string `form:"username" binding:"max=150"`
	PageRequest
}

type PartnerItem struct {
	UserBrief
	LastMessage *MessageItem `json:"last_message"`
	UnreadCount int64        `json:"unread_count"`
	IsOnline    bool         `json:"is_online"`
}

type MarkReadRequest struct {
	Ids []int64 `json:"ids" binding:"omitempty,max=500"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}
