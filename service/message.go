package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"Socio/dao"
	"Socio/dao/cache"
	"Socio/models"
	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/types"

	"go.uber.org/zap"
)

// 私信最大长度
const maxMessageLength = 1000

var _ IMessageService = (*MessageService)(nil)

type IMessageService interface {
	Send(ctx context.Context, sender, receiver int64, content string) (*types.MessageItem, error)
	Delete(ctx context.Context, uid, id int64) error
	Conversation(ctx context.Context, uid, peer int64, page types.PageRequest) (*types.ConversationResponse, error)
	Partners(ctx context.Context, uid int64, req *types.PartnersRequest) ([]*types.PartnerItem, error)
	// MarkRead WebSocket 已读回执，只处理 uid 收到的消息
	MarkRead(ctx context.Context, uid int64, ids []int64) (int, error)
	// MarkDelivered 消息首次投递到接收方连接
	MarkDelivered(ctx context.Context, id, receiver int64) (bool, error)
	UnreadCount(ctx context.Context, uid int64) (int64, error)
}

type MessageService struct {
	UserDAO       *dao.UserDAO
	MessageDAO    *dao.MessageDAO
	Unread        *cache.UnreadStorage
	ClientStorage *cache.ClientStorage
	Publisher     IPublisher
}

func (s *MessageService) Send(ctx context.Context, sender, receiver int64, content string) (*types.MessageItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, newError(ErrInvalid, "content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, newError(ErrInvalid, "content must be at most 1000 characters")
	}
	if sender == receiver {
		return nil, newError(ErrInvalid, "you cannot send a message to yourself")
	}

	exist, err := s.UserDAO.IsExist(ctx, "id = ?", receiver)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, newError(ErrNotFound, "receiver not found")
	}

	msg := &models.Message{SenderID: sender, ReceiverID: receiver, Content: content}
	if err := s.MessageDAO.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.incrUnread(ctx, receiver, 1)

	s.Publisher.NotifyConversation(ctx, sender, receiver, &pubsub.Event{
		Type:             pubsub.EventMessage,
		UniqueIdentifier: strconv.FormatInt(msg.ID, 10),
		Content:          msg.Content,
		Sender:           sender,
		Recipient:        receiver,
		Timestamp:        msg.CreatedAt.UnixMilli(),
	})

	return messageItem(msg), nil
}

// Delete 只有发送者可以删除
func (s *MessageService) Delete(ctx context.Context, uid, id int64) error {
	msg, err := s.MessageDAO.FindByWhere(ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if msg == nil {
		return newError(ErrNotFound, "message not found")
	}
	if msg.SenderID != uid {
		return newError(ErrForbidden, "you can only delete your own messages")
	}

	rows, err := s.MessageDAO.DeleteById(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	if !msg.IsRead {
		s.incrUnread(ctx, msg.ReceiverID, -1)
	}

	s.Publisher.NotifyConversation(ctx, msg.SenderID, msg.ReceiverID, &pubsub.Event{
		Type:             pubsub.EventRemoveMessage,
		UniqueIdentifier: strconv.FormatInt(msg.ID, 10),
		Sender:           msg.SenderID,
		Recipient:        msg.ReceiverID,
	})
	return nil
}

// Conversation 最新在前，对方发来的未读消息标记为已读
func (s *MessageService) Conversation(ctx context.Context, uid, peer int64, page types.PageRequest) (*types.ConversationResponse, error) {
	exist, err := s.UserDAO.IsExist(ctx, "id = ?", peer)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, newError(ErrNotFound, "user not found")
	}

	rows, err := s.MessageDAO.Conversation(ctx, uid, peer, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	resp := &types.ConversationResponse{
		Messages: make([]*types.MessageItem, 0, len(rows)),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	for _, row := range rows {
		resp.Messages = append(resp.Messages, messageItem(row))
	}

	latest, err := s.MessageDAO.Latest(ctx, uid, peer)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.SenderID == uid {
		resp.MostRecentSenderStatus = &types.SenderStatus{ID: latest.ID, IsRead: latest.IsRead}
	}

	ids, err := s.MessageDAO.MarkConversationRead(ctx, uid, peer)
	if err != nil {
		// 部分已标记，计数以数据库为准
		s.resetUnread(ctx, uid)
		return nil, err
	}
	if len(ids) > 0 {
		s.incrUnread(ctx, uid, -int64(len(ids)))
		s.receipt(ctx, uid, peer, ids)
	}

	return resp, nil
}

// Partners 按最近互动倒序
func (s *MessageService) Partners(ctx context.Context, uid int64, req *types.PartnersRequest) ([]*types.PartnerItem, error) {
	partners, err := s.MessageDAO.Partners(ctx, uid, strings.TrimSpace(req.Username), req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	if len(partners) == 0 {
		return make([]*types.PartnerItem, 0), nil
	}

	uids := make([]int64, 0, len(partners))
	lastIds := make([]int64, 0, len(partners))
	for _, p := range partners {
		uids = append(uids, p.PartnerID)
		lastIds = append(lastIds, p.LastID)
	}

	users, err := s.UserDAO.FindByIds(ctx, uids)
	if err != nil {
		return nil, err
	}
	userMap := make(map[int64]*models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	messages, err := s.MessageDAO.FindByIds(ctx, lastIds)
	if err != nil {
		return nil, err
	}
	messageMap := make(map[int64]*models.Message, len(messages))
	for _, m := range messages {
		messageMap[m.ID] = m
	}

	unread, err := s.MessageDAO.UnreadBySenders(ctx, uid, uids)
	if err != nil {
		return nil, err
	}

	items := make([]*types.PartnerItem, 0, len(partners))
	for _, p := range partners {
		u, ok := userMap[p.PartnerID]
		if !ok {
			continue
		}

		item := &types.PartnerItem{
			UserBrief:   userBrief(u),
			UnreadCount: unread[p.PartnerID],
			IsOnline:    s.isOnline(ctx, p.PartnerID),
		}
		if m, ok := messageMap[p.LastID]; ok {
			item.LastMessage = messageItem(m)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *MessageService) MarkRead(ctx context.Context, uid int64, ids []int64) (int, error) {
	items, err := s.MessageDAO.MarkRead(ctx, uid, ids)
	if err != nil {
		s.resetUnread(ctx, uid)
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	s.incrUnread(ctx, uid, -int64(len(items)))

	// 按发送者分组回执
	bySender := make(map[int64][]int64)
	for _, item := range items {
		bySender[item.SenderID] = append(bySender[item.SenderID], item.ID)
	}
	for sender, mids := range bySender {
		s.receipt(ctx, uid, sender, mids)
	}

	return len(items), nil
}

func (s *MessageService) MarkDelivered(ctx context.Context, id, receiver int64) (bool, error) {
	return s.MessageDAO.MarkDelivered(ctx, id, receiver)
}

func (s *MessageService) UnreadCount(ctx context.Context, uid int64) (int64, error) {
	if n, ok := s.Unread.Get(ctx, uid, cache.UnreadMessage); ok {
		return n, nil
	}

	n, err := s.MessageDAO.UnreadCount(ctx, uid)
	if err != nil {
		return 0, err
	}

	if err := s.Unread.Fill(ctx, uid, cache.UnreadMessage, n); err != nil {
		log.L.Warn("fill unread cache failed", zap.Int64("uid", uid), zap.Error(err))
		return n, nil
	}

	// 回填期间的增减因 key 不存在而落空，复查不一致时删除缓存
	check, err := s.MessageDAO.UnreadCount(ctx, uid)
	if err != nil {
		return 0, err
	}
	if check != n {
		s.resetUnread(ctx, uid)
	}
	return check, nil
}

// receipt 通知发送方消息已读
func (s *MessageService) receipt(ctx context.Context, reader, sender int64, ids []int64) {
	s.Publisher.NotifyConversation(ctx, reader, sender, &pubsub.Event{
		Type:      pubsub.EventReadReceipt,
		Sender:    reader,
		Recipient: sender,
		Ids:       ids,
	})
}

func (s *MessageService) isOnline(ctx context.Context, uid int64) bool {
	if s.ClientStorage == nil {
		return false
	}
	return s.ClientStorage.IsOnline(ctx, socket.ChannelMessages, uid) ||
		s.ClientStorage.IsOnline(ctx, socket.ChannelNotifications, uid)
}

func (s *MessageService) incrUnread(ctx context.Context, uid int64, delta int64) {
	if err := s.Unread.Incr(ctx, uid, cache.UnreadMessage, delta); err != nil {
		log.L.Warn("incr unread cache failed", zap.Int64("uid", uid), zap.Error(err))
	}
}

func (s *MessageService) resetUnread(ctx context.Context, uid int64) {
	if err := s.Unread.Reset(ctx, uid, cache.UnreadMessage); err != nil {
		log.L.Warn("reset unread cache failed", zap.Int64("uid", uid), zap.Error(err))
	}
}
