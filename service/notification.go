package service

import (
	"context"
	"fmt"
	"strconv"

	"Socio/config"
	"Socio/dao"
	"Socio/dao/cache"
	"Socio/models"
	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Extra 中保存的推送快照字段
const (
	extraMessage      = "message"
	extraSenderAvatar = "sender_profile_picture_url"
	extraPostMedia    = "post_media_url"
)

var notificationTemplates = map[string]string{
	models.NotifyFollowRequest: "%s sent you a follow request",
	models.NotifyNewFollower:   "%s started following you",
	models.NotifyFollowAccept:  "%s accepted your follow request",
	models.NotifyNewLike:       "%s liked your post",
	models.NotifyNewComment:    "%s commented on your post",
}

func renderNotification(typ, username string) string {
	tpl, ok := notificationTemplates[typ]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tpl, username)
}

var _ INotificationService = (*NotificationService)(nil)

type INotificationService interface {
	// Create 在调用方事务内写入通知，推送需在提交后调用 Push
	Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error
	// Convert 在调用方事务内转换通知类型并重置为未读
	Convert(ctx context.Context, tx *gorm.DB, n *models.Notification, typ string) error
	Find(ctx context.Context, tx *gorm.DB, key dao.NotificationKey) ([]*models.Notification, error)
	// Remove 在调用方事务内删除匹配的通知，返回被删除的记录
	Remove(ctx context.Context, tx *gorm.DB, key dao.NotificationKey) ([]*models.Notification, error)
	Push(ctx context.Context, items ...*models.Notification)
	PushUpdated(ctx context.Context, items ...*models.Notification)
	Retract(ctx context.Context, items ...*models.Notification)
	List(ctx context.Context, uid int64, page types.PageRequest) ([]*types.NotificationItem, error)
	MarkRead(ctx context.Context, uid int64, ids []int64) (int64, error)
	MarkAllRead(ctx context.Context, uid int64) (int64, error)
	UnreadCount(ctx context.Context, uid int64) (int64, error)
}

type NotificationService struct {
	Config          *config.Config
	NotificationDAO *dao.NotificationDAO
	UserDAO         *dao.UserDAO
	PostDAO         *dao.PostDAO
	Unread          *cache.UnreadStorage
	Publisher       IPublisher
}

func (s *NotificationService) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	if err := s.snapshot(ctx, tx, n, n.NotificationType); err != nil {
		return err
	}

	return s.NotificationDAO.Tx(tx).Create(ctx, n)
}

func (s *NotificationService) Convert(ctx context.Context, tx *gorm.DB, n *models.Notification, typ string) error {
	if err := s.snapshot(ctx, tx, n, typ); err != nil {
		return err
	}

	if err := s.NotificationDAO.Tx(tx).ConvertType(ctx, n.ID, typ, n.Extra); err != nil {
		return err
	}

	n.NotificationType = typ
	n.IsRead = false
	return nil
}

func (s *NotificationService) Find(ctx context.Context, tx *gorm.DB, key dao.NotificationKey) ([]*models.Notification, error) {
	return s.NotificationDAO.Tx(tx).Find(ctx, key)
}

func (s *NotificationService) Remove(ctx context.Context, tx *gorm.DB, key dao.NotificationKey) ([]*models.Notification, error) {
	ndao := s.NotificationDAO.Tx(tx)

	items, err := ndao.Find(ctx, key)
	if err != nil || len(items) == 0 {
		return items, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	return items, ndao.DeleteByIds(ctx, ids)
}

// snapshot 渲染文案和媒体地址写入 Extra，推送和列表都读取这份快照
func (s *NotificationService) snapshot(ctx context.Context, tx *gorm.DB, n *models.Notification, typ string) error {
	if n.Sender == nil {
		sender, err := s.UserDAO.Tx(tx).FindById(ctx, n.SenderID)
		if err != nil {
			return err
		}
		n.Sender = sender
	}

	extra := datatypes.JSONMap{
		extraMessage:      renderNotification(typ, n.Sender.Username),
		extraSenderAvatar: absoluteURL(s.Config, n.Sender.ProfilePicture),
	}

	if n.PostID != nil {
		post, err := s.PostDAO.Tx(tx).FindById(ctx, *n.PostID)
		if err != nil {
			return err
		}
		if post.MediaURL != "" {
			extra[extraPostMedia] = absoluteURL(s.Config, post.MediaURL)
		}
	}

	n.Extra = extra
	return nil
}

// Push 新通知推送给接收者，未读数 +1
func (s *NotificationService) Push(ctx context.Context, items ...*models.Notification) {
	targets := make([]Target, 0, len(items))
	for _, n := range items {
		targets = append(targets, Target{Group: pubsub.NotificationGroup(n.RecipientID), Event: s.event(n)})
		s.incrUnread(ctx, n.RecipientID, 1)
	}
	s.Publisher.PublishMany(ctx, targets...)
}

// PushUpdated 已存在的通知变更后重新推送，未读数以数据库为准重新加载
func (s *NotificationService) PushUpdated(ctx context.Context, items ...*models.Notification) {
	targets := make([]Target, 0, len(items))
	for _, n := range items {
		targets = append(targets, Target{Group: pubsub.NotificationGroup(n.RecipientID), Event: s.event(n)})
		s.resetUnread(ctx, n.RecipientID)
	}
	s.Publisher.PublishMany(ctx, targets...)
}

// Retract 通知被删除后通知客户端移除
func (s *NotificationService) Retract(ctx context.Context, items ...*models.Notification) {
	targets := make([]Target, 0, len(items))
	for _, n := range items {
		targets = append(targets, Target{
			Group: pubsub.NotificationGroup(n.RecipientID),
			Event: &pubsub.Event{
				Type:             pubsub.EventRemoveNotification,
				UniqueIdentifier: strconv.FormatInt(n.ID, 10),
				NotificationType: n.NotificationType,
				Sender:           n.SenderID,
				Recipient:        n.RecipientID,
			},
		})
		if !n.IsRead {
			s.resetUnread(ctx, n.RecipientID)
		}
	}
	s.Publisher.PublishMany(ctx, targets...)
}

func (s *NotificationService) event(n *models.Notification) *pubsub.Event {
	return &pubsub.Event{
		Type:                    pubsub.EventNotification,
		UniqueIdentifier:        strconv.FormatInt(n.ID, 10),
		NotificationType:        n.NotificationType,
		Sender:                  n.SenderID,
		Recipient:               n.RecipientID,
		Message:                 extraString(n.Extra, extraMessage),
		SenderProfilePictureURL: extraString(n.Extra, extraSenderAvatar),
		PostMediaURL:            extraString(n.Extra, extraPostMedia),
	}
}

// List 最新在前，返回的未读通知会被标记已读，响应中保留标记前的状态
func (s *NotificationService) List(ctx context.Context, uid int64, page types.PageRequest) ([]*types.NotificationItem, error) {
	rows, err := s.NotificationDAO.ListByRecipient(ctx, uid, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	unread := make([]int64, 0)
	items := make([]*types.NotificationItem, 0, len(rows))
	for _, n := range rows {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}

		message := extraString(n.Extra, extraMessage)
		if message == "" && n.Sender != nil {
			message = renderNotification(n.NotificationType, n.Sender.Username)
		}

		items = append(items, &types.NotificationItem{
			ID:               n.ID,
			UniqueIdentifier: strconv.FormatInt(n.ID, 10),
			NotificationType: n.NotificationType,
			Sender:           userBrief(n.Sender),
			PostID:           n.PostID,
			CommentID:        n.CommentID,
			PostMediaURL:     extraString(n.Extra, extraPostMedia),
			Message:          message,
			IsRead:           n.IsRead,
			CreatedAt:        n.CreatedAt,
		})
	}

	if len(unread) > 0 {
		if _, err := s.MarkRead(ctx, uid, unread); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, uid int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := s.NotificationDAO.MarkRead(ctx, uid, ids)
	if err != nil {
		return 0, err
	}

	s.incrUnread(ctx, uid, -n)
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, uid int64) (int64, error) {
	n, err := s.NotificationDAO.MarkRead(ctx, uid, nil)
	if err != nil {
		return 0, err
	}

	s.incrUnread(ctx, uid, -n)
	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, uid int64) (int64, error) {
	if n, ok := s.Unread.Get(ctx, uid, cache.UnreadNotification); ok {
		return n, nil
	}

	n, err := s.NotificationDAO.UnreadCount(ctx, uid)
	if err != nil {
		return 0, err
	}

	if err := s.Unread.Fill(ctx, uid, cache.UnreadNotification, n); err != nil {
		log.L.Warn("fill unread cache failed", zap.Int64("uid", uid), zap.Error(err))
		return n, nil
	}

	// 回填期间的增减因 key 不存在而落空，复查不一致时删除缓存
	check, err := s.NotificationDAO.UnreadCount(ctx, uid)
	if err != nil {
		return 0, err
	}
	if check != n {
		s.resetUnread(ctx, uid)
	}
	return check, nil
}

func (s *NotificationService) incrUnread(ctx context.Context, uid int64, delta int64) {
	if delta == 0 {
		return
	}
	if err := s.Unread.Incr(ctx, uid, cache.UnreadNotification, delta); err != nil {
		log.L.Warn("incr unread cache failed", zap.Int64("uid", uid), zap.Error(err))
	}
}

func (s *NotificationService) resetUnread(ctx context.Context, uid int64) {
	if err := s.Unread.Reset(ctx, uid, cache.UnreadNotification); err != nil {
		log.L.Warn("reset unread cache failed", zap.Int64("uid", uid), zap.Error(err))
	}
}

func extraString(extra datatypes.JSONMap, key string) string {
	if extra == nil {
		return ""
	}
	v, _ := extra[key].(string)
	return v
}
