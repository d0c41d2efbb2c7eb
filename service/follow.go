package service

import (
	"context"
	"strconv"

	"Socio/dao"
	"Socio/models"
	"Socio/pkg/pubsub"
	"Socio/types"

	"gorm.io/gorm"
)

var _ IFollowService = (*FollowService)(nil)

type IFollowService interface {
	Follow(ctx context.Context, followerID, targetID int64) (*types.FollowResult, error)
	Respond(ctx context.Context, ownerID, followerID int64, action string) (*types.FollowResult, error)
	Unfollow(ctx context.Context, followerID, targetID int64) (bool, error)
	Followers(ctx context.Context, viewer, uid int64, page types.PageRequest) ([]*types.FollowItem, error)
	Following(ctx context.Context, viewer, uid int64, page types.PageRequest) ([]*types.FollowItem, error)
	// AcceptPending 在独立事务内通过一条待处理请求并推送，供隐私切换复用
	AcceptPending(ctx context.Context, f *models.Follow) error
}

type FollowService struct {
	DB                  *gorm.DB
	FollowDAO           *dao.FollowDAO
	UserDAO             *dao.UserDAO
	NotificationService INotificationService
	Publisher           IPublisher
}

func (s *FollowService) Follow(ctx context.Context, followerID, targetID int64) (*types.FollowResult, error) {
	// 不能关注自己
	if followerID == targetID {
		return nil, newError(ErrInvalid, "you cannot follow yourself")
	}

	target, err := s.UserDAO.FindByWhere(ctx, "id = ?", targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	existing, err := s.FollowDAO.Get(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Accepted() {
			return nil, newError(ErrConflict, "you are already following this user")
		}
		return nil, newError(ErrConflict, "follow request already sent")
	}

	follow := &models.Follow{
		FollowerID:   followerID,
		FollowingID:  targetID,
		FollowStatus: models.FollowAccepted,
	}
	notifyType := models.NotifyNewFollower
	if target.IsPrivate() {
		follow.FollowStatus = models.FollowPending
		notifyType = models.NotifyFollowRequest
	}

	notice := &models.Notification{
		RecipientID:      targetID,
		SenderID:         followerID,
		NotificationType: notifyType,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.FollowDAO.Tx(tx).Create(ctx, follow); err != nil {
			if isDuplicate(err) {
				return newError(ErrConflict, "follow request already sent")
			}
			return err
		}

		if follow.Accepted() {
			if err := s.incrCounters(ctx, tx, followerID, targetID, 1); err != nil {
				return err
			}
		}

		return s.NotificationService.Create(ctx, tx, notice)
	})
	if err != nil {
		return nil, err
	}

	s.NotificationService.Push(ctx, notice)

	return &types.FollowResult{FollowStatus: follow.FollowStatus}, nil
}

func (s *FollowService) Respond(ctx context.Context, ownerID, followerID int64, action string) (*types.FollowResult, error) {
	if action != types.FollowActionAccept && action != types.FollowActionDecline {
		return nil, newError(ErrInvalid, "invalid action")
	}

	follow, err := s.FollowDAO.Get(ctx, followerID, ownerID)
	if err != nil {
		return nil, err
	}
	if follow == nil || follow.Accepted() {
		return nil, newError(ErrNotFound, "follow request not found")
	}

	if action == types.FollowActionAccept {
		if err := s.AcceptPending(ctx, follow); err != nil {
			return nil, err
		}
		return &types.FollowResult{FollowStatus: models.FollowAccepted}, nil
	}

	var removed []*models.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 期间已被通过（如切换为公开账号）时不再删除
		rows, err := s.FollowDAO.Tx(tx).DeleteByStatus(ctx, follow.ID, models.FollowPending)
		if err != nil {
			return err
		}
		if rows == 0 {
			return newError(ErrNotFound, "follow request not found")
		}

		removed, err = s.NotificationService.Remove(ctx, tx, dao.NotificationKey{
			Recipient: ownerID,
			Sender:    followerID,
			Types:     []string{models.NotifyFollowRequest},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishAction(ctx, ownerID, types.FollowActionDecline, removed)
	s.NotificationService.Retract(ctx, removed...)

	return &types.FollowResult{FollowStatus: types.FollowStatusNone}, nil
}

func (s *FollowService) AcceptPending(ctx context.Context, follow *models.Follow) error {
	var (
		converted []*models.Notification
		accept    *models.Notification
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.FollowDAO.Tx(tx).Accept(ctx, follow.ID)
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrNotFound, "follow request not found")
		}

		if err := s.incrCounters(ctx, tx, follow.FollowerID, follow.FollowingID, 1); err != nil {
			return err
		}

		// 原 follow_request 通知转为 new_follower
		requests, err := s.NotificationService.Find(ctx, tx, dao.NotificationKey{
			Recipient: follow.FollowingID,
			Sender:    follow.FollowerID,
			Types:     []string{models.NotifyFollowRequest},
		})
		if err != nil {
			return err
		}
		for _, n := range requests {
			if err := s.NotificationService.Convert(ctx, tx, n, models.NotifyNewFollower); err != nil {
				return err
			}
		}
		converted = requests

		accept = &models.Notification{
			RecipientID:      follow.FollowerID,
			SenderID:         follow.FollowingID,
			NotificationType: models.NotifyFollowAccept,
		}
		return s.NotificationService.Create(ctx, tx, accept)
	})
	if err != nil {
		return err
	}

	follow.FollowStatus = models.FollowAccepted

	s.publishAction(ctx, follow.FollowingID, types.FollowActionAccept, converted)
	s.NotificationService.PushUpdated(ctx, converted...)
	s.NotificationService.Push(ctx, accept)

	return nil
}

// Unfollow 幂等，返回是否有变更
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID int64) (bool, error) {
	if followerID == targetID {
		return false, newError(ErrInvalid, "you cannot unfollow yourself")
	}

	follow, err := s.FollowDAO.Get(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}
	if follow == nil {
		return false, nil
	}

	var (
		removed []*models.Notification
		changed bool
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fdao := s.FollowDAO.Tx(tx)

		// 状态只会 pending -> accepted，先按 pending 删除，未命中再按 accepted
		var deleted string
		for _, status := range []string{models.FollowPending, models.FollowAccepted} {
			rows, err := fdao.DeleteByStatus(ctx, follow.ID, status)
			if err != nil {
				return err
			}
			if rows > 0 {
				deleted = status
				break
			}
		}
		// 并发取消时只扣减一次
		if deleted == "" {
			return nil
		}
		changed = true

		if deleted == models.FollowAccepted {
			if err := s.incrCounters(ctx, tx, followerID, targetID, -1); err != nil {
				return err
			}
		}

		var err error
		removed, err = s.NotificationService.Remove(ctx, tx, dao.NotificationKey{
			Recipient: targetID,
			Sender:    followerID,
			Types:     []string{models.NotifyFollowRequest, models.NotifyNewFollower},
		})
		return err
	})
	if err != nil {
		return false, err
	}

	s.NotificationService.Retract(ctx, removed...)

	return changed, nil
}

func (s *FollowService) Followers(ctx context.Context, viewer, uid int64, page types.PageRequest) ([]*types.FollowItem, error) {
	if err := s.checkVisible(ctx, viewer, uid); err != nil {
		return nil, err
	}

	rows, err := s.FollowDAO.Followers(ctx, uid, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.Follower)
	}
	return s.followItems(ctx, viewer, rows, users)
}

func (s *FollowService) Following(ctx context.Context, viewer, uid int64, page types.PageRequest) ([]*types.FollowItem, error) {
	if err := s.checkVisible(ctx, viewer, uid); err != nil {
		return nil, err
	}

	rows, err := s.FollowDAO.Following(ctx, uid, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.Following)
	}
	return s.followItems(ctx, viewer, rows, users)
}

func (s *FollowService) followItems(ctx context.Context, viewer int64, rows []*models.Follow, users []*models.User) ([]*types.FollowItem, error) {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if u != nil {
			ids = append(ids, u.ID)
		}
	}

	status, err := s.FollowDAO.StatusMap(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*types.FollowItem, 0, len(rows))
	for i, row := range rows {
		u := users[i]
		if u == nil {
			continue
		}
		items = append(items, &types.FollowItem{
			UserBrief:                  userBrief(u),
			FollowedAt:                 row.CreatedAt,
			RequestingUserFollowStatus: followStatus(viewer, u.ID, status[u.ID]),
		})
	}
	return items, nil
}

// checkVisible 私密账号的关注列表只对本人和已关注者可见
func (s *FollowService) checkVisible(ctx context.Context, viewer, uid int64) error {
	user, err := s.UserDAO.FindByWhere(ctx, "id = ?", uid)
	if err != nil {
		return err
	}
	if user == nil {
		return newError(ErrNotFound, "user not found")
	}
	if viewer == uid || !user.IsPrivate() {
		return nil
	}

	following, err := s.FollowDAO.IsFollowing(ctx, viewer, uid)
	if err != nil {
		return err
	}
	if !following {
		return newError(ErrForbidden, "this account is private")
	}
	return nil
}

// incrCounters 关注者 num_following 与被关注者 num_followers 同步增减
func (s *FollowService) incrCounters(ctx context.Context, tx *gorm.DB, followerID, targetID int64, delta int) error {
	udao := s.UserDAO.Tx(tx)
	if err := udao.IncrCounter(ctx, targetID, dao.ColumnNumFollowers, delta); err != nil {
		return err
	}
	return udao.IncrCounter(ctx, followerID, dao.ColumnNumFollowing, delta)
}

// publishAction 告知请求处理结果，客户端据此更新请求列表
func (s *FollowService) publishAction(ctx context.Context, ownerID int64, action string, items []*models.Notification) {
	ev := &pubsub.Event{
		Type:      pubsub.EventFollowRequestAction,
		Action:    action,
		Recipient: ownerID,
	}
	if len(items) > 0 {
		ev.UniqueIdentifier = strconv.FormatInt(items[0].ID, 10)
		ev.Sender = items[0].SenderID
	}
	s.Publisher.NotifyUser(ctx, ownerID, ev)
}
