package service

import (
	"context"

	"Socio/dao"
	"Socio/models"
	"Socio/types"

	"gorm.io/gorm"
)

var _ ILikeService = (*LikeService)(nil)

type ILikeService interface {
	Like(ctx context.Context, uid, postID int64) (*types.LikeResult, error)
	Unlike(ctx context.Context, uid, postID int64) (*types.LikeResult, error)
	Likers(ctx context.Context, viewer, postID int64, page types.PageRequest) ([]*types.UserSearchItem, error)
}

type LikeService struct {
	DB                  *gorm.DB
	PostDAO             *dao.PostDAO
	PostLikeDAO         *dao.PostLikeDAO
	FollowDAO           *dao.FollowDAO
	PostService         IPostService
	NotificationService INotificationService
}

func (s *LikeService) Like(ctx context.Context, uid, postID int64) (*types.LikeResult, error) {
	post, err := s.PostService.Viewable(ctx, uid, postID)
	if err != nil {
		return nil, err
	}

	// 检查是否已经点赞，并发重复点赞由唯一索引兜底
	liked, err := s.PostLikeDAO.IsLiked(ctx, postID, uid)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, newError(ErrConflict, "you have already liked this post")
	}

	var notice *models.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.PostLikeDAO.Tx(tx).Create(ctx, &models.PostLike{PostID: postID, UserID: uid}); err != nil {
			if isDuplicate(err) {
				return newError(ErrConflict, "you have already liked this post")
			}
			return err
		}

		if err := s.PostDAO.Tx(tx).IncrLikeCount(ctx, postID, 1); err != nil {
			return err
		}

		// 给自己点赞不通知
		if post.UserID == uid {
			return nil
		}
		notice = &models.Notification{
			RecipientID:      post.UserID,
			SenderID:         uid,
			NotificationType: models.NotifyNewLike,
			PostID:           int64Ptr(postID),
		}
		return s.NotificationService.Create(ctx, tx, notice)
	})
	if err != nil {
		return nil, err
	}

	if notice != nil {
		s.NotificationService.Push(ctx, notice)
	}

	return s.result(ctx, postID, true)
}

func (s *LikeService) Unlike(ctx context.Context, uid, postID int64) (*types.LikeResult, error) {
	post, err := s.PostService.Viewable(ctx, uid, postID)
	if err != nil {
		return nil, err
	}

	var removed []*models.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.PostLikeDAO.Tx(tx).Remove(ctx, postID, uid)
		if err != nil {
			return err
		}
		if rows == 0 {
			return newError(ErrInvalid, "you have not liked this post")
		}

		if err := s.PostDAO.Tx(tx).IncrLikeCount(ctx, postID, -1); err != nil {
			return err
		}

		removed, err = s.NotificationService.Remove(ctx, tx, dao.NotificationKey{
			Recipient: post.UserID,
			Sender:    uid,
			Types:     []string{models.NotifyNewLike},
			PostID:    int64Ptr(postID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.NotificationService.Retract(ctx, removed...)

	return s.result(ctx, postID, false)
}

func (s *LikeService) Likers(ctx context.Context, viewer, postID int64, page types.PageRequest) ([]*types.UserSearchItem, error) {
	if _, err := s.PostService.Viewable(ctx, viewer, postID); err != nil {
		return nil, err
	}

	rows, err := s.PostLikeDAO.Likers(ctx, postID, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}

	status, err := s.FollowDAO.StatusMap(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*types.UserSearchItem, 0, len(rows))
	for _, row := range rows {
		if row.User == nil {
			continue
		}
		items = append(items, &types.UserSearchItem{
			UserBrief:    userBrief(row.User),
			FollowStatus: followStatus(viewer, row.UserID, status[row.UserID]),
		})
	}
	return items, nil
}

func (s *LikeService) result(ctx context.Context, postID int64, liked bool) (*types.LikeResult, error) {
	post, err := s.PostDAO.FindById(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &types.LikeResult{Liked: liked, LikeCount: post.LikeCount}, nil
}
