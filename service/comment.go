package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"Socio/dao"
	"Socio/models"
	"Socio/types"

	"gorm.io/gorm"
)

// 评论最大长度
const maxCommentLength = 500

var _ ICommentService = (*CommentService)(nil)

type ICommentService interface {
	Create(ctx context.Context, uid, postID int64, content string) (*types.CommentItem, error)
	Update(ctx context.Context, uid, id int64, content string) (*types.CommentItem, error)
	Delete(ctx context.Context, uid, id int64) error
	List(ctx context.Context, viewer, postID int64, page types.PageRequest) ([]*types.CommentItem, error)
}

type CommentService struct {
	DB                  *gorm.DB
	UserDAO             *dao.UserDAO
	PostDAO             *dao.PostDAO
	CommentDAO          *dao.CommentDAO
	PostService         IPostService
	NotificationService INotificationService
}

func checkComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", newError(ErrInvalid, "content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", newError(ErrInvalid, "content must be at most 500 characters")
	}
	return content, nil
}

func (s *CommentService) Create(ctx context.Context, uid, postID int64, content string) (*types.CommentItem, error) {
	content, err := checkComment(content)
	if err != nil {
		return nil, err
	}

	post, err := s.PostService.Viewable(ctx, uid, postID)
	if err != nil {
		return nil, err
	}

	user, err := s.UserDAO.FindById(ctx, uid)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: uid, Content: content}

	var notice *models.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.CommentDAO.Tx(tx).Create(ctx, comment); err != nil {
			return err
		}

		if err := s.PostDAO.Tx(tx).IncrCommentCount(ctx, postID, 1); err != nil {
			return err
		}

		// 评论自己的帖子不通知
		if post.UserID == uid {
			return nil
		}
		notice = &models.Notification{
			RecipientID:      post.UserID,
			SenderID:         uid,
			NotificationType: models.NotifyNewComment,
			PostID:           int64Ptr(postID),
			CommentID:        int64Ptr(comment.ID),
			Sender:           user,
		}
		return s.NotificationService.Create(ctx, tx, notice)
	})
	if err != nil {
		return nil, err
	}

	if notice != nil {
		s.NotificationService.Push(ctx, notice)
	}

	comment.User = user
	return commentItem(comment, uid, post.UserID), nil
}

func (s *CommentService) Update(ctx context.Context, uid, id int64, content string) (*types.CommentItem, error) {
	content, err := checkComment(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != uid {
		return nil, newError(ErrForbidden, "you can only edit your own comments")
	}

	if _, err := s.CommentDAO.UpdateById(ctx, id, map[string]any{"content": content}); err != nil {
		return nil, err
	}
	comment.Content = content

	post, err := s.PostDAO.FindById(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}

	comment.User, err = s.UserDAO.FindById(ctx, uid)
	if err != nil {
		return nil, err
	}
	return commentItem(comment, uid, post.UserID), nil
}

// Delete 评论作者或帖子作者可删除
func (s *CommentService) Delete(ctx context.Context, uid, id int64) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	post, err := s.PostDAO.FindById(ctx, comment.PostID)
	if err != nil {
		return err
	}
	if comment.UserID != uid && post.UserID != uid {
		return newError(ErrForbidden, "you do not have permission to delete this comment")
	}

	var removed []*models.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.CommentDAO.Tx(tx).DeleteById(ctx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}

		if err := s.PostDAO.Tx(tx).IncrCommentCount(ctx, post.ID, -1); err != nil {
			return err
		}

		removed, err = s.NotificationService.Remove(ctx, tx, dao.NotificationKey{
			Recipient: post.UserID,
			Sender:    comment.UserID,
			Types:     []string{models.NotifyNewComment},
			PostID:    int64Ptr(post.ID),
			CommentID: int64Ptr(id),
		})
		return err
	})
	if err != nil {
		return err
	}

	s.NotificationService.Retract(ctx, removed...)
	return nil
}

func (s *CommentService) List(ctx context.Context, viewer, postID int64, page types.PageRequest) ([]*types.CommentItem, error) {
	post, err := s.PostService.Viewable(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}

	rows, err := s.CommentDAO.ListByPost(ctx, postID, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]*types.CommentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, commentItem(row, viewer, post.UserID))
	}
	return items, nil
}

func (s *CommentService) find(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.CommentDAO.FindByWhere(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, newError(ErrNotFound, "comment not found")
	}
	return comment, nil
}

func commentItem(c *models.Comment, viewer, postOwner int64) *types.CommentItem {
	return &types.CommentItem{
		ID:        c.ID,
		PostID:    c.PostID,
		User:      userBrief(c.User),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		CanEdit:   c.UserID == viewer,
		CanDelete: c.UserID == viewer || postOwner == viewer,
	}
}
