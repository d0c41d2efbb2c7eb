package service

import (
	"context"
	"strings"

	"Socio/dao"
	"Socio/models"
	"Socio/types"

	"gorm.io/gorm"
)

var _ IPostService = (*PostService)(nil)

type IPostService interface {
	Create(ctx context.Context, uid int64, req *types.CreatePostRequest) (*types.PostItem, error)
	Get(ctx context.Context, viewer, id int64) (*types.PostItem, error)
	Update(ctx context.Context, uid, id int64, req *types.UpdatePostRequest) (*types.PostItem, error)
	Delete(ctx context.Context, uid, id int64) error
	Feed(ctx context.Context, uid int64, page types.PageRequest) ([]*types.PostItem, error)
	Explore(ctx context.Context, uid int64, page types.PageRequest) ([]*types.PostItem, error)
	UserPosts(ctx context.Context, viewer, uid int64, page types.PageRequest) ([]*types.PostItem, error)
	// Viewable 查找帖子并校验 viewer 是否可见
	Viewable(ctx context.Context, viewer, id int64) (*models.Post, error)
}

type PostService struct {
	DB                  *gorm.DB
	UserDAO             *dao.UserDAO
	FollowDAO           *dao.FollowDAO
	PostDAO             *dao.PostDAO
	PostLikeDAO         *dao.PostLikeDAO
	CommentDAO          *dao.CommentDAO
	NotificationDAO     *dao.NotificationDAO
	NotificationService INotificationService
}

func (s *PostService) Create(ctx context.Context, uid int64, req *types.CreatePostRequest) (*types.PostItem, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, newError(ErrInvalid, "content is required")
	}

	user, err := s.UserDAO.FindByWhere(ctx, "id = ?", uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	// 私密账号只能发布私密帖子
	if user.IsPrivate() {
		visibility = models.VisibilityPrivate
	}

	post := &models.Post{
		UserID:     uid,
		Content:    content,
		MediaURL:   req.MediaURL,
		Visibility: visibility,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.PostDAO.Tx(tx).Create(ctx, post); err != nil {
			return err
		}
		return s.UserDAO.Tx(tx).IncrCounter(ctx, uid, dao.ColumnNumPosts, 1)
	})
	if err != nil {
		return nil, err
	}

	post.User = user
	return postItem(post, false), nil
}

func (s *PostService) Viewable(ctx context.Context, viewer, id int64) (*models.Post, error) {
	post, err := s.PostDAO.FindWithAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, newError(ErrNotFound, "post not found")
	}

	if post.UserID == viewer || post.Visibility == models.VisibilityPublic {
		return post, nil
	}

	following, err := s.FollowDAO.IsFollowing(ctx, viewer, post.UserID)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, newError(ErrForbidden, "you do not have permission to view this post")
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, viewer, id int64) (*types.PostItem, error) {
	post, err := s.Viewable(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	liked, err := s.PostLikeDAO.IsLiked(ctx, post.ID, viewer)
	if err != nil {
		return nil, err
	}
	return postItem(post, liked), nil
}

func (s *PostService) Update(ctx context.Context, uid, id int64, req *types.UpdatePostRequest) (*types.PostItem, error) {
	post, err := s.PostDAO.FindWithAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, newError(ErrNotFound, "post not found")
	}
	if post.UserID != uid {
		return nil, newError(ErrForbidden, "you can only edit your own posts")
	}

	fields := map[string]any{}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, newError(ErrInvalid, "content is required")
		}
		fields["content"] = content
		post.Content = content
	}
	if req.Visibility != nil {
		if *req.Visibility == models.VisibilityPublic && post.User != nil && post.User.IsPrivate() {
			return nil, newError(ErrInvalid, "private profiles can only publish private posts")
		}
		fields["visibility"] = *req.Visibility
		post.Visibility = *req.Visibility
	}

	if len(fields) > 0 {
		if _, err := s.PostDAO.UpdateById(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	liked, err := s.PostLikeDAO.IsLiked(ctx, post.ID, uid)
	if err != nil {
		return nil, err
	}
	return postItem(post, liked), nil
}

// Delete 级联删除点赞、评论及相关通知
func (s *PostService) Delete(ctx context.Context, uid, id int64) error {
	post, err := s.PostDAO.FindByWhere(ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if post == nil {
		return newError(ErrNotFound, "post not found")
	}
	if post.UserID != uid {
		return newError(ErrForbidden, "you can only delete your own posts")
	}

	var removed []*models.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.PostLikeDAO.Tx(tx).DeleteByPost(ctx, id); err != nil {
			return err
		}
		if err := s.CommentDAO.Tx(tx).DeleteByPost(ctx, id); err != nil {
			return err
		}

		ndao := s.NotificationDAO.Tx(tx)
		items, err := ndao.ByPost(ctx, id)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		if err := ndao.DeleteByIds(ctx, ids); err != nil {
			return err
		}
		removed = items

		if _, err := s.PostDAO.Tx(tx).DeleteById(ctx, id); err != nil {
			return err
		}
		return s.UserDAO.Tx(tx).IncrCounter(ctx, uid, dao.ColumnNumPosts, -1)
	})
	if err != nil {
		return err
	}

	s.NotificationService.Retract(ctx, removed...)
	return nil
}

// Feed 已关注用户的帖子
func (s *PostService) Feed(ctx context.Context, uid int64, page types.PageRequest) ([]*types.PostItem, error) {
	authors, err := s.FollowDAO.FollowingIDs(ctx, uid)
	if err != nil {
		return nil, err
	}

	posts, err := s.PostDAO.Feed(ctx, authors, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}
	return s.items(ctx, uid, posts)
}

// Explore 未关注用户的公开帖子
func (s *PostService) Explore(ctx context.Context, uid int64, page types.PageRequest) ([]*types.PostItem, error) {
	exclude, err := s.FollowDAO.FollowingIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	exclude = append(exclude, uid)

	posts, err := s.PostDAO.Explore(ctx, exclude, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}
	return s.items(ctx, uid, posts)
}

func (s *PostService) UserPosts(ctx context.Context, viewer, uid int64, page types.PageRequest) ([]*types.PostItem, error) {
	publicOnly := false
	if viewer != uid {
		following, err := s.FollowDAO.IsFollowing(ctx, viewer, uid)
		if err != nil {
			return nil, err
		}
		publicOnly = !following
	}

	posts, err := s.PostDAO.ListByUser(ctx, uid, publicOnly, page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}
	return s.items(ctx, viewer, posts)
}

func (s *PostService) items(ctx context.Context, viewer int64, posts []*models.Post) ([]*types.PostItem, error) {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	liked, err := s.PostLikeDAO.LikedSet(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*types.PostItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, postItem(p, liked[p.ID]))
	}
	return items, nil
}
