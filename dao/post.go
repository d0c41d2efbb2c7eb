package dao

import (
	"context"

	"Socio/models"

	"gorm.io/gorm"
)

type PostDAO struct {
	Repo[models.Post]
}

func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{Repo: NewRepo[models.Post](db)}
}

func (d *PostDAO) Tx(tx *gorm.DB) *PostDAO {
	return &PostDAO{Repo: d.Repo.Tx(tx)}
}

// FindWithAuthor 不存在时返回 nil, nil
func (d *PostDAO) FindWithAuthor(ctx context.Context, id int64) (*models.Post, error) {
	var item models.Post
	err := d.Db.WithContext(ctx).Preload("User").Where("id = ?", id).Limit(1).Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

// IncrLikeCount 需在调用方事务内执行
func (d *PostDAO) IncrLikeCount(ctx context.Context, id int64, delta int) error {
	return d.Model(ctx).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

// IncrCommentCount 需在调用方事务内执行
func (d *PostDAO) IncrCommentCount(ctx context.Context, id int64, delta int) error {
	return d.Model(ctx).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

// SetVisibilityByUser 用户切换隐私时同步帖子可见性
func (d *PostDAO) SetVisibilityByUser(ctx context.Context, uid int64, visibility string) error {
	return d.Model(ctx).Where("user_id = ?", uid).Update("visibility", visibility).Error
}

// ListByUser publicOnly 为 true 时只返回公开帖子
func (d *PostDAO) ListByUser(ctx context.Context, uid int64, publicOnly bool, page, size int) ([]*models.Post, error) {
	items := make([]*models.Post, 0)
	tx := d.Db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", uid)
	if publicOnly {
		tx = tx.Where("visibility = ?", models.VisibilityPublic)
	}
	err := tx.Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// Feed authors 发布的帖子，按时间倒序
func (d *PostDAO) Feed(ctx context.Context, authors []int64, page, size int) ([]*models.Post, error) {
	items := make([]*models.Post, 0)
	if len(authors) == 0 {
		return items, nil
	}
	err := d.Db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", authors).
		Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// Explore 公开帖子，排除 exclude 中的作者
func (d *PostDAO) Explore(ctx context.Context, exclude []int64, page, size int) ([]*models.Post, error) {
	items := make([]*models.Post, 0)
	tx := d.Db.WithContext(ctx).
		Preload("User").
		Where("visibility = ?", models.VisibilityPublic)
	if len(exclude) > 0 {
		tx = tx.Where("user_id NOT IN ?", exclude)
	}
	err := tx.Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// PostCounterDrift 帖子计数对账结果
type PostCounterDrift struct {
	PostID   int64  `json:"post_id"`
	Column   string `json:"column"`
	Stored   int64  `json:"stored"`
	Computed int64  `json:"computed"`
}

func (d *PostDAO) Reconcile(ctx context.Context, fix bool) ([]PostCounterDrift, error) {
	type row struct {
		ID           int64
		LikeCount    int64
		CommentCount int64
		Likes        int64
		Comments     int64
	}

	var rows []row
	err := d.Db.WithContext(ctx).Raw(`
		SELECT p.id, p.like_count, p.comment_count,
			(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS likes,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments
		FROM posts p`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	drifts := make([]PostCounterDrift, 0)
	for _, r := range rows {
		fields := map[string]any{}
		if r.LikeCount != r.Likes {
			drifts = append(drifts, PostCounterDrift{r.ID, "like_count", r.LikeCount, r.Likes})
			fields["like_count"] = r.Likes
		}
		if r.CommentCount != r.Comments {
			drifts = append(drifts, PostCounterDrift{r.ID, "comment_count", r.CommentCount, r.Comments})
			fields["comment_count"] = r.Comments
		}

		if fix && len(fields) > 0 {
			if err := d.Model(ctx).Where("id = ?", r.ID).UpdateColumns(fields).Error; err != nil {
				return drifts, err
			}
		}
	}

	return drifts, nil
}
