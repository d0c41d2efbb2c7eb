package dao

import (
	"context"

	"Socio/models"

	"gorm.io/gorm"
)

type PostLikeDAO struct {
	Repo[models.PostLike]
}

func NewPostLikeDAO(db *gorm.DB) *PostLikeDAO {
	return &PostLikeDAO{Repo: NewRepo[models.PostLike](db)}
}

func (d *PostLikeDAO) Tx(tx *gorm.DB) *PostLikeDAO {
	return &PostLikeDAO{Repo: d.Repo.Tx(tx)}
}

func (d *PostLikeDAO) IsLiked(ctx context.Context, postID, uid int64) (bool, error) {
	return d.IsExist(ctx, "post_id = ? AND user_id = ?", postID, uid)
}

// Remove 返回删除行数，0 表示未点赞
func (d *PostLikeDAO) Remove(ctx context.Context, postID, uid int64) (int64, error) {
	res := d.Db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, uid).
		Delete(&models.PostLike{})
	return res.RowsAffected, res.Error
}

func (d *PostLikeDAO) DeleteByPost(ctx context.Context, postID int64) error {
	return d.Db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostLike{}).Error
}

func (d *PostLikeDAO) Likers(ctx context.Context, postID int64, page, size int) ([]*models.PostLike, error) {
	items := make([]*models.PostLike, 0)
	err := d.Db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// LikedSet uid 点赞过的帖子
func (d *PostLikeDAO) LikedSet(ctx context.Context, uid int64, postIDs []int64) (map[int64]bool, error) {
	res := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return res, nil
	}

	ids := make([]int64, 0)
	err := d.Model(ctx).
		Where("user_id = ? AND post_id IN ?", uid, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}
