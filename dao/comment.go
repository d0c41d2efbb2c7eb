package dao

import (
	"context"

	"Socio/models"

	"gorm.io/gorm"
)

type CommentDAO struct {
	Repo[models.Comment]
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{Repo: NewRepo[models.Comment](db)}
}

func (d *CommentDAO) Tx(tx *gorm.DB) *CommentDAO {
	return &CommentDAO{Repo: d.Repo.Tx(tx)}
}

func (d *CommentDAO) ListByPost(ctx context.Context, postID int64, page, size int) ([]*models.Comment, error) {
	items := make([]*models.Comment, 0)
	err := d.Db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

func (d *CommentDAO) DeleteByPost(ctx context.Context, postID int64) error {
	return d.Db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
