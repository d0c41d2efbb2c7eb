package dao

import (
	"context"

	"Socio/models"

	"gorm.io/gorm"
)

type FollowDAO struct {
	Repo[models.Follow]
}

func NewFollowDAO(db *gorm.DB) *FollowDAO {
	return &FollowDAO{Repo: NewRepo[models.Follow](db)}
}

func (d *FollowDAO) Tx(tx *gorm.DB) *FollowDAO {
	return &FollowDAO{Repo: d.Repo.Tx(tx)}
}

// Get 关注关系，不存在返回 nil
func (d *FollowDAO) Get(ctx context.Context, followerID, followingID int64) (*models.Follow, error) {
	return d.FindByWhere(ctx, "follower_id = ? AND following_id = ?", followerID, followingID)
}

func (d *FollowDAO) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	return d.IsExist(ctx, "follower_id = ? AND following_id = ? AND follow_status = ?", followerID, followingID, models.FollowAccepted)
}

// Accept 仅 pending -> accepted，返回是否发生变更
func (d *FollowDAO) Accept(ctx context.Context, id int64) (bool, error) {
	res := d.Model(ctx).
		Where("id = ? AND follow_status = ?", id, models.FollowPending).
		Update("follow_status", models.FollowAccepted)
	return res.RowsAffected > 0, res.Error
}

// DeleteByStatus 仅删除处于 status 的关系，返回删除行数
func (d *FollowDAO) DeleteByStatus(ctx context.Context, id int64, status string) (int64, error) {
	res := d.Db.WithContext(ctx).Where("follow_status = ?", status).Delete(&models.Follow{}, id)
	return res.RowsAffected, res.Error
}

// Followers 关注 uid 的用户（已通过）
func (d *FollowDAO) Followers(ctx context.Context, uid int64, page, size int) ([]*models.Follow, error) {
	items := make([]*models.Follow, 0)
	err := d.Db.WithContext(ctx).
		Preload("Follower").
		Where("following_id = ? AND follow_status = ?", uid, models.FollowAccepted).
		Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// Following uid 关注的用户（已通过）
func (d *FollowDAO) Following(ctx context.Context, uid int64, page, size int) ([]*models.Follow, error) {
	items := make([]*models.Follow, 0)
	err := d.Db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ? AND follow_status = ?", uid, models.FollowAccepted).
		Order("created_at DESC, id DESC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// Pending 待 uid 处理的关注请求
func (d *FollowDAO) Pending(ctx context.Context, uid int64) ([]*models.Follow, error) {
	items := make([]*models.Follow, 0)
	err := d.Db.WithContext(ctx).
		Where("following_id = ? AND follow_status = ?", uid, models.FollowPending).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// FollowingIDs uid 已关注的用户ID
func (d *FollowDAO) FollowingIDs(ctx context.Context, uid int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := d.Model(ctx).
		Where("follower_id = ? AND follow_status = ?", uid, models.FollowAccepted).
		Pluck("following_id", &ids).Error
	return ids, err
}

// StatusMap viewer 对 targets 的关注状态，未关注的不在结果中
func (d *FollowDAO) StatusMap(ctx context.Context, viewer int64, targets []int64) (map[int64]string, error) {
	res := make(map[int64]string, len(targets))
	if len(targets) == 0 {
		return res, nil
	}

	items := make([]*models.Follow, 0)
	err := d.Db.WithContext(ctx).
		Where("follower_id = ? AND following_id IN ?", viewer, targets).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		res[item.FollowingID] = item.FollowStatus
	}
	return res, nil
}
