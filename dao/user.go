package dao

import (
	"context"

	"Socio/models"

	"gorm.io/gorm"
)

// 冗余计数列
const (
	ColumnNumFollowers = "num_followers"
	ColumnNumFollowing = "num_following"
	ColumnNumPosts     = "num_posts"
)

type UserDAO struct {
	Repo[models.User]
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{Repo: NewRepo[models.User](db)}
}

func (d *UserDAO) Tx(tx *gorm.DB) *UserDAO {
	return &UserDAO{Repo: d.Repo.Tx(tx)}
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.FindByWhere(ctx, "username = ?", username)
}

// Search 用户名模糊匹配（不区分大小写）
func (d *UserDAO) Search(ctx context.Context, keyword string, page, size int) ([]*models.User, error) {
	items := make([]*models.User, 0)
	err := d.Db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '!'", containsPattern(keyword)).
		Order("username ASC").
		Scopes(Paginate(page, size)).
		Find(&items).Error
	return items, err
}

// IncrCounter 计数增减，需在调用方事务内执行
func (d *UserDAO) IncrCounter(ctx context.Context, uid int64, column string, delta int) error {
	return d.Model(ctx).
		Where("id = ?", uid).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (d *UserDAO) SetPrivacy(ctx context.Context, uid int64, privacy string) error {
	return d.Model(ctx).Where("id = ?", uid).Update("profile_privacy", privacy).Error
}

// CounterDrift 对账结果
type CounterDrift struct {
	UserID   int64  `json:"user_id"`
	Column   string `json:"column"`
	Stored   int64  `json:"stored"`
	Computed int64  `json:"computed"`
}

// Reconcile 按关系表重新计算冗余计数，fix 为 true 时写回
func (d *UserDAO) Reconcile(ctx context.Context, fix bool) ([]CounterDrift, error) {
	type row struct {
		ID           int64
		NumFollowers int64
		NumFollowing int64
		NumPosts     int64
		Followers    int64
		Following    int64
		Posts        int64
	}

	var rows []row
	err := d.Db.WithContext(ctx).Raw(`
		SELECT u.id, u.num_followers, u.num_following, u.num_posts,
			(SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id AND f.follow_status = ?) AS followers,
			(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id AND f.follow_status = ?) AS following,
			(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS posts
		FROM users u`, models.FollowAccepted, models.FollowAccepted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	drifts := make([]CounterDrift, 0)
	for _, r := range rows {
		fields := map[string]any{}
		if r.NumFollowers != r.Followers {
			drifts = append(drifts, CounterDrift{r.ID, ColumnNumFollowers, r.NumFollowers, r.Followers})
			fields[ColumnNumFollowers] = r.Followers
		}
		if r.NumFollowing != r.Following {
			drifts = append(drifts, CounterDrift{r.ID, ColumnNumFollowing, r.NumFollowing, r.Following})
			fields[ColumnNumFollowing] = r.Following
		}
		if r.NumPosts != r.Posts {
			drifts = append(drifts, CounterDrift{r.ID, ColumnNumPosts, r.NumPosts, r.Posts})
			fields[ColumnNumPosts] = r.Posts
		}

		if fix && len(fields) > 0 {
			if err := d.Model(ctx).Where("id = ?", r.ID).UpdateColumns(fields).Error; err != nil {
				return drifts, err
			}
		}
	}

	return drifts, nil
}
