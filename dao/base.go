package dao

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repo 通用数据访问，业务 DAO 内嵌使用
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// Tx 绑定到事务
func (r Repo[T]) Tx(tx *gorm.DB) Repo[T] {
	return Repo[T]{Db: tx}
}

func (r *Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Db.WithContext(ctx).Model(new(T))
}

// FindById 不存在时返回 gorm.ErrRecordNotFound
func (r *Repo[T]) FindById(ctx context.Context, id any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindByIds(ctx context.Context, ids []int64) ([]*T, error) {
	items := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := r.Db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// FindByWhere 不存在时返回 nil, nil
func (r *Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	err := r.Db.WithContext(ctx).Where(where, args...).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindAll(ctx context.Context, scopes ...func(db *gorm.DB) *gorm.DB) ([]*T, error) {
	items := make([]*T, 0)
	err := r.Db.WithContext(ctx).Scopes(scopes...).Find(&items).Error
	return items, err
}

func (r *Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *Repo[T]) QueryCount(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Count(&count).Error
	return count, err
}

func (r *Repo[T]) Create(ctx context.Context, data *T) error {
	return r.Db.WithContext(ctx).Create(data).Error
}

func (r *Repo[T]) UpdateById(ctx context.Context, id any, data map[string]any) (int64, error) {
	res := r.Model(ctx).Where("id = ?", id).Updates(data)
	return res.RowsAffected, res.Error
}

func (r *Repo[T]) DeleteById(ctx context.Context, id any) (int64, error) {
	res := r.Db.WithContext(ctx).Delete(new(T), id)
	return res.RowsAffected, res.Error
}

// Paginate 分页 scope，page 从 1 开始
func Paginate(page, size int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 不区分大小写的子串匹配，配合 LIKE ? ESCAPE '!' 使用
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
}
