package service

import (
	"context"

	"Socio/dao"
)

var _ ICounterService = (*CounterService)(nil)

type ICounterService interface {
	// Reconcile 按关系表重新计算冗余计数，fix 为 true 时写回
	Reconcile(ctx context.Context, fix bool) (*CounterReport, error)
}

type CounterReport struct {
	Users []dao.CounterDrift     `json:"users"`
	Posts []dao.PostCounterDrift `json:"posts"`
}

func (r *CounterReport) Total() int {
	return len(r.Users) + len(r.Posts)
}

type CounterService struct {
	UserDAO *dao.UserDAO
	PostDAO *dao.PostDAO
}

func (s *CounterService) Reconcile(ctx context.Context, fix bool) (*CounterReport, error) {
	users, err := s.UserDAO.Reconcile(ctx, fix)
	if err != nil {
		return nil, err
	}

	posts, err := s.PostDAO.Reconcile(ctx, fix)
	if err != nil {
		return nil, err
	}

	return &CounterReport{Users: users, Posts: posts}, nil
}
