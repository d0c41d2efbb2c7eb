package service

import (
	"context"
	"strings"

	"Socio/config"
	"Socio/dao"
	"Socio/models"
	"Socio/pkg/jwt"
	"Socio/pkg/log"
	"Socio/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ IUserService = (*UserService)(nil)

type IUserService interface {
	GetProfile(ctx context.Context, viewer, uid int64) (*types.ProfileResponse, error)
	SearchUsers(ctx context.Context, viewer int64, req *types.SearchUsersRequest) ([]*types.UserSearchItem, error)
	ChangePrivacy(ctx context.Context, uid int64, privacy string) (*types.ChangePrivacyResponse, error)
	CreateUser(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, uid int64) (string, error)
}

type UserService struct {
	DB            *gorm.DB
	Config        *config.Config
	UserDAO       *dao.UserDAO
	FollowDAO     *dao.FollowDAO
	PostDAO       *dao.PostDAO
	PostService   IPostService
	FollowService IFollowService
}

func (s *UserService) GetProfile(ctx context.Context, viewer, uid int64) (*types.ProfileResponse, error) {
	user, err := s.UserDAO.FindByWhere(ctx, "id = ?", uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	status := types.FollowStatusSelf
	if viewer != uid {
		follow, err := s.FollowDAO.Get(ctx, viewer, uid)
		if err != nil {
			return nil, err
		}
		status = types.FollowStatusNone
		if follow != nil {
			status = followStatus(viewer, uid, follow.FollowStatus)
		}
	}

	resp := &types.ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		ProfilePrivacy: user.ProfilePrivacy,
		NumFollowers:   user.NumFollowers,
		NumFollowing:   user.NumFollowing,
		NumPosts:       user.NumPosts,
		FollowStatus:   status,
		CanView:        !user.IsPrivate() || status == types.FollowStatusSelf || status == types.FollowStatusAccepted,
		Posts:          make([]*types.PostItem, 0),
	}

	if !resp.CanView {
		return resp, nil
	}

	// 联系方式只对可见的访问者展示
	resp.ContactInformation = user.ContactInformation

	page := types.PageRequest{}
	page.Normalize()
	posts, err := s.PostService.UserPosts(ctx, viewer, uid, page)
	if err != nil {
		return nil, err
	}
	resp.Posts = posts

	return resp, nil
}

func (s *UserService) SearchUsers(ctx context.Context, viewer int64, req *types.SearchUsersRequest) ([]*types.UserSearchItem, error) {
	keyword := strings.TrimSpace(req.Username)

	users, err := s.UserDAO.Search(ctx, keyword, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	status, err := s.FollowDAO.StatusMap(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*types.UserSearchItem, 0, len(users))
	for _, u := range users {
		items = append(items, &types.UserSearchItem{
			UserBrief:    userBrief(u),
			FollowStatus: followStatus(viewer, u.ID, status[u.ID]),
		})
	}
	return items, nil
}

// ChangePrivacy 切换隐私，帖子可见性同步切换
// 切换为公开时通过全部待处理的关注请求
func (s *UserService) ChangePrivacy(ctx context.Context, uid int64, privacy string) (*types.ChangePrivacyResponse, error) {
	if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
		return nil, newError(ErrInvalid, "invalid profile privacy")
	}

	user, err := s.UserDAO.FindByWhere(ctx, "id = ?", uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.UserDAO.Tx(tx).SetPrivacy(ctx, uid, privacy); err != nil {
			return err
		}
		return s.PostDAO.Tx(tx).SetVisibilityByUser(ctx, uid, privacy)
	})
	if err != nil {
		return nil, err
	}

	resp := &types.ChangePrivacyResponse{ProfilePrivacy: privacy}
	if privacy != models.PrivacyPublic {
		return resp, nil
	}

	pending, err := s.FollowDAO.Pending(ctx, uid)
	if err != nil {
		return nil, err
	}

	// 每条请求独立事务，单条失败不影响其余
	for _, f := range pending {
		if err := s.FollowService.AcceptPending(ctx, f); err != nil {
			log.L.Error("accept pending follow failed",
				zap.Int64("follow_id", f.ID),
				zap.Int64("owner", uid),
				zap.Error(err),
			)
			continue
		}
		resp.AcceptedRequests++
	}

	return resp, nil
}

// CreateUser 运维命令创建用户
func (s *UserService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, newError(ErrInvalid, "username is required")
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		ProfilePrivacy: models.PrivacyPublic,
	}
	if err := s.UserDAO.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, newError(ErrConflict, "username already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) IssueToken(ctx context.Context, uid int64) (string, error) {
	exist, err := s.UserDAO.IsExist(ctx, "id = ?", uid)
	if err != nil {
		return "", err
	}
	if !exist {
		return "", newError(ErrNotFound, "user not found")
	}

	return jwt.GenerateToken([]byte(s.Config.Jwt.Secret), uid, jwt.TypeAccess, s.Config.Jwt.Expire())
}
