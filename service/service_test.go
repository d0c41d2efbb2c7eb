package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"Socio/config"
	"Socio/dao"
	"Socio/dao/cache"
	"Socio/models"
	"Socio/pkg/database"
	"Socio/pkg/pubsub"
	"Socio/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordBroker 记录所有发布的事件
type recordBroker struct {
	mu        sync.Mutex
	published []pubsub.Delivery
}

func (r *recordBroker) Publish(_ context.Context, group string, ev *pubsub.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *ev
	r.published = append(r.published, pubsub.Delivery{Group: group, Event: &cp})
	return nil
}

func (r *recordBroker) Find(group, typ string) []*pubsub.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*pubsub.Event, 0)
	for _, d := range r.published {
		if d.Group == group && d.Event.Type == typ {
			items = append(items, d.Event)
		}
	}
	return items
}

func (r *recordBroker) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = nil
}

type testEnv struct {
	ctx     context.Context
	db      *gorm.DB
	broker  *recordBroker
	unread  *cache.UnreadStorage
	servers *cache.ServerStorage

	userDAO   *dao.UserDAO
	followDAO *dao.FollowDAO
	postDAO   *dao.PostDAO

	notifications *NotificationService
	users         *UserService
	follows       *FollowService
	posts         *PostService
	likes         *LikeService
	comments      *CommentService
	messages      *MessageService
	counters      *CounterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	conf := &config.Config{
		App: &config.App{Name: "socio", PublicURL: "http://socio.test"},
		Jwt: &config.Jwt{Secret: "test-secret", ExpiresTime: 3600},
	}

	var (
		userDAO         = dao.NewUserDAO(db)
		followDAO       = dao.NewFollowDAO(db)
		postDAO         = dao.NewPostDAO(db)
		postLikeDAO     = dao.NewPostLikeDAO(db)
		commentDAO      = dao.NewCommentDAO(db)
		messageDAO      = dao.NewMessageDAO(db)
		notificationDAO = dao.NewNotificationDAO(db)
		broker          = &recordBroker{}
		publisher       = NewPublisher(broker)
		unread          = cache.NewUnreadStorage(rds)
		servers         = cache.NewServerStorage(rds)
	)

	notifications := &NotificationService{
		Config:          conf,
		NotificationDAO: notificationDAO,
		UserDAO:         userDAO,
		PostDAO:         postDAO,
		Unread:          unread,
		Publisher:       publisher,
	}
	posts := &PostService{
		DB:                  db,
		UserDAO:             userDAO,
		FollowDAO:           followDAO,
		PostDAO:             postDAO,
		PostLikeDAO:         postLikeDAO,
		CommentDAO:          commentDAO,
		NotificationDAO:     notificationDAO,
		NotificationService: notifications,
	}
	follows := &FollowService{
		DB:                  db,
		FollowDAO:           followDAO,
		UserDAO:             userDAO,
		NotificationService: notifications,
		Publisher:           publisher,
	}

	return &testEnv{
		ctx:           context.Background(),
		db:            db,
		broker:        broker,
		unread:        unread,
		servers:       servers,
		userDAO:       userDAO,
		followDAO:     followDAO,
		postDAO:       postDAO,
		notifications: notifications,
		posts:         posts,
		follows:       follows,
		users: &UserService{
			DB:            db,
			Config:        conf,
			UserDAO:       userDAO,
			FollowDAO:     followDAO,
			PostDAO:       postDAO,
			PostService:   posts,
			FollowService: follows,
		},
		likes: &LikeService{
			DB:                  db,
			PostDAO:             postDAO,
			PostLikeDAO:         postLikeDAO,
			FollowDAO:           followDAO,
			PostService:         posts,
			NotificationService: notifications,
		},
		comments: &CommentService{
			DB:                  db,
			UserDAO:             userDAO,
			PostDAO:             postDAO,
			CommentDAO:          commentDAO,
			PostService:         posts,
			NotificationService: notifications,
		},
		messages: &MessageService{
			UserDAO:       userDAO,
			MessageDAO:    messageDAO,
			Unread:        unread,
			ClientStorage: cache.NewClientStorage(rds, servers),
			Publisher:     publisher,
		},
		counters: &CounterService{UserDAO: userDAO, PostDAO: postDAO},
	}
}

func (e *testEnv) createUser(t *testing.T, name string, private bool) *models.User {
	t.Helper()

	u := &models.User{Username: name, ProfilePrivacy: models.PrivacyPublic, ProfilePicture: "avatars/" + name + ".png"}
	if private {
		u.ProfilePrivacy = models.PrivacyPrivate
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) reloadUser(t *testing.T, id int64) *models.User {
	t.Helper()

	u, err := e.userDAO.FindById(e.ctx, id)
	require.NoError(t, err)
	return u
}

func (e *testEnv) reloadPost(t *testing.T, id int64) *models.Post {
	t.Helper()

	p, err := e.postDAO.FindById(e.ctx, id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) notificationsOf(t *testing.T, uid int64) []*models.Notification {
	t.Helper()

	var items []*models.Notification
	require.NoError(t, e.db.Where("recipient_id = ?", uid).Order("id ASC").Find(&items).Error)
	return items
}

func (e *testEnv) createPost(t *testing.T, uid int64, content string) *types.PostItem {
	t.Helper()

	item, err := e.posts.Create(e.ctx, uid, &types.CreatePostRequest{Content: content, MediaURL: "media/" + content + ".jpg"})
	require.NoError(t, err)
	return item
}

func firstPage() types.PageRequest {
	page := types.PageRequest{}
	page.Normalize()
	return page
}

// assertNoDrift 冗余计数与关系表一致
func (e *testEnv) assertNoDrift(t *testing.T) {
	t.Helper()

	report, err := e.counters.Reconcile(e.ctx, false)
	require.NoError(t, err)
	require.Zero(t, report.Total(), "counter drift: %+v", report)
}

var hookSeq atomic.Int64

// afterQuery table 的下一次查询完成后执行一次 fn，用于在读与写之间插入并发操作
func (e *testEnv) afterQuery(t *testing.T, table string, fn func()) {
	t.Helper()

	var armed atomic.Bool
	armed.Store(true)

	name := fmt.Sprintf("test:after_query_%d", hookSeq.Add(1))
	err := e.db.Callback().Query().After("gorm:query").Register(name, func(db *gorm.DB) {
		if db.Statement.Table != table || !armed.CompareAndSwap(true, false) {
			return
		}
		fn()
	})
	require.NoError(t, err)
}
