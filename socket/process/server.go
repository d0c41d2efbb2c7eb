package process

import (
	"context"
	"reflect"
	"sync"

	"Socio/pkg/log"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var once sync.Once

type IServer interface {
	Init() error
	Setup(ctx context.Context) error
}

// SubServers 守护协程列表
type SubServers struct {
	HealthSubscribe *HealthSubscribe // 注册健康上报
	FanoutSubscribe *FanoutSubscribe // 组广播订阅
}

type Server struct {
	items []IServer
	SubServers
}

func NewServer(servers *SubServers) *Server {
	s := &Server{SubServers: *servers}

	s.binds(servers)
	return s
}

func (c *Server) binds(servers *SubServers) {
	elem := reflect.ValueOf(servers).Elem()
	for i := 0; i < elem.NumField(); i++ {
		if v, ok := elem.Field(i).Interface().(IServer); ok && !elem.Field(i).IsNil() {
			c.items = append(c.items, v)
		}
	}
}

// Start 启动服务
func (c *Server) Start(eg *errgroup.Group, ctx context.Context) {
	once.Do(func() {
		for _, process := range c.items {
			if err := process.Init(); err != nil {
				log.L.Fatal("init process failed", zap.Error(err))
			}
		}

		for _, process := range c.items {
			serv := process
			eg.Go(func() error {
				return serv.Setup(ctx)
			})
		}
	})
}
