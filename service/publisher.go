package service

import (
	"context"
	"time"

	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/snowflake"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

var fanoutPublishTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "socio_fanout_publish_total",
		Help: "Total number of fan-out events published",
	},
	[]string{"type", "result"},
)

func init() {
	prometheus.MustRegister(fanoutPublishTotal)
}

var _ IPublisher = (*Publisher)(nil)

// Target 一次推送的目标组
type Target struct {
	Group string
	Event *pubsub.Event
}

// IPublisher 事务提交后的推送，失败只记录日志，不影响业务结果
type IPublisher interface {
	NotifyUser(ctx context.Context, uid int64, ev *pubsub.Event)
	NotifyConversation(ctx context.Context, a, b int64, ev *pubsub.Event)
	PublishMany(ctx context.Context, targets ...Target)
}

type Publisher struct {
	Broker pubsub.Publisher
}

func NewPublisher(broker pubsub.Publisher) *Publisher {
	return &Publisher{Broker: broker}
}

func (p *Publisher) NotifyUser(ctx context.Context, uid int64, ev *pubsub.Event) {
	p.publish(ctx, pubsub.NotificationGroup(uid), ev)
}

func (p *Publisher) NotifyConversation(ctx context.Context, a, b int64, ev *pubsub.Event) {
	p.publish(ctx, pubsub.ConversationGroup(a, b), ev)
}

// PublishMany 并发推送，等待全部完成
func (p *Publisher) PublishMany(ctx context.Context, targets ...Target) {
	if len(targets) == 1 {
		p.publish(ctx, targets[0].Group, targets[0].Event)
		return
	}

	wp := pool.New().WithMaxGoroutines(8)
	for _, t := range targets {
		t := t
		wp.Go(func() {
			p.publish(ctx, t.Group, t.Event)
		})
	}
	wp.Wait()
}

func (p *Publisher) publish(ctx context.Context, group string, ev *pubsub.Event) {
	if p.Broker == nil || ev == nil {
		return
	}

	if ev.ID == 0 {
		ev.ID = snowflake.GenID()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	// 请求结束不应中断推送
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Broker.Publish(pctx, group, ev); err != nil {
		fanoutPublishTotal.WithLabelValues(ev.Type, "error").Inc()
		log.L.Warn("fanout publish failed",
			zap.String("group", group),
			zap.String("type", ev.Type),
			zap.Error(err),
		)
		return
	}

	fanoutPublishTotal.WithLabelValues(ev.Type, "ok").Inc()
}
