package process

import (
	"context"
	"strconv"
	"time"

	"Socio/pkg/log"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const brokerTimeout = 3 * time.Second

var fanoutDeliveredTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "socio_fanout_delivered_total",
		Help: "Total number of frames written to local connections",
	},
	[]string{"type"},
)

func init() {
	prometheus.MustRegister(fanoutDeliveredTotal)
}

var _ socket.Watcher = (*FanoutSubscribe)(nil)

// FanoutSubscribe 按本节点的在线组订阅 broker，把投递广播给组内连接
type FanoutSubscribe struct {
	room           *socket.RoomStorage
	broker         pubsub.Subscriber
	messageService service.IMessageService
}

func NewFanoutSubscribe(room *socket.RoomStorage, broker pubsub.Subscriber, messageService service.IMessageService) *FanoutSubscribe {
	s := &FanoutSubscribe{room: room, broker: broker, messageService: messageService}
	room.SetWatcher(s)
	return s
}

func (s *FanoutSubscribe) Init() error {
	return nil
}

// Watch 本节点第一个连接加入组
func (s *FanoutSubscribe) Watch(group string) {
	ctx, cancel := context.WithTimeout(context.Background(), brokerTimeout)
	defer cancel()

	if err := s.broker.Subscribe(ctx, group); err != nil {
		log.L.Error("broker subscribe failed", zap.String("group", group), zap.Error(err))
	}
}

// Unwatch 本节点最后一个连接离开组
func (s *FanoutSubscribe) Unwatch(group string) {
	ctx, cancel := context.WithTimeout(context.Background(), brokerTimeout)
	defer cancel()

	if err := s.broker.Unsubscribe(ctx, group); err != nil {
		log.L.Warn("broker unsubscribe failed", zap.String("group", group), zap.Error(err))
	}
}

func (s *FanoutSubscribe) Setup(ctx context.Context) error {
	log.L.Info("start fanout subscribe")

	deliveries := s.broker.Deliveries()
	for {
		select {
		case <-ctx.Done():
			if err := s.broker.Close(); err != nil {
				log.L.Warn("broker close failed", zap.Error(err))
			}
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			s.dispatch(d)
		}
	}
}

// dispatch 广播给组内连接；消息首次写入接收方连接时标记已送达
func (s *FanoutSubscribe) dispatch(d pubsub.Delivery) {
	ev := d.Event
	if ev == nil {
		return
	}

	data := ev.Encode()
	delivered := false

	for _, c := range s.room.Members(d.Group) {
		// 输入状态不回显给自己
		if ev.Type == pubsub.EventTyping && c.Uid() == ev.Sender {
			continue
		}
		if err := c.Write(data); err != nil {
			continue
		}

		fanoutDeliveredTotal.WithLabelValues(ev.Type).Inc()
		if ev.Type == pubsub.EventMessage && c.Uid() == ev.Recipient {
			delivered = true
		}
	}

	if delivered {
		s.markDelivered(ev)
	}
}

func (s *FanoutSubscribe) markDelivered(ev *pubsub.Event) {
	id, err := strconv.ParseInt(ev.UniqueIdentifier, 10, 64)
	if err != nil || id <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), brokerTimeout)
	defer cancel()

	if _, err := s.messageService.MarkDelivered(ctx, id, ev.Recipient); err != nil {
		log.L.Warn("mark delivered failed", zap.Int64("message_id", id), zap.Error(err))
	}
}
