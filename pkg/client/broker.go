package client

import (
	"Socio/config"
	"Socio/pkg/log"
	"Socio/pkg/pubsub"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const BrokerMemory = "memory"

// NewBroker 按 fanout.broker 选择广播实现，默认 redis
func NewBroker(conf *config.Config, rds *redis.Client) pubsub.Broker {
	if conf.Fanout.Broker == BrokerMemory {
		log.L.Warn("memory broker enabled, fan-out stays in this process")
		return pubsub.NewMemoryBroker(conf.Fanout.Buffer)
	}

	log.L.Info("redis broker enabled", zap.String("prefix", conf.Fanout.Prefix))
	return pubsub.NewRedisBroker(rds, conf.Fanout.Prefix, conf.Fanout.Buffer)
}
