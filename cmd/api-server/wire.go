//go:build wireinject
// +build wireinject

package main

import (
	"Socio/config"
	"Socio/dao"
	"Socio/dao/cache"
	"Socio/handler"
	"Socio/pkg/client"
	"Socio/pkg/database"
	"Socio/pkg/pubsub"
	"Socio/pkg/server"
	"Socio/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		client.NewBroker,
		wire.Bind(new(pubsub.Publisher), new(pubsub.Broker)),
		server.NewGinEngine,
		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.User), "*"),
		wire.Struct(new(handler.Follow), "*"),
		wire.Struct(new(handler.Post), "*"),
		wire.Struct(new(handler.Comment), "*"),
		wire.Struct(new(handler.Message), "*"),
		wire.Struct(new(handler.Notification), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil
}
