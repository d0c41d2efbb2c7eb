//go:build wireinject
// +build wireinject

package main

import (
	"Socio/config"
	"Socio/dao"
	"Socio/dao/cache"
	"Socio/pkg/client"
	"Socio/pkg/database"
	"Socio/service"
	"Socio/socket"

	"github.com/google/wire"
)

func InitSocketServer(cfg *config.Config) *socket.AppProvider {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		dao.ProviderSet,
		cache.ProviderSet,
		socket.ProviderSet,
		service.ProviderSet,
	)
	return nil
}
