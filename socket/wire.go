//go:build wireinject

package socket

import (
	"Socio/pkg/client"
	"Socio/pkg/pubsub"
	"Socio/pkg/socket"
	"Socio/socket/handler"
	"Socio/socket/handler/event"
	"Socio/socket/process"
	"Socio/socket/router"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	router.NewRouter,
	socket.NewRoomStorage,
	client.NewBroker,
	wire.Bind(new(pubsub.Publisher), new(pubsub.Broker)),
	wire.Bind(new(pubsub.Subscriber), new(pubsub.Broker)),

	// process
	wire.Struct(new(process.SubServers), "*"),
	process.NewServer,
	process.NewHealthSubscribe,
	process.NewFanoutSubscribe,

	handler.ProviderSet,
	event.ProviderSet,

	// AppProvider
	wire.Struct(new(AppProvider), "*"),
)
