//go:build wireinject
// +build wireinject

package event

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(MessageEvent), "*"),
	wire.Struct(new(NotificationEvent), "*"),
)
