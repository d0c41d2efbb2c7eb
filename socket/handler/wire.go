//go:build wireinject
// +build wireinject

package handler

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(MessageChannel), "*"),
	wire.Struct(new(NotificationChannel), "*"),
	wire.Struct(new(Handler), "*"),
)
