package main

import (
	"os"

	"Socio/config"
	"Socio/pkg/log"
	s "Socio/socket"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New(config.Path())
	log.SetDebug(cfg.Debug())

	cliApp := &cli.App{
		Name:  "conn-server",
		Usage: "socio websocket fan-out",

		// 默认启动行为
		Action: func(ctx *cli.Context) error {
			return s.Run(ctx, InitSocketServer(cfg))
		},

		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start websocket server",
				Action: func(ctx *cli.Context) error {
					return s.Run(ctx, InitSocketServer(cfg))
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("conn-server failed", zap.Error(err))
	}
}
