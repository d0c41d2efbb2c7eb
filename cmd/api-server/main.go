package main

import (
	"encoding/json"
	"fmt"
	"os"

	"Socio/config"
	"Socio/pkg/database"
	"Socio/pkg/log"
	"Socio/pkg/server"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New(config.Path())
	log.SetDebug(cfg.Debug())

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "socio rest api",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					return server.Run(ctx, InitServer(cfg))
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update database tables",
				Action: func(ctx *cli.Context) error {
					db, err := database.Open(cfg.Database)
					if err != nil {
						return err
					}
					if err := database.Migrate(db); err != nil {
						return err
					}
					log.L.Info("migrate success", zap.String("driver", cfg.Database.Driver))
					return nil
				},
			},
			{
				Name:  "user",
				Usage: "manage users",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a user",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "username", Required: true},
							&cli.StringFlag{Name: "email"},
						},
						Action: func(ctx *cli.Context) error {
							app := InitServer(cfg)
							user, err := app.UserService.CreateUser(ctx.Context, ctx.String("username"), ctx.String("email"))
							if err != nil {
								return err
							}
							fmt.Fprintf(ctx.App.Writer, "created user %d (%s)\n", user.ID, user.Username)
							return nil
						},
					},
				},
			},
			{
				Name:  "token",
				Usage: "issue an access token for a user",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "uid", Required: true},
				},
				Action: func(ctx *cli.Context) error {
					app := InitServer(cfg)
					token, err := app.UserService.IssueToken(ctx.Context, ctx.Int64("uid"))
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, token)
					return nil
				},
			},
			{
				Name:  "counters",
				Usage: "denormalized counters",
				Subcommands: []*cli.Command{
					{
						Name:  "reconcile",
						Usage: "recompute follower/following/like/comment counts and report drift",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "fix", Usage: "write the recomputed values back"},
						},
						Action: func(ctx *cli.Context) error {
							app := InitServer(cfg)
							report, err := app.CounterService.Reconcile(ctx.Context, ctx.Bool("fix"))
							if err != nil {
								return err
							}

							enc := json.NewEncoder(ctx.App.Writer)
							enc.SetIndent("", "  ")
							if err := enc.Encode(report); err != nil {
								return err
							}

							log.L.Info("counters reconciled", zap.Int("drift", report.Total()), zap.Bool("fix", ctx.Bool("fix")))
							return nil
						},
					},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("api-server failed", zap.Error(err))
	}
}
