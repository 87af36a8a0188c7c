package main

import (
	"github.com/openboard-dev/openboard/internal/auth"
	"github.com/openboard-dev/openboard/internal/config"
	httpapp "github.com/openboard-dev/openboard/internal/http"
	"github.com/openboard-dev/openboard/internal/httpserver"
	"github.com/openboard-dev/openboard/internal/logutil"
	"github.com/openboard-dev/openboard/internal/store/sqlite"

	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	var addr, dbPath string
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the OpenBoard HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Address to bind (overrides OPENBOARD_ADDR)",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "Path to the sqlite database (overrides OPENBOARD_DB)",
				Destination: &dbPath,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			if addr != "" {
				cfg.Addr = addr
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			logger := logutil.Setup(cfg.Debug)
			ctx := logutil.WithLogger(c.Context, logger)

			st, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			hasher := auth.NewPasswordHasher(cfg.BcryptCost)
			tokens := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)
			authSvc := auth.NewService(st, hasher, tokens)
			server := httpapp.NewServer(st, authSvc, cfg)

			return httpserver.Serve(ctx, cfg.Addr, server)
		},
	}
}
