package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "openboard",
		Usage: "Minimal multi-user board: accounts, posts, comments",
		Commands: []*cli.Command{
			serveCmd(),
			registerCmd(),
			loginCmd(),
			whoamiCmd(),
			postCmd(),
			postsCmd(),
			commentCmd(),
			commentsCmd(),
			deletePostCmd(),
			deleteCommentCmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
