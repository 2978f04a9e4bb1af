package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/richinsley/namedsem/internal/cli"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitHash   = "unset"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version:   version,
		BuildTime: buildTime,
		GitHash:   gitHash,
	})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
