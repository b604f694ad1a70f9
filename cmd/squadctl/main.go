package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/fplsquad/internal/config"
	"github.com/okian/fplsquad/internal/squadctl"
)

func main() {
	// A local .env is optional.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env); flags override it.
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("squadctl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}

	if err := squadctl.NewCommand(cfg).ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("squadctl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
