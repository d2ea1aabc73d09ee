package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"mailsift/internal/app/bootstrap"
	"mailsift/internal/app/version"
	"mailsift/internal/config"
)

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	cfg, err := config.ReadSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	config.SetConfig(cfg)
	log.SetLevel(cfg.Level())
	log.Debug("Starting mailsift", "version", version.Get().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer bootstrap.Shutdown()

	return NewRootCommand().ExecuteContext(ctx)
}
