package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/ithesk/axeweb/internal/app"
	"github.com/ithesk/axeweb/internal/config"
	"github.com/ithesk/axeweb/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl := logger.New(cfg.Env)
	defer zl.Sync()

	if err := app.Run(cfg, zl); err != nil {
		zl.Fatal("app exited", zap.Error(err))
	}
}
