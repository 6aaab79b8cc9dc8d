package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/cache"
	"inkwell/config"
	"inkwell/database"
	"inkwell/middleware"
	"inkwell/routes"
)

func main() {
	cfg := config.LoadConfig()

	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	middleware.InitMiddleware(cfg)

	database.Connect(cfg)

	app := routes.NewApp(cfg.ViewsDir)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("server shutdown error", "err", err)
		}
	}()

	middleware.Logger.Info("server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		middleware.Logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
