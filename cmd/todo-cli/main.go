package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"todo-api/internal/console"
	"todo-api/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zlog, err := logger.New(os.Getenv("LOG_LEVEL"), true)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	app := console.NewApp(console.NewStore(), os.Stdin, os.Stdout, zlog)
	if err := app.Run(ctx); err != nil {
		zlog.Error("console stopped", zap.Error(err))
		os.Exit(1)
	}
}
