package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"auth-service/internal/cli"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.OpenFromConfig(logger)).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
