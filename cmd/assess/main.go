package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/godilite/assessment-server/internal/assessment"
	"github.com/godilite/assessment-server/internal/config"
	handler "github.com/godilite/assessment-server/internal/grpc"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.LoadFromEnv()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	// Keep the terminal for the questionnaire.
	logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	defer logger.Sync()

	if cfg.UserID == "" {
		logger.Fatal("ASSESS_USER_ID is required")
	}

	conn, err := grpc.NewClient(cfg.ServerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("Failed to create client", zap.String("addr", cfg.ServerAddr), zap.Error(err))
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := assessment.NewEngine(handler.NewRemoteStore(conn, cfg.UserID), logger)
	if err := newCLI(engine, os.Stdin, os.Stdout).run(ctx); err != nil {
		logger.Error("Session ended with error", zap.Error(err))
	}
}
