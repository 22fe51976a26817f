package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/bootstrap"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
	"github.com/gin-gonic/gin"
)

const (
	networkProtocol = "tcp"
)

func main() {
	mainCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfigFromEnv()
	if err != nil {
		logging.StdoutLogger.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	logger := logging.NewLogger(os.Stdout, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	lis, err := net.Listen(networkProtocol, cfg.HttpPort)
	if err != nil {
		logger.Error("failed to listen", "port", cfg.HttpPort, "error", err.Error())
		os.Exit(1)
	}

	app := bootstrap.NewLedgerApp(cfg, logger)
	if err := app.Run(mainCtx, lis); err != nil {
		logger.Error("ledger stopped with error", "error", err.Error())
		os.Exit(1)
	}
}
