// ============================================================================
// cmd/subscriber/main.go - Execution journal subscriber
// ============================================================================
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/cache"
	"github.com/aman-zulfiqar/jupiter-solana/internal/config"
	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	_, filename, _, _ := runtime.Caller(0)
	_ = godotenv.Load(filepath.Join(filepath.Dir(filename), "../..", ".env"))

	cfg := config.Load()
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	rc, err := cache.NewRedisCache(ctx, addr, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer rc.Close()

	// Replay the journal tail so the stream starts with context
	recent, err := rc.RecentExecutions(ctx, 10)
	if err != nil {
		logger.WithError(err).Warn("failed to read recent executions")
	}
	for i := len(recent) - 1; i >= 0; i-- {
		logExecution(logger, "recent", recent[i])
	}

	executions, err := rc.SubscribeExecutions(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to subscribe")
	}
	logger.WithField("channel", constants.PubSubChannelExecutions).Info("subscriber running, press Ctrl+C to stop")

	for {
		select {
		case <-sigChan:
			logger.Info("shutting down subscriber")
			return
		case exec, ok := <-executions:
			if !ok {
				return
			}
			logExecution(logger, "live", exec)
		}
	}
}

func logExecution(logger *logrus.Logger, source string, exec *models.Execution) {
	fields := logrus.Fields{
		"source":    source,
		"kind":      exec.Kind,
		"signature": exec.Signature,
		"wallet":    exec.Wallet,
	}
	switch exec.Kind {
	case constants.ExecutionKindSwap, constants.ExecutionKindLimitOpen:
		fields["pair"] = symbol(exec.InputMint) + "/" + symbol(exec.OutputMint)
		fields["in_amount"] = exec.InAmount
		fields["out_amount"] = exec.OutAmount
		if exec.FeeAccount != "" {
			fields["fee_account"] = exec.FeeAccount
		}
	case constants.ExecutionKindLimitCancel:
		if len(exec.OrderKeys) == 0 {
			fields["orders"] = "all"
		} else {
			fields["orders"] = strings.Join(exec.OrderKeys, ",")
		}
	}
	logger.WithFields(fields).Info("execution")
}

func symbol(mint string) string {
	if s, ok := constants.TokenSymbols[mint]; ok {
		return s
	}
	return mint
}
