package swapengine

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/aman-zulfiqar/jupiter-solana/internal/cache"
	"github.com/aman-zulfiqar/jupiter-solana/internal/config"
	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/ledger"
	"github.com/aman-zulfiqar/jupiter-solana/internal/storage"
	"github.com/aman-zulfiqar/jupiter-solana/internal/txcodec"
	"github.com/aman-zulfiqar/jupiter-solana/internal/wallet"
)

// Open builds an engine from configuration. rdb is an optional shared Redis
// client; when nil and cfg.RedisAddr is set a dedicated one is dialled. A
// missing wallet key yields a keyless engine that only quotes and reads orders.
// The engine owns rdb from then on and closes it in Close.
func Open(ctx context.Context, cfg *config.Config, rdb redis.UniversalClient, logger *logrus.Logger) (*Engine, error) {
	if logger == nil {
		logger = logrus.New()
	}

	endpoints, err := jupiter.NewEndpoints(cfg.JupiterEndpoints)
	if err != nil {
		return nil, err
	}
	aggregator := jupiter.NewClient(jupiter.ClientConfig{
		Endpoints: &endpoints,
		APIKey:    cfg.JupiterAPIKey,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.JupiterRateLimit,
		RateBurst: cfg.JupiterRateBurst,
		Logger:    logger,
	})

	ecfg := EngineConfig{
		Aggregator:              aggregator,
		DisableWrapAndUnwrapSol: !cfg.WrapAndUnwrapSol,
		Logger:                  logger,
	}

	if cfg.WalletPrivateKey != "" {
		kp, err := wallet.NewKeypairFromString(cfg.WalletPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("wallet: %w", err)
		}
		var sendRetries *uint
		if cfg.SendMaxRetries >= 0 {
			n := uint(cfg.SendMaxRetries)
			sendRetries = &n
		}
		client, err := ledger.NewClient(ledger.Config{
			Driver:              cfg.LedgerDriver,
			RPCURL:              cfg.RPCUrl,
			Timeout:             cfg.RPCTimeout,
			MaxRetries:          cfg.MaxRetries,
			RetryBackoff:        cfg.RetryBackoff,
			SkipPreflight:       cfg.SkipPreflight,
			PreflightCommitment: cfg.PreflightCommitment,
			SendMaxRetries:      sendRetries,
			Logger:              logger,
		})
		if err != nil {
			return nil, err
		}
		submitter, err := ledger.NewSubmitter(client, logger)
		if err != nil {
			return nil, err
		}
		ecfg.Signer = txcodec.Signer(kp)
		ecfg.Submitter = submitter
		logger.WithField("wallet", kp.Address()).Info("wallet loaded")
	} else {
		logger.Warn("WALLET_PRIVATE_KEY not set, execution disabled")
	}

	var cacheStore storage.ExecutionCache
	switch {
	case rdb != nil:
		cacheStore, err = cache.NewRedisCacheFromClient(rdb, logger)
	case cfg.RedisAddr != "":
		cacheStore, err = cache.NewRedisCache(ctx, cfg.RedisAddr, logger)
	}
	if err != nil {
		return nil, err
	}
	ecfg.Cache = cacheStore

	if cfg.ClickHouseAddr != "" {
		store, err := cache.NewClickHouseStore(ctx, cache.ClickHouseOptions{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			if cacheStore != nil {
				err = multierr.Append(err, cacheStore.Close())
			}
			return nil, err
		}
		ecfg.Store = store
	}

	return NewEngine(ecfg)
}
