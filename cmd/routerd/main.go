package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/cache"
	"github.com/KryptoniteDAO/swap-extention-old/internal/chain"
	"github.com/KryptoniteDAO/swap-extention-old/internal/config"
	"github.com/KryptoniteDAO/swap-extention-old/internal/genesis"
	"github.com/KryptoniteDAO/swap-extention-old/internal/pool"
	"github.com/KryptoniteDAO/swap-extention-old/internal/router"
	"github.com/KryptoniteDAO/swap-extention-old/internal/server"
	"github.com/KryptoniteDAO/swap-extention-old/internal/storage"
	"github.com/KryptoniteDAO/swap-extention-old/internal/store"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer rclient.Close()
	redisUp := rclient.Ping(ctx).Err() == nil

	// Contract state
	var backend store.Backend
	switch cfg.StoreBackend {
	case config.BackendRedis:
		if !redisUp {
			logger.WithField("addr", cfg.RedisAddr).Fatal("failed to connect to Redis")
		}
		rs, err := store.NewRedis(rclient, cfg.RedisPrefix)
		if err != nil {
			logger.WithError(err).Fatal("failed to create redis store")
		}
		backend = rs
	default:
		backend = store.NewMemory()
		logger.Warn("using in-memory contract state; it is lost on restart")
	}

	// Read model
	var swapCache storage.SwapCache
	if redisUp {
		swapCache = cache.NewRedisCacheFromClient(rclient)
	} else {
		logger.WithField("addr", cfg.RedisAddr).Warn("Redis unavailable, swap cache disabled")
	}

	var swapStore storage.SwapStore
	if cfg.ClickHouseAddr != "" {
		ch, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			logger.WithError(err).Warn("ClickHouse unavailable, swap history disabled")
		} else {
			swapStore = ch
			defer ch.Close()
		}
	}

	app, err := chain.New(backend,
		chain.WithLogger(logger),
		chain.WithChainID(cfg.ChainID),
	)
	if err != nil {
		logger.WithError(err).Fatal("failed to create chain")
	}
	if err := app.StoreCode(genesis.CodeRouter, router.New()); err != nil {
		logger.WithError(err).Fatal("failed to store router code")
	}
	if err := app.StoreCode(genesis.CodePool, pool.New()); err != nil {
		logger.WithError(err).Fatal("failed to store pool code")
	}
	if swapCache != nil || swapStore != nil {
		app.AddEventSink(cache.NewSwapSink(swapCache, swapStore, logger))
	}

	if cfg.GenesisPath != "" {
		g, err := genesis.Load(cfg.GenesisPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load genesis")
		}
		res, err := genesis.Apply(ctx, app, g, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to apply genesis")
		}
		logger.WithFields(logrus.Fields{
			"router":  res.Router,
			"pools":   res.Pools,
			"applied": res.Applied,
		}).Info("Genesis ready")
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: &server.Handlers{
			Chain:  app,
			Cache:  swapCache,
			Logger: logger,
		},
		Config: server.ServerConfig{
			Addr:             cfg.APIAddr,
			DevMode:          cfg.DevMode,
			APIKey:           cfg.APIKey,
			AdminKey:         cfg.AdminKey,
			ExecuteRateLimit: cfg.ExecuteRateLimit,
			ExecuteRateBurst: cfg.ExecuteRateBurst,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithFields(logrus.Fields{
		"addr":     cfg.APIAddr,
		"chain_id": cfg.ChainID,
		"backend":  cfg.StoreBackend,
	}).Info("routerd starting")
	if err := srv.Start(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			if err := srv.WaitClosed(context.Background()); err != nil {
				logger.WithError(err).Warn("shutdown incomplete")
			}
			return
		}
		logger.WithError(err).Fatal("routerd failed")
	}
}
