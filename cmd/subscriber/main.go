package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/cache"
	"github.com/KryptoniteDAO/swap-extention-old/internal/config"
	"github.com/KryptoniteDAO/swap-extention-old/internal/models"
)

func main() {
	pair := flag.String("pair", "", "also follow one pair, e.g. uusd/ukrw")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisDB)
	defer rc.Close()
	if err := rc.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	logger.Info("Starting swap subscriber...")

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				logger.WithError(err).WithField("subscription", name).Error("subscription ended")
			}
		}()
	}

	// Subscribe to all swaps
	run(cache.ChannelAll, func() error {
		return rc.Subscribe(ctx, cache.ChannelAll, func(swap *models.SwapEvent) {
			logger.WithFields(logrus.Fields{
				"tx_id":    swap.TxID,
				"height":   swap.Height,
				"pool":     swap.Pool,
				"receiver": swap.Receiver,
			}).Infof("%s %s -> %s %s", swap.OfferAmount, swap.OfferAsset, swap.ReturnAmount, swap.AskAsset)
		})
	})

	// Subscribe to specific pair
	if *pair != "" {
		channel := cache.PairChannel(*pair)
		run(channel, func() error {
			return rc.Subscribe(ctx, channel, func(swap *models.SwapEvent) {
				logger.WithField("pair", swap.Pair).Infof("pair swap: %s in, %s out", swap.OfferAmount, swap.ReturnAmount)
			})
		})
	}

	// Subscribe to pattern (all pools)
	run(cache.ChannelPoolPrefix+"*", func() error {
		return rc.PSubscribe(ctx, cache.ChannelPoolPrefix+"*", func(swap *models.SwapEvent) {
			logger.WithField("pool", swap.Pool).Debug("pool activity")
		})
	})

	logger.Info("Subscriber running. Press Ctrl+C to stop.")

	<-sigChan
	logger.Info("Shutting down subscriber...")
	cancel()
	wg.Wait()
}
