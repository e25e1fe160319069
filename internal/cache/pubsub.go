package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/models"
	"github.com/KryptoniteDAO/swap-extention-old/internal/storage"
)

const (
	ChannelAll        = "swaps:all"
	ChannelPairPrefix = "swaps:pair:"
	ChannelPoolPrefix = "swaps:pool:"
)

func PairChannel(pair string) string { return ChannelPairPrefix + pair }

func PoolChannel(pool string) string { return ChannelPoolPrefix + pool }

// PublishSwap publishes to the firehose, the pair channel and the pool
// channel in one round trip.
func (r *RedisCache) PublishSwap(ctx context.Context, swap *models.SwapEvent) error {
	data, err := json.Marshal(swap)
	if err != nil {
		return fmt.Errorf("marshal swap: %w", err)
	}

	channels := []string{
		ChannelAll,
		PairChannel(swap.Pair),
		PoolChannel(swap.Pool),
	}

	pipe := r.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish swap: %w", err)
	}
	return nil
}

// Subscribe blocks, calling handler for every swap on channel until ctx is
// done.
func (r *RedisCache) Subscribe(ctx context.Context, channel string, handler storage.SwapHandler) error {
	return consume(ctx, r.client.Subscribe(ctx, channel), handler)
}

// PSubscribe is Subscribe for a channel pattern such as "swaps:pair:*".
func (r *RedisCache) PSubscribe(ctx context.Context, pattern string, handler storage.SwapHandler) error {
	return consume(ctx, r.client.PSubscribe(ctx, pattern), handler)
}

func consume(ctx context.Context, ps *redis.PubSub, handler storage.SwapHandler) error {
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var swap models.SwapEvent
			if err := json.Unmarshal([]byte(msg.Payload), &swap); err != nil {
				logrus.WithError(err).WithField("channel", msg.Channel).Warn("bad swap payload")
				continue
			}
			handler(&swap)
		}
	}
}
