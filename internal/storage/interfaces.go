package storage

import (
	"context"
	"io"

	"github.com/KryptoniteDAO/swap-extention-old/internal/models"
)

// SwapCache defines the interface for caching swap data
type SwapCache interface {
	// AddRecentSwap adds a swap to the recent swaps list
	AddRecentSwap(ctx context.Context, swap *models.SwapEvent) error

	// GetRecentSwaps retrieves the most recent swaps, newest first
	GetRecentSwaps(ctx context.Context, limit int64) ([]*models.SwapEvent, error)

	// PublishSwap publishes a swap event to the Pub/Sub channels
	PublishSwap(ctx context.Context, swap *models.SwapEvent) error

	// Ping checks if the cache is reachable
	Ping(ctx context.Context) error

	io.Closer
}

// SwapStore defines the interface for persistent swap storage
type SwapStore interface {
	// InsertSwap inserts a swap event into the store
	InsertSwap(ctx context.Context, swap *models.SwapEvent) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	io.Closer
}

// SwapHandler is a function that processes swap events
type SwapHandler func(*models.SwapEvent)
