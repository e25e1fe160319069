package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/KryptoniteDAO/swap-extention-old/internal/models"
)

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// ClickHouseStore is the append-only swap history.
type ClickHouseStore struct {
	conn driver.Conn
}

const createSwapsTable = `
	CREATE TABLE IF NOT EXISTS swaps (
		tx_id         String,
		height        UInt64,
		timestamp     DateTime64(3),
		pair          String,
		router        String,
		pool          String,
		sender        String,
		receiver      String,
		offer_asset   String,
		ask_asset     String,
		offer_amount  UInt128,
		return_amount UInt128
	) ENGINE = MergeTree ORDER BY (pair, timestamp)
`

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, createSwapsTable); err != nil {
		return nil, fmt.Errorf("create swaps table: %w", err)
	}

	return &ClickHouseStore{conn: conn}, nil
}

func (c *ClickHouseStore) InsertSwap(ctx context.Context, swap *models.SwapEvent) error {
	query := `
		INSERT INTO swaps (
			tx_id, height, timestamp, pair, router, pool, sender, receiver,
			offer_asset, ask_asset, offer_amount, return_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, toUInt128(?), toUInt128(?))
	`

	err := c.conn.Exec(ctx, query,
		swap.TxID,
		swap.Height,
		swap.Timestamp,
		swap.Pair,
		swap.Router,
		swap.Pool,
		swap.Sender,
		swap.Receiver,
		swap.OfferAsset,
		swap.AskAsset,
		swap.OfferAmount,
		swap.ReturnAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
