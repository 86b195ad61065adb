package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

// TicketCacheKey is the Redis key holding the latest ticket snapshot.
const TicketCacheKey = "ticket-assistant:tickets"

// TicketSnapshot is the cached batch of fetched tickets.
type TicketSnapshot struct {
	Tickets []domain.Ticket `json:"tickets"`
	TS      time.Time       `json:"ts"`
}

// TicketCache keeps the last fetched batch. Writes overwrite unconditionally;
// nothing reads the snapshot back for decisions.
type TicketCache interface {
	Store(ctx context.Context, snapshot TicketSnapshot) error
}

type fileTicketCache struct {
	path string
}

// NewFileTicketCache writes snapshots to a JSON file.
func NewFileTicketCache(path string) TicketCache {
	return &fileTicketCache{path: path}
}

func (c *fileTicketCache) Store(ctx context.Context, snapshot TicketSnapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ticket cache: ensure dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, payload, 0o644); err != nil {
		return fmt.Errorf("ticket cache: write: %w", err)
	}
	return nil
}

type redisTicketCache struct {
	client *redis.Client
	key    string
}

// NewRedisTicketCache writes snapshots to a single Redis key.
func NewRedisTicketCache(client *redis.Client) TicketCache {
	return &redisTicketCache{client: client, key: TicketCacheKey}
}

func (c *redisTicketCache) Store(ctx context.Context, snapshot TicketSnapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("ticket cache: redis set: %w", err)
	}
	return nil
}

// RefreshCache replaces the cached snapshot with an empty one.
func RefreshCache(ctx context.Context, cache TicketCache, now time.Time) error {
	return cache.Store(ctx, TicketSnapshot{Tickets: []domain.Ticket{}, TS: now})
}

func encodeSnapshot(snapshot TicketSnapshot) ([]byte, error) {
	if snapshot.Tickets == nil {
		snapshot.Tickets = []domain.Ticket{}
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ticket cache: encode: %w", err)
	}
	return payload, nil
}
