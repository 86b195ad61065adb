package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

func TestFileTicketCacheOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cache := NewFileTicketCache(path)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := cache.Store(ctx, TicketSnapshot{Tickets: []domain.Ticket{{Key: "A-1"}, {Key: "A-2"}}, TS: now}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := RefreshCache(ctx, cache, now.Add(time.Hour)); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var snapshot TicketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatal(err)
	}
	if snapshot.Tickets == nil || len(snapshot.Tickets) != 0 {
		t.Fatalf("refresh must leave an empty list, got %+v", snapshot.Tickets)
	}
	if !snapshot.TS.Equal(now.Add(time.Hour)) {
		t.Fatalf("ts = %v", snapshot.TS)
	}
}
