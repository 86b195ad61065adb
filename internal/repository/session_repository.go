package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

// ErrSessionNotFound is returned when no session has been persisted yet.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists the conversation log.
type SessionRepository interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
}

type fileSessionRepository struct {
	path string
}

// NewFileSessionRepository stores the session as one JSON document.
func NewFileSessionRepository(path string) SessionRepository {
	return &fileSessionRepository{path: path}
}

func (r *fileSessionRepository) Load(ctx context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: read: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if session.ID == "" {
		return nil, errors.New("session: missing id")
	}
	return &session, nil
}

func (r *fileSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("session: ensure dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}
