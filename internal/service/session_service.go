package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/repository"
)

// AcknowledgeReply is the canned assistant answer to free-form input.
const AcknowledgeReply = "Noted. Let's proceed."

// SessionService manages the persisted conversation log.
type SessionService struct {
	repo    repository.SessionRepository
	logger  *zap.Logger
	now     func() time.Time
	session *domain.Session
}

// NewSessionService constructs the service.
func NewSessionService(repo repository.SessionRepository, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, logger: logger, now: time.Now}
}

// StartSession loads the stored session or creates and saves a new one.
// An unreadable file is replaced by a fresh session.
func (s *SessionService) StartSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.repo.Load(ctx)
	if err == nil {
		s.session = session
		return session, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		s.logger.Warn("discarding unreadable session", zap.Error(err))
	}

	s.session = &domain.Session{
		ID:        uuid.NewString(),
		StartedAt: s.now().UTC(),
		Exchanges: []domain.Exchange{},
	}
	if err := s.repo.Save(ctx, s.session); err != nil {
		return nil, err
	}
	return s.session, nil
}

// Current returns the active session, or nil before StartSession.
func (s *SessionService) Current() *domain.Session {
	return s.session
}

// RememberContext appends an exchange and saves the session.
func (s *SessionService) RememberContext(ctx context.Context, exchange domain.Exchange) error {
	if s.session == nil {
		if _, err := s.StartSession(ctx); err != nil {
			return err
		}
	}
	if exchange.TS.IsZero() {
		exchange.TS = s.now().UTC()
	}
	s.session.Exchanges = append(s.session.Exchanges, exchange)
	return s.repo.Save(ctx, s.session)
}

// HandleUserInput records the user's text and the canned acknowledgement.
func (s *SessionService) HandleUserInput(ctx context.Context, text string) (string, error) {
	if err := s.RememberContext(ctx, domain.Exchange{Role: domain.RoleUser, Text: text}); err != nil {
		return "", err
	}
	if err := s.RememberContext(ctx, domain.Exchange{Role: domain.RoleAssistant, Text: AcknowledgeReply}); err != nil {
		return "", err
	}
	return AcknowledgeReply, nil
}

// SuggestFollowUp returns the standing follow-up prompts.
func (s *SessionService) SuggestFollowUp() []string {
	return []string{"Want me to draft a status comment?", "Shall I generate a checklist?"}
}

// RecentExchanges returns up to n of the latest exchanges.
func (s *SessionService) RecentExchanges(n int) []domain.Exchange {
	if s.session == nil || n <= 0 {
		return nil
	}
	exchanges := s.session.Exchanges
	if len(exchanges) > n {
		exchanges = exchanges[len(exchanges)-n:]
	}
	return exchanges
}
