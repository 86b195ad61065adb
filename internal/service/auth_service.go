package service

import (
	"strings"

	"github.com/deskflow/ticket-assistant/internal/auth"
	"github.com/deskflow/ticket-assistant/internal/config"
	"github.com/deskflow/ticket-assistant/internal/domain"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

// AuthService issues API tokens for the serve mode.
type AuthService struct {
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes)}
}

// TokenManager exposes the manager used to validate issued tokens.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// IssueToken mints a token for a named operator or automation client.
func (s *AuthService) IssueToken(subjectID string, subject domain.SubjectType) (domain.Token, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return domain.Token{}, apperrors.NewValidationError("subject is required", nil)
	}
	switch subject {
	case domain.SubjectTypeOperator, domain.SubjectTypeAutomation:
	default:
		return domain.Token{}, apperrors.NewValidationError("unknown subject type", map[string]any{"subject_type": subject})
	}
	return s.tokenMgr.GenerateToken(subjectID, subject)
}
