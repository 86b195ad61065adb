package service

import (
	"testing"

	"github.com/deskflow/ticket-assistant/internal/config"
	"github.com/deskflow/ticket-assistant/internal/domain"
)

func TestIssueToken(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{JWTSecret: "s", AccessTokenTTLMinutes: 10})
	token, err := svc.IssueToken(" ci-bot ", domain.SubjectTypeAutomation)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token.Value)
	if err != nil || claims.RegisteredClaims.Subject != "ci-bot" {
		t.Fatalf("claims = %+v err = %v", claims, err)
	}
	if _, err := svc.IssueToken("", domain.SubjectTypeOperator); err == nil {
		t.Fatalf("empty subject must fail")
	}
	if _, err := svc.IssueToken("x", "ROBOT"); err == nil {
		t.Fatalf("unknown subject type must fail")
	}
}
