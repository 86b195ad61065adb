package auth

import (
	"testing"
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, err := tm.GenerateToken("dana", domain.SubjectTypeOperator)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token.Value == "" || token.ExpiresAt.Sub(token.IssuedAt) != 5*time.Minute {
		t.Fatalf("token = %+v", token)
	}

	claims, err := tm.ParseToken(token.Value)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.RegisteredClaims.Subject != "dana" || claims.Subject != domain.SubjectTypeOperator {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	token, err := NewTokenManager("secret", 5).GenerateToken("dana", domain.SubjectTypeOperator)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("other", 5).ParseToken(token.Value); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}

	expired := NewTokenManager("secret", 1)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken("dana", domain.SubjectTypeOperator)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := expired.ParseToken(old.Value); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}
