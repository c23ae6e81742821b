package util

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionSigner_RoundTrip(t *testing.T) {
	s := NewSessionSigner([]byte("secret"), time.Hour)

	id, token, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	got, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got != id {
		t.Fatalf("Validate() = %q, want %q", got, id)
	}
}

func TestSessionSigner_Rejects(t *testing.T) {
	s := NewSessionSigner([]byte("secret"), time.Hour)
	_, token, err := s.Issue()
	if err != nil {
		t.Fatal(err)
	}

	other := NewSessionSigner([]byte("other"), time.Hour)
	expired := NewSessionSigner([]byte("secret"), time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "x", Issuer: sessionIssuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		signer *SessionSigner
		token  string
	}{
		{"garbage", s, "not-a-token"},
		{"wrong secret", other, token},
		{"expired", expired, token},
		{"alg none", s, noneToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.signer.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestSessionSigner_MissingSecret(t *testing.T) {
	s := NewSessionSigner(nil, time.Hour)
	if _, _, err := s.Issue(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
