package transport

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenExpiryParsesUnverifiedClaim(t *testing.T) {
	want := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(want)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("unused-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := tokenExpiry(signed)
	if err != nil {
		t.Fatalf("tokenExpiry: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenExpiryRejectsMalformedToken(t *testing.T) {
	if _, err := tokenExpiry("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
