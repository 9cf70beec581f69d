package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestVerifier() *Verifier {
	config := DefaultVerifierConfig()
	config.SecretKey = testSecret
	return NewVerifier(config)
}

func TestVerifier_GenerateAndVerify(t *testing.T) {
	v := newTestVerifier()

	token, err := v.Generate(42, 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Subject != "42" {
		t.Errorf("expected subject %q, got %q", "42", claims.Subject)
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	v := newTestVerifier()

	token, err := v.Generate(42, -time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifier_Verify_WrongSecret(t *testing.T) {
	other := NewVerifier(VerifierConfig{SecretKey: "a-different-secret", TokenTTL: time.Minute})
	token, err := other.Generate(42, 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	v := newTestVerifier()
	if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_Verify_Malformed(t *testing.T) {
	v := newTestVerifier()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestVerifier_Verify_UnsignedAlgorithmRejected(t *testing.T) {
	v := newTestVerifier()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_Verify_Subject(t *testing.T) {
	v := newTestVerifier()

	signToken := func(t *testing.T, claims jwt.RegisteredClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return token
	}

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		if _, err := v.Verify(token); !errors.Is(err, ErrMissingSubject) {
			t.Errorf("expected ErrMissingSubject, got %v", err)
		}
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		token := signToken(t, jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		if _, err := v.Verify(token); !errors.Is(err, ErrMissingSubject) {
			t.Errorf("expected ErrMissingSubject, got %v", err)
		}
	})
}
