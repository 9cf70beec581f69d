package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/example/task-api/domain/identity"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
	// ErrMissingSubject is returned when the token carries no usable
	// subject claim.
	ErrMissingSubject = errors.New("token missing user identifier")
)

// VerifierConfig holds the settings for bearer credential verification.
type VerifierConfig struct {
	SecretKey string
	Issuer    string
	TokenTTL  time.Duration
}

// DefaultVerifierConfig returns the verifier defaults. The secret key has no
// default: it must come from the environment.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		Issuer:   "task-api",
		TokenTTL: 15 * time.Minute,
	}
}

// Verifier validates HS256 bearer tokens and extracts the caller identity.
// The subject claim must be a base-10 integer user id.
type Verifier struct {
	config VerifierConfig
}

// NewVerifier creates a new Verifier with the given configuration.
func NewVerifier(config VerifierConfig) *Verifier {
	return &Verifier{config: config}
}

// Generate mints an HS256 token for the given user id. The service itself
// never issues tokens to clients; this is the verification counterpart used
// by tests and local tooling.
func (v *Verifier) Generate(userID int64, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = v.config.TokenTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    v.config.Issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.SecretKey))
}

// Verify validates a token and returns the caller identity. Failures keep
// their sub-reason (expired vs malformed vs missing subject) so the boundary
// can log it before collapsing to a generic unauthorized response.
func (v *Verifier) Verify(tokenString string) (*identity.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrMissingSubject
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, ErrMissingSubject
	}

	return &identity.Claims{
		UserID:  userID,
		Subject: subject,
	}, nil
}
