package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-api/domain/identity"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface other modules use to verify credentials.
type AuthPort interface {
	VerifyToken(ctx context.Context, token string) (*identity.Claims, error)
}

// AuthAdapter implements AuthPort over the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// VerifyToken validates a bearer credential and returns the caller identity.
func (a *AuthAdapter) VerifyToken(ctx context.Context, token string) (*identity.Claims, error) {
	req := VerifyRequest{Token: token}
	var resp VerifyResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "verify", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("token verification failed: %s", resp.Error)
	}

	return &identity.Claims{
		UserID:  resp.UserID,
		Subject: resp.Subject,
	}, nil
}
