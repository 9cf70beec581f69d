package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthModule is the identity verifier: it turns bearer credentials into
// trusted user identifiers. Token issuance (registration, login, refresh)
// belongs to the external identity provider and is not served here.
type AuthModule struct {
	verifier *Verifier
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	return &AuthModule{}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start loads the verification key. A missing secret is a fatal startup
// error, never a runtime one.
func (m *AuthModule) Start(_ context.Context) error {
	config := DefaultVerifierConfig()

	config.SecretKey = os.Getenv("JWT_SECRET_KEY")
	if config.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	m.verifier = NewVerifier(config)

	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.verifier == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "verifier not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "verify", json.Unmarshal, json.Marshal, m.handleVerify,
	); err != nil {
		return fmt.Errorf("failed to register verify service: %w", err)
	}

	log.Printf("[auth] Registered services: services.auth.verify")
	return nil
}

// handleVerify handles credential verification. Rejections are a response,
// not an error: the caller collapses them to a generic unauthorized message
// while the sub-reason is logged here.
func (m *AuthModule) handleVerify(_ context.Context, req VerifyRequest, _ *mono.Msg) (VerifyResponse, error) {
	claims, err := m.verifier.Verify(req.Token)
	if err != nil {
		log.Printf("[auth] token rejected: %v", err)
		return VerifyResponse{
			Valid: false,
			Error: err.Error(),
		}, nil
	}

	return VerifyResponse{
		Valid:   true,
		UserID:  claims.UserID,
		Subject: claims.Subject,
	}, nil
}
