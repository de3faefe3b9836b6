package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"task-buddy/internal/platform/httpclient"
	"task-buddy/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote verifier not configured")
	ErrUnauthorized  = fmt.Errorf("%w: rejected by identity service", auth.ErrInvalidToken)
	ErrUpstream      = errors.New("identity service error")
)

const defaultAPIKeyHeader = "X-Api-Key"

type Config struct {
	// URL completa del endpoint de verificación.
	VerifyURL string
	APIKey    string

	// Vacío = "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

// Verifier delega la verificación del bearer token a un servicio de identidad externo.
//
// Contrato: POST {"token": "..."} con la API key en header; 200 con
// {"user_id","email","tenant_id"} o 401/403 si el token no vale.
type Verifier struct {
	url          string
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewVerifier(cfg Config) *Verifier {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = defaultAPIKeyHeader
	}
	return &Verifier{
		url:          strings.TrimSpace(cfg.VerifyURL),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         httpclient.New(cfg.Timeout),
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.url == "" {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		headers.Set(v.apiKeyHeader, v.apiKey)
	}

	var out verifyResponse
	err := v.http.PostJSON(ctx, v.url, headers, verifyRequest{Token: token}, &out)
	switch st := httpclient.Status(err); {
	case err == nil:
	case st == http.StatusUnauthorized || st == http.StatusForbidden:
		return auth.Claims{}, ErrUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	userID := strings.TrimSpace(out.UserID)
	if userID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}
	return auth.Claims{
		UserID:   userID,
		Email:    strings.TrimSpace(out.Email),
		TenantID: strings.TrimSpace(out.TenantID),
	}, nil
}
