package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken: el token no vale (firma, vencimiento, rechazo del IAM).
// Cualquier otro error de Verify es una falla del verificador.
var ErrInvalidToken = errors.New("invalid token")

// Claims es la identidad ya verificada del request. UserID nunca viene vacío.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}

type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
