package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
// La verificación vive fuera del motor: acá solo el contrato.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
