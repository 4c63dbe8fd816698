package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type accessTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// parseAccessToken lê sub e exp do token de acesso. Com o segredo configurado a
// assinatura HS256 é verificada; sem ele os claims são lidos sem verificação.
func parseAccessToken(token, secret string) (*accessTokenClaims, error) {
	claims := &accessTokenClaims{}

	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("token de acesso inválido: %w", err)
		}
		return claims, nil
	}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token de acesso inválido: %w", err)
	}
	return claims, nil
}

func (c *accessTokenClaims) expiresAt() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
