package http

import (
	"fmt"
	"net/http"
	"strings"

	"fleet/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// principalContextKey is where the auth middleware stores the caller's
// principal on the echo context.
const principalContextKey = "principal"

// principalClaims is the token payload: the subject carries the caller's
// UUID, the role claim one of "admin", "driver" or "customer".
type principalClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// PrincipalAuth returns middleware that authenticates requests with an
// HS256 bearer token and stores the resulting principal on the context.
// Requests without a valid token get 401.
func PrincipalAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "missing bearer token",
				})
			}

			principal, err := principalFromToken(token, secret)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "invalid token",
				})
			}

			ctx.Set(principalContextKey, principal)
			return next(ctx)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func principalFromToken(token string, secret []byte) (kernel.Principal, error) {
	claims := &principalClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return kernel.Principal{}, err
	}
	if !parsed.Valid {
		return kernel.Principal{}, fmt.Errorf("token is not valid")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Principal{}, err
	}
	role, err := kernel.RoleFromString(claims.Role)
	if err != nil {
		return kernel.Principal{}, err
	}
	return kernel.NewPrincipal(id, role)
}

// currentPrincipal retrieves the principal the auth middleware stored.
func currentPrincipal(ctx echo.Context) (kernel.Principal, bool) {
	principal, ok := ctx.Get(principalContextKey).(kernel.Principal)
	return principal, ok
}
