package middleware

import (
	"net/http"
	"strings"

	"microlending/internal/domain/platform"

	"github.com/labstack/echo/v4"
)

const (
	HeaderPrincipal = "Ax-Principal"
	principalKey    = "principal"
)

// Principal reads the caller identity the gateway authenticated. Mutating requests must carry
// one; reads may be anonymous.
func Principal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := strings.TrimSpace(c.Request().Header.Get(HeaderPrincipal))
			if p == "" {
				if mutating(c.Request().Method) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderPrincipal})
				}
				return next(c)
			}
			if !platform.ValidPrincipal(p) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderPrincipal})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Principal, or "".
func PrincipalFrom(c echo.Context) string {
	p, _ := c.Get(principalKey).(string)
	return p
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
