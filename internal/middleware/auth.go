package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suhailullakhan1/FruitMandi/pkg/jwtutil"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"go.uber.org/zap"
)

// ContextUserKey is where the verified session claims live on the echo context.
const ContextUserKey = "user"

// SessionAuthMiddleware validates the session token from the session cookie,
// falling back to a Bearer Authorization header, and threads the verified
// identity through the request context.
func SessionAuthMiddleware(jwtUtil *jwtutil.JWTUtil, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			tokenString := ""
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				tokenString = cookie.Value
			} else if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					log.Warn("Invalid authorization header format")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
				}
				tokenString = parts[1]
			}

			if tokenString == "" {
				log.Warn("Missing session token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			claims, err := jwtUtil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired session token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
			}

			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireRole rejects authenticated callers whose role is not in the allowed
// set. Distinct from the 401 of a missing session: the caller is known, just
// not permitted.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ContextUserKey).(*jwtutil.SessionClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}

			logger.FromEcho(c).Warn("Role not permitted",
				zap.String("role", claims.Role),
				zap.Strings("required", roles))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// ClaimsFromContext returns the verified identity set by SessionAuthMiddleware.
func ClaimsFromContext(c echo.Context) (*jwtutil.SessionClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*jwtutil.SessionClaims)
	return claims, ok
}
