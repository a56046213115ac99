package middleware // reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the cookie carrying the access token for browser
// clients. API clients may send the same token as a Bearer header.
const SessionCookie = "token"

// JWTAuth returns an Echo middleware that validates the access token and
// injects the authenticated user id and role into the request context.
// The token is read from the session cookie first, then from the
// Authorization header. Handlers read the values via c.Get("user_id")
// (uint64) and c.Get("role") (string).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
				raw = ck.Value
			} else if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "authentication required", "success": false, "status": http.StatusUnauthorized,
				})
			}

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "invalid or expired token", "success": false, "status": http.StatusUnauthorized,
				})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "invalid token claims", "success": false, "status": http.StatusUnauthorized,
				})
			}

			// MapClaims decodes numbers as float64.
			sub, ok := claims["sub"].(float64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "invalid token claims", "success": false, "status": http.StatusUnauthorized,
				})
			}
			role, _ := claims["role"].(string)
			c.Set("user_id", uint64(sub))
			c.Set("role", role)
			return next(c)
		}
	}
}
