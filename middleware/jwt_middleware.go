// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// User types carried in tokens
const (
	UserTypeUser       = "user"
	UserTypeAdmin      = "admin"
	UserTypeSuperAdmin = "super_admin"
)

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if secret == "" {
		logger.Log.Warn("JWT_SECRET environment variable is not set")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, refreshTTL: 4 * ttl}
}

// GenerateJWT generates an access token and a longer lived refresh token
func (t *TokenIssuer) GenerateJWT(userID, email, userType string) (string, string, error) {
	if len(t.secret) == 0 {
		return "", "", errors.New("JWT_SECRET environment variable is required")
	}

	now := time.Now()
	sign := func(ttl time.Duration) (string, error) {
		claims := &JwtCustomClaims{
			UserID:   userID,
			Email:    email,
			UserType: userType,
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: now.Add(ttl).Unix(),
				IssuedAt:  now.Unix(),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	}

	token, err := sign(t.ttl)
	if err != nil {
		return "", "", err
	}
	refresh, err := sign(t.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return token, refresh, nil
}

// JWTMiddleware returns a configured JWT middleware
func (t *TokenIssuer) JWTMiddleware() echo.MiddlewareFunc {
	return t.jwtWithLookup("header:" + echo.HeaderAuthorization)
}

// QueryJWTMiddleware also accepts ?token=, since browsers cannot set headers
// on a websocket upgrade
func (t *TokenIssuer) QueryJWTMiddleware() echo.MiddlewareFunc {
	return t.jwtWithLookup("header:" + echo.HeaderAuthorization + ",query:token")
}

func (t *TokenIssuer) jwtWithLookup(lookup string) echo.MiddlewareFunc {
	if len(t.secret) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "JWT configuration error")
			}
		}
	}

	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:     t.secret,
		SigningMethod:  middleware.AlgorithmHS256,
		Claims:         &JwtCustomClaims{},
		TokenLookup:    lookup,
		SuccessHandler: setClaims,
		ErrorHandler: func(err error) error {
			logger.Log.Debug("JWT middleware error", zap.Error(err))
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Please provide valid credentials")
		},
	})
}

func setClaims(c echo.Context) {
	claims := c.Get("user").(*jwt.Token).Claims.(*JwtCustomClaims)
	c.Set("userId", claims.UserID)
	c.Set("userType", claims.UserType)
	c.Set("email", claims.Email)
}

// OptionalJWT parses a bearer token when one is present and never rejects
// the request. Public routes use it to personalize responses.
func (t *TokenIssuer) OptionalJWT() echo.MiddlewareFunc {
	if len(t.secret) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    t.secret,
		SigningMethod: middleware.AlgorithmHS256,
		Claims:        &JwtCustomClaims{},
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		SuccessHandler:         setClaims,
		ContinueOnIgnoredError: true,
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			return nil
		},
	})
}

// GetUserFromToken extracts user information from JWT token
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || !token.Valid {
		return nil
	}
	return claims
}

// ExtractUserType safely extracts the user type from the context
func ExtractUserType(c echo.Context) string {
	if userType, ok := c.Get("userType").(string); ok && userType != "" {
		return userType
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.UserType
	}
	return ""
}

// GetUserIDFromToken returns the authenticated user id
func GetUserIDFromToken(c echo.Context) (primitive.ObjectID, error) {
	userID, ok := c.Get("userId").(string)
	if !ok || userID == "" {
		claims := GetUserFromToken(c)
		if claims == nil {
			return primitive.NilObjectID, errors.New("invalid token")
		}
		userID = claims.UserID
	}
	return primitive.ObjectIDFromHex(userID)
}

// IsAdmin reports whether the request carries an admin token
func IsAdmin(c echo.Context) bool {
	t := ExtractUserType(c)
	return t == UserTypeAdmin || t == UserTypeSuperAdmin
}
