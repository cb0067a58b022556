package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA signing.
type hmacTokenService struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
}

// tokenClaims defines the structure of the JWT claims we use.
type tokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	Scope  string    `json:"scope"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService interface
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new token service using HMAC-SHA256 signing.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacTokenService{
		signingKey: []byte(cfg.JWTSecret),
		timeFunc:   time.Now,
	}, nil
}

// Issue creates a signed session token with user and scope claims.
// Tokens carry iat and jti but deliberately no exp: a token stays valid
// until its session row is deleted by logout.
func (s *hmacTokenService) Issue(
	ctx context.Context,
	userID uuid.UUID,
	scope string,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := tokenClaims{
		UserID: userID,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"user_id", userID,
			"scope", scope)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// Verify validates a session token's signature and payload and returns
// the claims if valid. All failure modes collapse into ErrInvalidToken;
// the caller has no reason to distinguish a malformed token from a
// forged one.
func (s *hmacTokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)

	if err != nil {
		log.Debug("token verification failed",
			"error", err,
			"error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token verification failed: invalid claims")
		return nil, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil {
		log.Debug("token verification failed: missing user id claim")
		return nil, ErrInvalidToken
	}

	verified := &Claims{
		UserID:  claims.UserID,
		Scope:   claims.Scope,
		Subject: claims.Subject,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}

	log.Debug("token verified",
		"user_id", claims.UserID,
		"token_id", claims.ID,
		"scope", claims.Scope)

	return verified, nil
}
