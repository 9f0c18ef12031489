package service

import (
	"errors"
	"fmt"
	"time"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/dto"
	"quiz-sentinel/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultAlertTokenTTL bounds how long an alert session token stays valid.
const DefaultAlertTokenTTL = 12 * time.Hour

// TokenService issues and validates alert session tokens.
type TokenService interface {
	IssueAlertToken(sessionID string) (string, time.Time, error)
	ValidateAlertToken(tokenString string) (*dto.AlertClaims, error)
}

type tokenServiceImpl struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) (TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	ttl := cfg.AlertTTL
	if ttl <= 0 {
		ttl = DefaultAlertTokenTTL
	}
	return &tokenServiceImpl{secret: []byte(cfg.SecretKey), ttl: ttl, now: time.Now}, nil
}

func (s *tokenServiceImpl) IssueAlertToken(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := dto.AlertClaims{
		SessionID: sessionID,
		TokenType: dto.AlertTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   sessionID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.NewInternalError("failed to sign alert token", err)
	}
	return signed, expiresAt, nil
}

func (s *tokenServiceImpl) ValidateAlertToken(tokenString string) (*dto.AlertClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AlertClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("Alert token expired", zap.Error(err))
			return nil, domain.NewUnauthorizedError("alert token expired")
		}
		logger.Get().Warn("Alert token validation failed", zap.Error(err))
		return nil, domain.NewUnauthorizedError("invalid alert token")
	}

	claims, ok := token.Claims.(*dto.AlertClaims)
	if !ok || !token.Valid {
		return nil, domain.NewUnauthorizedError("invalid alert token")
	}
	if claims.TokenType != dto.AlertTokenType || claims.SessionID == "" {
		return nil, domain.NewUnauthorizedError("token is not an alert session token")
	}
	return claims, nil
}
