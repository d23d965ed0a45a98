package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// AuthCallbackService verifies the signed callback an identity provider
// posts when a user completes a LOGIN capture out of band.
type AuthCallbackService interface {
	VerifyCallback(token string) (*domain.AuthenticatedUser, error)
}

type callbackClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type authCallbackService struct {
	log    *logger.Logger
	secret []byte
	leeway time.Duration
}

func NewAuthCallbackService(log *logger.Logger) (AuthCallbackService, error) {
	secret := strings.TrimSpace(envutil.String("AUTH_CALLBACK_SECRET", ""))
	if secret == "" {
		return nil, fmt.Errorf("missing AUTH_CALLBACK_SECRET")
	}
	return &authCallbackService{
		log:    log.With("service", "AuthCallbackService"),
		secret: []byte(secret),
		leeway: envutil.Duration("AUTH_CALLBACK_LEEWAY", 30*time.Second),
	}, nil
}

func (s *authCallbackService) VerifyCallback(token string) (*domain.AuthenticatedUser, error) {
	claims := &callbackClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithLeeway(s.leeway))
	if err != nil {
		return nil, fmt.Errorf("verify login callback: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("login callback token invalid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("login callback missing subject")
	}

	extra := map[string]any{}
	if claims.Issuer != "" {
		extra["iss"] = claims.Issuer
	}

	s.log.Info("login callback verified", "subject", claims.Subject)
	return &domain.AuthenticatedUser{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Claims:  extra,
	}, nil
}
