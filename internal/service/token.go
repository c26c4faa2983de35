package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	apperrors "github.com/centrex/auth-service/internal/errors"
	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// TokenStore is the persistent session-token collaborator.
type TokenStore interface {
	Create(ctx context.Context, token *model.SessionToken) error
	GetByHash(ctx context.Context, tokenHash string) (*model.SessionToken, error)
	ListByUserAndLabel(ctx context.Context, userID uint, label string) ([]model.SessionToken, error)
	DeleteByUserAndLabel(ctx context.Context, userID uint, label string) error
}

// SessionCache is the optional fast path for bearer-token lookups.
type SessionCache interface {
	SetSession(ctx context.Context, tokenHash string, userID uint, deviceID string, ttl time.Duration) error
	GetSession(ctx context.Context, tokenHash string) (uint, string, bool, error)
	DeleteSessions(ctx context.Context, tokenHashes ...string) error
}

// TokenService issues and revokes per-device session tokens. The bearer
// string is a signed JWT carrying user_id and device_id, but clients
// treat it as opaque: authentication also requires the matching
// SessionToken row, which is what makes revocation effective.
type TokenService struct {
	store      TokenStore
	cache      SessionCache
	secret     []byte
	expiration time.Duration
}

func NewTokenService(store TokenStore, cache SessionCache, secret string, expiration time.Duration) *TokenService {
	return &TokenService{
		store:      store,
		cache:      cache,
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Issue creates a new session token for (user, label). Callers revoke
// prior tokens for the label first; Issue itself only appends.
func (s *TokenService) Issue(ctx context.Context, userID uint, label string) (string, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Issue")

	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := jwt.MapClaims{
		"user_id":   userID,
		"device_id": label,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign session token").
			Uint("user_id", userID).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	record := &model.SessionToken{
		UserID:    userID,
		Label:     label,
		TokenHash: hashToken(signed),
		ExpiresAt: &expiresAt,
	}

	if err := s.store.Create(ctx, record); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Cache failures only cost a database lookup later.
	if s.cache != nil {
		if err := s.cache.SetSession(ctx, record.TokenHash, userID, label, s.expiration); err != nil {
			logger.WarnWithContext(ctx, "Failed to cache issued session").
				Uint("user_id", userID).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Session token issued").
		Uint("user_id", userID).
		String("label", label).
		Log()

	return signed, nil
}

// RevokeByLabel deletes every token issued for (user, label) and evicts
// the cached lookups so revoked tokens stop authenticating immediately.
// Revoking a label with no tokens is a no-op.
func (s *TokenService) RevokeByLabel(ctx context.Context, userID uint, label string) error {
	ctx = ctxutil.NewContext(ctx, "service", "RevokeByLabel")

	tokens, err := s.store.ListByUserAndLabel(ctx, userID, label)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if len(tokens) == 0 {
		return nil
	}

	if err := s.store.DeleteByUserAndLabel(ctx, userID, label); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if s.cache != nil {
		hashes := make([]string, 0, len(tokens))
		for _, t := range tokens {
			hashes = append(hashes, t.TokenHash)
		}
		if err := s.cache.DeleteSessions(ctx, hashes...); err != nil {
			logger.WarnWithContext(ctx, "Failed to evict revoked sessions from cache").
				Uint("user_id", userID).
				String("label", label).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Session tokens revoked").
		Uint("user_id", userID).
		String("label", label).
		Int("revoked_count", len(tokens)).
		Log()

	return nil
}

// Authenticate resolves a bearer string to (user, device). The JWT
// signature and expiry are checked first, then the server-side token
// record must still exist: a token revoked by re-login or logout fails
// here even though its signature remains valid.
func (s *TokenService) Authenticate(ctx context.Context, bearer string) (uint, string, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Authenticate")

	claims, err := s.parseToken(bearer)
	if err != nil {
		return 0, "", apperrors.ErrInvalidToken
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", apperrors.ErrInvalidToken
	}
	deviceID, ok := claims["device_id"].(string)
	if !ok {
		return 0, "", apperrors.ErrInvalidToken
	}
	userID := uint(userIDFloat)

	tokenHash := hashToken(bearer)

	if s.cache != nil {
		cachedUser, cachedDevice, hit, err := s.cache.GetSession(ctx, tokenHash)
		if err == nil && hit && cachedUser == userID && cachedDevice == deviceID {
			return userID, deviceID, nil
		}
	}

	record, err := s.store.GetByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", apperrors.ErrInvalidToken
		}
		return 0, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if record.ExpiresAt != nil && record.ExpiresAt.Before(time.Now()) {
		return 0, "", apperrors.ErrInvalidToken
	}

	if s.cache != nil {
		ttl := s.expiration
		if record.ExpiresAt != nil {
			ttl = time.Until(*record.ExpiresAt)
		}
		if ttl > 0 {
			if err := s.cache.SetSession(ctx, tokenHash, userID, deviceID, ttl); err != nil {
				logger.DebugWithContext(ctx, "Failed to backfill session cache").
					Err(err).
					Log()
			}
		}
	}

	return userID, deviceID, nil
}

func (s *TokenService) parseToken(bearer string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(bearer, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func hashToken(bearer string) string {
	sum := sha256.Sum256([]byte(bearer))
	return hex.EncodeToString(sum[:])
}
