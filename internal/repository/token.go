package repository

import (
	"context"
	"time"

	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// TokenRepository is the persistent session-token store. Tokens are
// stored by hash only; the plaintext bearer string never touches the
// database.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.SessionToken) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(token)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create session token").
			Uint("user_id", token.UserID).
			String("label", token.Label).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Session token created").
		Uint("user_id", token.UserID).
		String("label", token.Label).
		Duration(duration).
		Log()

	return nil
}

// GetByHash finds a live token row by its SHA-256 hash. Returns
// gorm.ErrRecordNotFound for revoked or unknown tokens.
func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string) (*model.SessionToken, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByHash")

	var token model.SessionToken
	result := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to look up session token").
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &token, nil
}

// ListByUserAndLabel returns every token issued for one device of one
// user. Callers use the hashes to purge the cache before deletion.
func (r *TokenRepository) ListByUserAndLabel(ctx context.Context, userID uint, label string) ([]model.SessionToken, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "ListByUserAndLabel")

	var tokens []model.SessionToken
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND label = ?", userID, label).
		Find(&tokens)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to list session tokens").
			Uint("user_id", userID).
			String("label", label).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return tokens, nil
}

// DeleteByUserAndLabel hard-deletes every token sharing (user, label).
// Deleting zero rows is not an error; revocation is idempotent.
func (r *TokenRepository) DeleteByUserAndLabel(ctx context.Context, userID uint, label string) error {
	ctx = ctxutil.NewContext(ctx, "repository", "DeleteByUserAndLabel")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND label = ?", userID, label).
		Delete(&model.SessionToken{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete session tokens").
			Uint("user_id", userID).
			String("label", label).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Session tokens deleted").
		Uint("user_id", userID).
		String("label", label).
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()

	return nil
}

// DeleteExpired removes tokens past their expiry (batch cleanup).
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "DeleteExpired")

	result := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&model.SessionToken{})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete expired session tokens").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired session tokens deleted").
			Int64("deleted_count", result.RowsAffected).
			Log()
	}

	return result.RowsAffected, nil
}
