package repository

import (
	"context"

	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to persist audit entry").
			Uint("user_id", entry.UserID).
			String("event", entry.Event).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}
