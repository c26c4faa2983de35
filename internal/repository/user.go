package repository

import (
	"context"
	"time"

	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByID")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				Uint("user_id", id).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved by ID").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return &user, nil
}

// GetByPhone finds a user by phone number. Returns
// gorm.ErrRecordNotFound when no account exists for the number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByPhone")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by phone").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved by phone").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// Create creates a new user. The unique index on phone is the final
// authority on phone uniqueness.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}
