package repository

import (
	"context"
	"time"

	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// DeviceRepository owns the per-user device registry. Each registration
// is an independent row keyed (user_id, device_id), so writes for
// different devices of the same user never clobber each other.
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// GetByUserAndDevice finds the registration for one device. Returns
// gorm.ErrRecordNotFound when the device has never logged in.
func (r *DeviceRepository) GetByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*model.UserDevice, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByUserAndDevice")

	start := time.Now()
	var device model.UserDevice

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		First(&device)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get device registration").
				Uint("user_id", userID).
				String("device_id", deviceID).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &device, nil
}

// ListByUser returns the user's full device registry, oldest first.
func (r *DeviceRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserDevice, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "ListByUser")

	start := time.Now()
	var devices []model.UserDevice

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&devices)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to list device registrations").
			Uint("user_id", userID).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Device registrations listed").
		Uint("user_id", userID).
		Int("count", len(devices)).
		Duration(duration).
		Log()

	return devices, nil
}

// Save inserts or updates one device registration row.
func (r *DeviceRepository) Save(ctx context.Context, device *model.UserDevice) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Save")

	start := time.Now()
	result := r.db.WithContext(ctx).Save(device)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to save device registration").
			Uint("user_id", device.UserID).
			String("device_id", device.DeviceID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Device registration saved").
		Uint("user_id", device.UserID).
		String("device_id", device.DeviceID).
		Bool("logged_in", device.LoggedIn).
		Duration(duration).
		Log()

	return nil
}
