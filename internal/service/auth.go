package service

import (
	"context"
	"errors"
	"strings"

	"github.com/centrex/auth-service/internal/constants"
	"github.com/centrex/auth-service/internal/dto"
	apperrors "github.com/centrex/auth-service/internal/errors"
	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the persistent user collaborator. GetByPhone and GetByID
// return gorm.ErrRecordNotFound when no record exists.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// DeviceStore owns the per-user device registry.
type DeviceStore interface {
	GetByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*model.UserDevice, error)
	ListByUser(ctx context.Context, userID uint) ([]model.UserDevice, error)
	Save(ctx context.Context, device *model.UserDevice) error
}

// AuthService implements registration, login and logout with per-device
// session tokens and push-token bookkeeping.
type AuthService struct {
	users   UserStore
	devices DeviceStore
	tokens  *TokenService
	audit   *AuditService
}

func NewAuthService(users UserStore, devices DeviceStore, tokens *TokenService, audit *AuditService) *AuthService {
	return &AuthService{
		users:   users,
		devices: devices,
		tokens:  tokens,
		audit:   audit,
	}
}

// Register creates a user with a single device registration and issues
// the first session token for that device.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, meta RequestMeta) (*dto.AuthResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Register")

	logger.InfoWithContext(ctx, "Registration attempt").
		Log()

	// Pre-check; the unique index on phone remains the final authority.
	if _, err := s.users.GetByPhone(ctx, req.Phone); err == nil {
		logger.WarnWithContext(ctx, "Registration rejected, phone already registered").
			Log()
		return nil, apperrors.ErrPhoneExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Password: hashedPassword,
	}

	if err := s.users.Create(ctx, user); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	deviceID := resolveDeviceID(req.DeviceID)
	device := &model.UserDevice{
		UserID:     user.ID,
		DeviceID:   deviceID,
		DeviceType: resolveDeviceType(req.DeviceType),
		PushToken:  req.FCMToken,
		LoggedIn:   true,
	}

	if err := s.devices.Save(ctx, device); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := s.tokens.Issue(ctx, user.ID, deviceID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, constants.AuditEventRegistered, user.ID, user.Name, meta)

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		String("device_id", deviceID).
		Log()

	return &dto.AuthResponse{
		User:     toUserResponse(user),
		Token:    token,
		DeviceID: deviceID,
	}, nil
}

// Login verifies credentials, reconciles the device registry entry for
// the calling device, and rotates that device's session token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, meta RequestMeta) (*dto.AuthResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Login")

	logger.InfoWithContext(ctx, "Login attempt").
		Log()

	user, err := s.users.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a password mismatch so callers cannot tell
			// which check failed.
			logger.InfoWithContext(ctx, "Login failed, unknown phone").
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, req.Password) {
		logger.WarnWithContext(ctx, "Login failed, wrong password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	deviceID := resolveDeviceID(req.DeviceID)

	if err := s.reconcileDevice(ctx, user.ID, deviceID, req.DeviceType, req.FCMToken); err != nil {
		return nil, err
	}

	// Token hygiene: at most one live token per device per user.
	if err := s.tokens.RevokeByLabel(ctx, user.ID, deviceID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.ID, deviceID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, constants.AuditEventLoggedIn, user.ID, user.Name, meta)

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		String("device_id", deviceID).
		Log()

	return &dto.AuthResponse{
		User:     toUserResponse(user),
		Token:    token,
		DeviceID: deviceID,
	}, nil
}

// reconcileDevice updates the registration matching deviceID in place,
// or appends a new one. Matching is exact string equality on device_id.
func (s *AuthService) reconcileDevice(ctx context.Context, userID uint, deviceID, deviceType, pushToken string) error {
	device, err := s.devices.GetByUserAndDevice(ctx, userID, deviceID)
	switch {
	case err == nil:
		device.PushToken = pushToken
		if deviceType != "" {
			device.DeviceType = deviceType
		}
		device.LoggedIn = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		device = &model.UserDevice{
			UserID:     userID,
			DeviceID:   deviceID,
			DeviceType: resolveDeviceType(deviceType),
			PushToken:  pushToken,
			LoggedIn:   true,
		}
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.devices.Save(ctx, device); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// Logout marks the device registration as logged out and revokes its
// tokens. The registration itself is retained so the push-token history
// survives for re-login. Unknown device ids are a no-op.
func (s *AuthService) Logout(ctx context.Context, userID uint, deviceID string, meta RequestMeta) error {
	ctx = ctxutil.NewContext(ctx, "service", "Logout")

	device, err := s.devices.GetByUserAndDevice(ctx, userID, deviceID)
	switch {
	case err == nil:
		device.LoggedIn = false
		if err := s.devices.Save(ctx, device); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.DebugWithContext(ctx, "Logout for unregistered device").
			Uint("user_id", userID).
			String("device_id", deviceID).
			Log()
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.tokens.RevokeByLabel(ctx, userID, deviceID); err != nil {
		return err
	}

	name := ""
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		name = user.Name
	}
	s.audit.Record(ctx, constants.AuditEventLoggedOut, userID, name, meta)

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		String("device_id", deviceID).
		Log()

	return nil
}

// CurrentUser returns the profile of the authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "CurrentUser")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toUserResponse(user)
	return &response, nil
}

// Devices returns the caller's device registry. Push tokens are not
// included in the response.
func (s *AuthService) Devices(ctx context.Context, userID uint) ([]dto.DeviceResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Devices")

	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := make([]dto.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		response = append(response, dto.DeviceResponse{
			DeviceID:   d.DeviceID,
			DeviceType: d.DeviceType,
			LoggedIn:   d.LoggedIn,
			UpdatedAt:  d.UpdatedAt,
		})
	}

	return response, nil
}

func resolveDeviceID(deviceID string) string {
	if deviceID != "" {
		return deviceID
	}
	return uuid.NewString()
}

func resolveDeviceType(deviceType string) string {
	if deviceType != "" {
		return deviceType
	}
	return constants.DefaultDeviceType
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// hashPassword hashes password using bcrypt
func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
