package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/centrex/auth-service/internal/constants"
	"github.com/centrex/auth-service/internal/dto"
	apperrors "github.com/centrex/auth-service/internal/errors"
	"github.com/centrex/auth-service/pkg/logger"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

type authFixture struct {
	auth    *AuthService
	users   *fakeUserStore
	devices *fakeDeviceStore
	tokens  *fakeTokenStore
	audit   *fakeAuditStore
	tokenSv *TokenService
}

func newAuthFixture() *authFixture {
	users := newFakeUserStore()
	devices := newFakeDeviceStore()
	tokens := newFakeTokenStore()
	audit := &fakeAuditStore{}

	tokenSv := NewTokenService(tokens, nil, "test-secret", time.Hour)
	auditSv := NewAuditService(audit)

	return &authFixture{
		auth:    NewAuthService(users, devices, tokenSv, auditSv),
		users:   users,
		devices: devices,
		tokens:  tokens,
		audit:   audit,
		tokenSv: tokenSv,
	}
}

func registerRequest(phone, deviceID string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:       "Test User",
		Phone:      phone,
		Password:   "secret-password",
		DeviceID:   deviceID,
		DeviceType: "android",
		FCMToken:   "fcm-initial",
	}
}

func loginRequest(phone, deviceID, fcmToken string) *dto.LoginRequest {
	return &dto.LoginRequest{
		Phone:    phone,
		Password: "secret-password",
		DeviceID: deviceID,
		FCMToken: fcmToken,
	}
}

func testMeta() RequestMeta {
	return RequestMeta{IP: "192.0.2.10", Host: "api.example.test", UserAgent: "test-agent"}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.Token == "" {
		t.Error("Register() returned empty token")
	}
	if resp.DeviceID != "dev-1" {
		t.Errorf("Register() device id = %q, want %q", resp.DeviceID, "dev-1")
	}
	if resp.User.Phone != "01712345678" {
		t.Errorf("Register() phone = %q, want %q", resp.User.Phone, "01712345678")
	}

	device, err := f.devices.GetByUserAndDevice(ctx, resp.User.ID, "dev-1")
	if err != nil {
		t.Fatalf("device registration missing: %v", err)
	}
	if !device.LoggedIn {
		t.Error("device should be logged in after registration")
	}
	if device.PushToken != "fcm-initial" {
		t.Errorf("push token = %q, want %q", device.PushToken, "fcm-initial")
	}

	userID, deviceID, err := f.tokenSv.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("issued token rejected: %v", err)
	}
	if userID != resp.User.ID || deviceID != "dev-1" {
		t.Errorf("Authenticate() = (%d, %q), want (%d, %q)", userID, deviceID, resp.User.ID, "dev-1")
	}

	events := f.audit.events()
	if len(events) != 1 || events[0] != constants.AuditEventRegistered {
		t.Errorf("audit events = %v, want [%s]", events, constants.AuditEventRegistered)
	}
}

func TestRegisterGeneratesDeviceID(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.auth.Register(context.Background(), registerRequest("01712345678", ""), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.DeviceID == "" {
		t.Error("Register() should generate a device id when none is supplied")
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-2"), testMeta())
	if !errors.Is(err, apperrors.ErrPhoneExists) {
		t.Fatalf("duplicate Register() error = %v, want ErrPhoneExists", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name string
		req  *dto.LoginRequest
	}{
		{
			name: "unknown phone",
			req:  loginRequest("01799999999", "dev-1", "fcm-x"),
		},
		{
			name: "wrong password",
			req: &dto.LoginRequest{
				Phone:    "01712345678",
				Password: "not-the-password",
				DeviceID: "dev-1",
				FCMToken: "fcm-x",
			},
		},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, tt.req, testMeta())
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
			}
			messages = append(messages, apperrors.GetErrorMessage(err))
		})
	}

	// Both failure modes must present the same message so callers cannot
	// probe which phone numbers are registered.
	if len(messages) == 2 && messages[0] != messages[1] {
		t.Errorf("failure messages differ: %q vs %q", messages[0], messages[1])
	}
}

func TestLoginSameDeviceUpdatesInPlace(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	login, err := f.auth.Login(ctx, loginRequest("01712345678", "dev-1", "fcm-rotated"), testMeta())
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	devices, err := f.devices.ListByUser(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("device count = %d, want 1 (same device must update in place)", len(devices))
	}
	if devices[0].PushToken != "fcm-rotated" {
		t.Errorf("push token = %q, want %q", devices[0].PushToken, "fcm-rotated")
	}

	// Re-login rotates the session: the old token must stop working.
	if _, _, err := f.tokenSv.Authenticate(ctx, reg.Token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("old token after re-login: error = %v, want ErrInvalidToken", err)
	}
	if _, _, err := f.tokenSv.Authenticate(ctx, login.Token); err != nil {
		t.Errorf("new token rejected: %v", err)
	}

	if got := f.tokens.count(); got != 1 {
		t.Errorf("live token count = %d, want 1", got)
	}
}

func TestLoginNewDeviceAppends(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	login, err := f.auth.Login(ctx, loginRequest("01712345678", "dev-2", "fcm-second"), testMeta())
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	devices, err := f.devices.ListByUser(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("device count = %d, want 2", len(devices))
	}

	// Sessions are independent per device.
	if _, _, err := f.tokenSv.Authenticate(ctx, reg.Token); err != nil {
		t.Errorf("dev-1 token rejected after dev-2 login: %v", err)
	}
	if _, _, err := f.tokenSv.Authenticate(ctx, login.Token); err != nil {
		t.Errorf("dev-2 token rejected: %v", err)
	}
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := f.auth.Logout(ctx, reg.User.ID, "dev-1", testMeta()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	device, err := f.devices.GetByUserAndDevice(ctx, reg.User.ID, "dev-1")
	if err != nil {
		t.Fatalf("device registration was removed on logout: %v", err)
	}
	if device.LoggedIn {
		t.Error("device should be marked logged out")
	}
	if device.PushToken != "fcm-initial" {
		t.Errorf("push token should survive logout, got %q", device.PushToken)
	}

	if _, _, err := f.tokenSv.Authenticate(ctx, reg.Token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("token after logout: error = %v, want ErrInvalidToken", err)
	}

	// Logout is idempotent.
	if err := f.auth.Logout(ctx, reg.User.ID, "dev-1", testMeta()); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestLogoutUnknownDevice(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := f.auth.Logout(ctx, reg.User.ID, "never-seen", testMeta()); err != nil {
		t.Errorf("Logout() for unknown device = %v, want nil", err)
	}
}

func TestLogoutLeavesOtherDevicesAlone(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	login, err := f.auth.Login(ctx, loginRequest("01712345678", "dev-2", "fcm-second"), testMeta())
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := f.auth.Logout(ctx, reg.User.ID, "dev-1", testMeta()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, _, err := f.tokenSv.Authenticate(ctx, login.Token); err != nil {
		t.Errorf("dev-2 token rejected after dev-1 logout: %v", err)
	}

	dev2, err := f.devices.GetByUserAndDevice(ctx, reg.User.ID, "dev-2")
	if err != nil {
		t.Fatalf("dev-2 registration missing: %v", err)
	}
	if !dev2.LoggedIn {
		t.Error("dev-2 should stay logged in after dev-1 logout")
	}
}

func TestDevicesOmitsPushTokens(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	devices, err := f.auth.Devices(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("Devices() count = %d, want 1", len(devices))
	}
	if devices[0].DeviceID != "dev-1" || !devices[0].LoggedIn {
		t.Errorf("Devices()[0] = %+v", devices[0])
	}
}

func TestCurrentUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, registerRequest("01712345678", "dev-1"), testMeta())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := f.auth.CurrentUser(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Phone != "01712345678" || user.Name != "Test User" {
		t.Errorf("CurrentUser() = %+v", user)
	}

	if _, err := f.auth.CurrentUser(ctx, 9999); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("CurrentUser(unknown) error = %v, want ErrUnauthorized", err)
	}
}
