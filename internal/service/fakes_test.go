package service

import (
	"context"
	"sync"
	"time"

	"github.com/centrex/auth-service/internal/model"
	"gorm.io/gorm"
)

// In-memory fakes for the store interfaces. They mimic the repository
// contract: lookups return gorm.ErrRecordNotFound when nothing matches.

type fakeUserStore struct {
	mu     sync.Mutex
	users  []*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1}
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

type fakeDeviceStore struct {
	mu      sync.Mutex
	devices []*model.UserDevice
	nextID  uint
}

func newFakeDeviceStore() *fakeDeviceStore {
	return &fakeDeviceStore{nextID: 1}
}

func (s *fakeDeviceStore) GetByUserAndDevice(_ context.Context, userID uint, deviceID string) (*model.UserDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if d.UserID == userID && d.DeviceID == deviceID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeDeviceStore) ListByUser(_ context.Context, userID uint) ([]model.UserDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.UserDevice
	for _, d := range s.devices {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDeviceStore) Save(_ context.Context, device *model.UserDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if device.ID != 0 {
		for i, d := range s.devices {
			if d.ID == device.ID {
				device.UpdatedAt = time.Now()
				copied := *device
				s.devices[i] = &copied
				return nil
			}
		}
	}
	device.ID = s.nextID
	s.nextID++
	device.UpdatedAt = time.Now()
	copied := *device
	s.devices = append(s.devices, &copied)
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens []*model.SessionToken
	nextID uint
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{nextID: 1}
}

func (s *fakeTokenStore) Create(_ context.Context, token *model.SessionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.ID = s.nextID
	s.nextID++
	copied := *token
	s.tokens = append(s.tokens, &copied)
	return nil
}

func (s *fakeTokenStore) GetByHash(_ context.Context, tokenHash string) (*model.SessionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.TokenHash == tokenHash {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeTokenStore) ListByUserAndLabel(_ context.Context, userID uint, label string) ([]model.SessionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SessionToken
	for _, t := range s.tokens {
		if t.UserID == userID && t.Label == label {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTokenStore) DeleteByUserAndLabel(_ context.Context, userID uint, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tokens[:0]
	for _, t := range s.tokens {
		if !(t.UserID == userID && t.Label == label) {
			kept = append(kept, t)
		}
	}
	s.tokens = kept
	return nil
}

func (s *fakeTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []*model.AuditLog
}

func (s *fakeAuditStore) Create(_ context.Context, entry *model.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

func (s *fakeAuditStore) events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Event)
	}
	return out
}
