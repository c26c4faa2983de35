package service

import (
	"context"
	"encoding/json"

	"github.com/centrex/auth-service/internal/model"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"gorm.io/datatypes"
)

// AuditStore persists audit entries.
type AuditStore interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}

// RequestMeta is the request metadata attached to every audit entry.
type RequestMeta struct {
	IP        string `json:"ip"`
	Host      string `json:"host"`
	UserAgent string `json:"user_agent"`
}

// AuditService records authentication events. It is called directly at
// the point of the event; failures are logged and never propagated, so
// a broken audit sink cannot fail a login.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

type auditDetails struct {
	Name string `json:"name"`
	RequestMeta
}

// Record writes one audit entry to the log sink and the audit table.
func (s *AuditService) Record(ctx context.Context, event string, userID uint, name string, meta RequestMeta) {
	ctx = ctxutil.NewContext(ctx, "service", "Record")

	logger.InfoWithContext(ctx, "Auth event").
		String("event", event).
		Uint("user_id", userID).
		String("name", name).
		String("ip", meta.IP).
		String("host", meta.Host).
		String("remote_user_agent", meta.UserAgent).
		Log()

	if s.store == nil {
		return
	}

	details, err := json.Marshal(auditDetails{Name: name, RequestMeta: meta})
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to encode audit details").
			String("event", event).
			Err(err).
			Log()
		return
	}

	entry := &model.AuditLog{
		UserID:  userID,
		Event:   event,
		Details: datatypes.JSON(details),
	}

	if err := s.store.Create(ctx, entry); err != nil {
		logger.WarnWithContext(ctx, "Failed to persist audit entry").
			String("event", event).
			Uint("user_id", userID).
			Err(err).
			Log()
	}
}
