package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records an authentication event together with the request
// metadata (ip, host, user agent) captured at the time of the event.
type AuditLog struct {
	gorm.Model
	UserID  uint           `gorm:"column:user_id;index"`
	Event   string         `gorm:"column:event;size:64;index;not null"`
	Details datatypes.JSON `gorm:"column:details"`
}
