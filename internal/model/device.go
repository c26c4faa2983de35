package model

import (
	"gorm.io/gorm"
)

// UserDevice is one device registration in a user's device registry.
// Each device lives in its own row so concurrent logins from different
// devices update independent records instead of racing on a shared
// device-list field.
type UserDevice struct {
	gorm.Model
	UserID     uint   `gorm:"column:user_id;uniqueIndex:idx_user_device;not null"`
	DeviceID   string `gorm:"column:device_id;size:191;uniqueIndex:idx_user_device;not null"`
	DeviceType string `gorm:"column:device_type;size:32;default:unknown"`
	PushToken  string `gorm:"column:push_token;size:512"`
	LoggedIn   bool   `gorm:"column:logged_in;default:false"`
}
