package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"column:name;not null"`
	Phone    string `gorm:"column:phone;size:11;uniqueIndex;not null"`
	Password string `gorm:"column:password;not null"`

	Devices []UserDevice `gorm:"foreignKey:UserID"`
}
