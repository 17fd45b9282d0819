package model

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Username  string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_username"`
	Password  string  `gorm:"type:varchar(255);not null"`
	Nickname  string  `gorm:"type:varchar(50)"`
	Bio       *string `gorm:"type:varchar(200)"`
	AvatarURL *string `gorm:"type:varchar(512)"`
	Role      string  `gorm:"type:varchar(20);not null;default:USER"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
