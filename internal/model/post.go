package model

import (
	"time"
)

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	GroupID   *uint64   `gorm:"index:idx_group_id" json:"group_id"` // 可空，组被删除后置空
	Text      string    `gorm:"type:text;not null" json:"text"`
	ImageURL  *string   `gorm:"type:varchar(512)" json:"image_url"`
	CreatedAt time.Time `json:"created_at"` // 创建后不可变
	UpdatedAt time.Time `json:"updated_at"`

	// 关联关系
	User  User   `gorm:"foreignKey:UserID;references:ID"`
	Group *Group `gorm:"foreignKey:GroupID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}
