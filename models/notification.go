package models

import "time"

type Notification struct {
	NotificationID uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         uint       `gorm:"column:user_id;index" json:"user_id"`
	Title          string     `gorm:"column:title;type:varchar(255)" json:"title"`
	Message        string     `gorm:"column:message;type:text" json:"message"`
	Type           string     `gorm:"column:type;type:varchar(16)" json:"type"` // info|success|warning|error
	RelatedIdeaID  *string    `gorm:"column:related_idea_id;type:char(36)" json:"related_idea_id,omitempty"`
	IsRead         bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
