package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeClaimApproved    NotificationType = "claim_approved"
	NotificationTypeClaimRejected    NotificationType = "claim_rejected"
	NotificationTypeBusinessApproved NotificationType = "business_approved"
	NotificationTypeBusinessRejected NotificationType = "business_rejected"
)

// Notification is created when a moderation decision concerns the user.
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type    NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`
	Title   string           `gorm:"type:text;not null" json:"title"`
	Content string           `gorm:"type:text;not null" json:"content"`
	Link    string           `gorm:"type:text" json:"link,omitempty"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	RelatedBusinessID *uint `gorm:"index" json:"related_business_id,omitempty"`
	RelatedClaimID    *uint `gorm:"index" json:"related_claim_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
