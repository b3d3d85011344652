package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is a user review of a listing, moderated before publication.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID uint     `gorm:"not null;index:idx_business_user_review,unique" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserID     uint     `gorm:"not null;index:idx_business_user_review,unique" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID" json:"-"`

	Rating  int    `gorm:"not null" json:"rating"` // 1 à 5
	Comment string `gorm:"type:text" json:"comment,omitempty"`
	Status  string `gorm:"type:varchar(20);default:'pending';index" json:"status"`
}

func (Review) TableName() string {
	return "reviews"
}

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)
