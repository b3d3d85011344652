package model

import (
	"time"

	"gorm.io/gorm"
)

// Claim is a user's assertion of ownership over a listing. It is reviewed by
// an admin before edit rights are granted.
type Claim struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID uint     `gorm:"not null;index" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID" json:"-"`

	// Méthode de vérification : document, phone ou email.
	Method   string `gorm:"type:varchar(20);not null" json:"method"`
	ProofURL string `gorm:"type:text" json:"proof_url,omitempty"` // pièce justificative (S3)
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	Status          string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
}

func (Claim) TableName() string {
	return "business_claims"
}

const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

const (
	ClaimMethodDocument = "document"
	ClaimMethodPhone    = "phone"
	ClaimMethodEmail    = "email"
)
