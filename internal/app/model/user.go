package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"  // utilisateur régulier
	RoleAdmin UserRole = "admin" // modérateur du répertoire
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Fiches dont l'utilisateur est propriétaire (réclamations approuvées).
	Businesses []Business `gorm:"foreignKey:OwnerID" json:"businesses,omitempty"`
}

func (User) TableName() string {
	return "users"
}
