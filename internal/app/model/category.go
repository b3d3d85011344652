package model

import (
	"time"
)

// Category is a main directory category. Static reference data, rarely
// mutated; labels are kept in both locales.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	LabelFR   string    `gorm:"not null" json:"label_fr"` // libellé français
	LabelEN   string    `gorm:"not null" json:"label_en"`
	IsDefault bool      `gorm:"default:false" json:"is_default"` // panier « Autres »
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SubCategories []SubCategory `gorm:"foreignKey:CategoryID" json:"sub_categories,omitempty"`
}

func (Category) TableName() string {
	return "main_categories"
}

// SubCategory refines a main category.
type SubCategory struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	LabelFR    string    `gorm:"not null" json:"label_fr"`
	LabelEN    string    `gorm:"not null" json:"label_en"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}

// CodeMapping maps a normalized 4-digit activity code to a category.
// Read-only reference data populated by curation scripts.
type CodeMapping struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	Code       string  `gorm:"type:varchar(4);uniqueIndex;not null" json:"code"`
	CategoryID uint    `gorm:"not null;index" json:"category_id"`
	Confidence float64 `gorm:"default:1" json:"confidence"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (CodeMapping) TableName() string {
	return "code_mappings"
}
