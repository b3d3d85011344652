package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BusinessStatus is the moderation state of a listing.
type BusinessStatus string

const (
	BusinessStatusPending  BusinessStatus = "pending"  // soumis, en attente de modération
	BusinessStatusApproved BusinessStatus = "approved" // visible publiquement
	BusinessStatusRejected BusinessStatus = "rejected" // refusé par un modérateur
)

// BusinessSource records where a listing came from.
type BusinessSource string

const (
	SourceImport BusinessSource = "import" // fichier du registraire des entreprises
	SourceManual BusinessSource = "manual" // soumission d'un utilisateur
)

// Business is a directory listing. NEQ is the Québec enterprise number; it is
// nil for manually submitted listings and is the natural key for dedup.
type Business struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	NEQ         *string `gorm:"type:varchar(10);index" json:"neq,omitempty"` // numéro d'entreprise du Québec
	Name        string  `gorm:"not null" json:"name"`                        // nom de l'entreprise
	Slug        *string `gorm:"uniqueIndex" json:"slug,omitempty"`           // identifiant URL (SEO); NULL tant que non généré
	Street      string  `gorm:"type:text" json:"street,omitempty"`
	City        string  `gorm:"index" json:"city,omitempty"`
	Region      string  `gorm:"index" json:"region,omitempty"` // région administrative
	PostalCode  string  `gorm:"type:varchar(7)" json:"postal_code,omitempty"`
	Phone       string  `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Website     string  `json:"website,omitempty"`
	Description string  `gorm:"type:text" json:"description,omitempty"`

	// Classification. RawCode is the ACT_ECON/SCIAN code as imported; the
	// category reference is derived from it by the cleanup pipeline.
	// Invariant: RawCode == nil implies CategoryID == nil.
	RawCode    *string   `gorm:"type:varchar(10)" json:"raw_code,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`

	// Languages spoken at the establishment, e.g. {"fr","en"}.
	Languages pq.StringArray `gorm:"type:text[]" json:"languages,omitempty"`

	// Claim state. OwnerID is set when a claim is approved.
	IsClaimed bool  `gorm:"default:false;index" json:"is_claimed"`
	OwnerID   *uint `gorm:"index" json:"owner_id,omitempty"`
	Owner     *User `gorm:"foreignKey:OwnerID" json:"-"`

	Status BusinessStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Source BusinessSource `gorm:"type:varchar(20);default:'import'" json:"source"`

	// Enrichment fields filled by the Places/OpenAI jobs.
	GooglePlaceID *string  `gorm:"type:varchar(100)" json:"google_place_id,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}
