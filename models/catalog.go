package models

import (
	"time"

	"gorm.io/gorm"
)

type Catalog struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []CatalogQuestion `json:"questions,omitempty" gorm:"foreignKey:CatalogID"`
}

type CatalogQuestion struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CatalogID     uint           `json:"catalog_id" gorm:"not null"`
	Text          string         `json:"text" gorm:"not null"`
	AllowMultiple bool           `json:"allow_multiple" gorm:"not null;default:false"`
	Order         int            `json:"order" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Catalog Catalog         `json:"catalog,omitempty"`
	Options []CatalogOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type CatalogOption struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuestionID uint           `json:"question_id" gorm:"not null"`
	Text       string         `json:"text" gorm:"not null"`
	Order      int            `json:"order" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Question CatalogQuestion `json:"question,omitempty"`
}
