package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Department is a node in the organizational tree. ParentID is nil for
// top-level departments.
type Department struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Description string         `gorm:"type:text" json:"description" validate:"max=1000"`
	ParentID    *uint          `gorm:"index" json:"parent_id,omitempty"`
	Parent      *Department    `gorm:"constraint:OnDelete:SET NULL" json:"parent,omitempty"`
	Positions   []Position     `json:"positions,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Department) Validate() error {
	v := validator.New()

	return v.Struct(d)
}
