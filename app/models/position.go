package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Position is a job title inside a department. Rank orders positions within
// their department for directory listings (lower rank first).
type Position struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(150)" json:"title" validate:"required,min=2,max=150"`
	DepartmentID uint           `gorm:"index" json:"department_id" validate:"required"`
	Department   *Department    `json:"department,omitempty"`
	Rank         int            `gorm:"default:0" json:"rank"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Position) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
