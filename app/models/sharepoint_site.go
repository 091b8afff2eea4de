package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SharePointSite is a SharePoint site registered in the portal. SiteID is the
// Microsoft Graph site identifier; only registered sites are browsable from
// the drive views.
type SharePointSite struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SiteID      string         `gorm:"uniqueIndex;type:varchar(255)" json:"site_id" validate:"required"`
	DisplayName string         `gorm:"type:varchar(200)" json:"display_name" validate:"required,min=2,max=200"`
	WebURL      string         `gorm:"type:varchar(500)" json:"web_url" validate:"max=500"`
	Description string         `gorm:"type:text" json:"description" validate:"max=1000"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *SharePointSite) Validate() error {
	v := validator.New()

	return v.Struct(s)
}
