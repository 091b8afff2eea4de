package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// sharePointSiteRepository implements the SharePointSiteRepository interface
type sharePointSiteRepository struct {
	db *gorm.DB
}

// NewSharePointSiteRepository creates a new site repository instance
func NewSharePointSiteRepository(db *gorm.DB) SharePointSiteRepository {
	return &sharePointSiteRepository{db: db}
}

// Create registers a new SharePoint site in the portal
func (r *sharePointSiteRepository) Create(site *models.SharePointSite) error {
	return r.db.Create(site).Error
}

// GetByID retrieves a registered site by its portal id
func (r *sharePointSiteRepository) GetByID(id uint) (*models.SharePointSite, error) {
	var site models.SharePointSite
	err := r.db.First(&site, id).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// GetBySiteID retrieves a registered site by its Graph site identifier.
// Returns (nil, nil) when the site is not registered.
func (r *sharePointSiteRepository) GetBySiteID(siteID string) (*models.SharePointSite, error) {
	var site models.SharePointSite
	err := r.db.Where("site_id = ?", siteID).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// GetAll returns all registered sites ordered by display name
func (r *sharePointSiteRepository) GetAll() ([]models.SharePointSite, error) {
	var sites []models.SharePointSite
	err := r.db.Order("display_name asc").Find(&sites).Error
	return sites, err
}

// Update persists changes to a registered site
func (r *sharePointSiteRepository) Update(site *models.SharePointSite) error {
	return r.db.Save(site).Error
}

// Delete removes a site registration
func (r *sharePointSiteRepository) Delete(id uint) error {
	return r.db.Delete(&models.SharePointSite{}, id).Error
}
