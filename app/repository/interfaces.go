package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetRole(id uint) (string, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	ListByPosition(positionID uint) ([]models.User, error)
}

// ProviderAccountRepository is the credential store: one row per
// (user, provider) holding the current access/refresh token pair.
type ProviderAccountRepository interface {
	Create(account *models.ProviderAccount) error
	// GetByUser returns (nil, nil) when the user has no linked identity.
	GetByUser(userID uint) (*models.ProviderAccount, error)
	GetByProviderUserID(provider, providerUserID string) (*models.ProviderAccount, error)
	// UpdateTokens writes the token triple as one atomic update.
	UpdateTokens(id uint, accessToken, refreshToken string, expiresAt time.Time) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
}

// DepartmentRepository defines the interface for department CRUD
type DepartmentRepository interface {
	Create(department *models.Department) error
	GetByID(id uint) (*models.Department, error)
	GetAll() ([]models.Department, error)
	GetChildren(parentID uint) ([]models.Department, error)
	Update(department *models.Department) error
	Delete(id uint) error
	Count() (int64, error)
}

// PositionRepository defines the interface for position CRUD
type PositionRepository interface {
	Create(position *models.Position) error
	GetByID(id uint) (*models.Position, error)
	GetByDepartment(departmentID uint) ([]models.Position, error)
	GetAll() ([]models.Position, error)
	Update(position *models.Position) error
	Delete(id uint) error
}

// SharePointSiteRepository defines the interface for registered SharePoint sites
type SharePointSiteRepository interface {
	Create(site *models.SharePointSite) error
	GetByID(id uint) (*models.SharePointSite, error)
	GetBySiteID(siteID string) (*models.SharePointSite, error)
	GetAll() ([]models.SharePointSite, error)
	Update(site *models.SharePointSite) error
	Delete(id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User            UserRepository
	ProviderAccount ProviderAccountRepository
	Department      DepartmentRepository
	Position        PositionRepository
	SharePointSite  SharePointSiteRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		ProviderAccount: NewProviderAccountRepository(db),
		Department:      NewDepartmentRepository(db),
		Position:        NewPositionRepository(db),
		SharePointSite:  NewSharePointSiteRepository(db),
	}
}
