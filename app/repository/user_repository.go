package repository

import (
	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Position").Preload("Position.Department").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRole reads only the authoritative role column for a user. Used by the
// session bridge on every request, so it stays a single-column select.
func (r *userRepository) GetRole(id uint) (string, error) {
	var role string
	err := r.db.Model(&models.User{}).Where("id = ?", id).Pluck("role", &role).Error
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", gorm.ErrRecordNotFound
	}
	return role, nil
}

// Update persists changes to an existing user
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user and their linked provider account
func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.ProviderAccount{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// List returns users with pagination
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Position").Offset(offset).Limit(limit).Order("name asc").Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Search finds users by name or email fragment
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.Preload("Position").
		Where("name LIKE ? OR email LIKE ?", pattern, pattern).
		Order("name asc").
		Find(&users).Error
	return users, err
}

// ListByPosition returns all users holding the given position
func (r *userRepository) ListByPosition(positionID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("position_id = ?", positionID).Order("name asc").Find(&users).Error
	return users, err
}
