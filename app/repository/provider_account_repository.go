package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// providerAccountRepository implements the ProviderAccountRepository interface
type providerAccountRepository struct {
	db *gorm.DB
}

// NewProviderAccountRepository creates a new provider account repository instance
func NewProviderAccountRepository(db *gorm.DB) ProviderAccountRepository {
	return &providerAccountRepository{db: db}
}

// Create creates a new provider account row
func (r *providerAccountRepository) Create(account *models.ProviderAccount) error {
	return r.db.Create(account).Error
}

// GetByUser retrieves the credential for a user. An unlinked user yields
// (nil, nil), not an error; the resolver turns that into ErrNoCredential.
func (r *providerAccountRepository) GetByUser(userID uint) (*models.ProviderAccount, error) {
	var account models.ProviderAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByProviderUserID looks up a credential by its external identity
func (r *providerAccountRepository) GetByProviderUserID(provider, providerUserID string) (*models.ProviderAccount, error) {
	var account models.ProviderAccount
	err := r.db.Where("provider = ? AND provider_user_id = ?", provider, providerUserID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateTokens writes the refreshed token triple in a single UPDATE so a
// failed refresh can never leave a half-written credential behind. A zero
// expiresAt is stored as NULL: an unknown expiry must read as already stale,
// never as some guessed validity window.
func (r *providerAccountRepository) UpdateTokens(id uint, accessToken, refreshToken string, expiresAt time.Time) error {
	return r.db.Model(&models.ProviderAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"expires_at":    nullableExpiry(expiresAt),
		}).Error
}

func nullableExpiry(expiresAt time.Time) *time.Time {
	if expiresAt.IsZero() {
		return nil
	}
	return &expiresAt
}

// Delete removes a provider account row
func (r *providerAccountRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProviderAccount{}, id).Error
}

// DeleteByUser removes all provider accounts owned by a user
func (r *providerAccountRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ProviderAccount{}).Error
}
