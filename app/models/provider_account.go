package models

import "time"

// ProviderAccount stores the Microsoft identity linked to a user together
// with its current access/refresh token pair. At most one row exists per
// (provider, provider user id). The access token is short-lived; the refresh
// token is the single live value and is rotated by the provider on use.
type ProviderAccount struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index" json:"user_id"`
	Provider       string     `gorm:"index:provider_uid,unique;type:varchar(50)" json:"provider"`
	ProviderUserID string     `gorm:"index:provider_uid,unique;type:varchar(191)" json:"provider_user_id"`
	AccessToken    string     `gorm:"type:text" json:"-"`
	RefreshToken   string     `gorm:"type:text" json:"-"`
	ExpiresAt      *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TokenExpiresWithin reports whether the access token expires inside the
// given buffer window. A nil expiry is treated as already expired so that a
// refresh is forced before the token is ever handed out.
func (pa *ProviderAccount) TokenExpiresWithin(buffer time.Duration) bool {
	if pa.ExpiresAt == nil {
		return true
	}
	return time.Until(*pa.ExpiresAt) <= buffer
}
