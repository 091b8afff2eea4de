package msgraph

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// DefaultExpiryBuffer is how long before the stored expiry a token is already
// treated as stale. Refreshing early keeps a token from dying mid-request.
const DefaultExpiryBuffer = 5 * time.Minute

// CredentialStore is the slice of the provider-account repository the
// resolver needs. GetByUser returns (nil, nil) when the user has no linked
// Microsoft identity. UpdateTokens must write the full token triple as one
// atomic update.
type CredentialStore interface {
	GetByUser(userID uint) (*models.ProviderAccount, error)
	UpdateTokens(id uint, accessToken, refreshToken string, expiresAt time.Time) error
}

// TokenResolver returns a currently valid access token for a user, refreshing
// and persisting a new pair when the cached one is expired or near expiry.
// It is the single entry point every Graph call goes through.
//
// Concurrent resolutions for the same user are collapsed into one refresh via
// singleflight: Microsoft rotates refresh tokens, so two racing refreshes
// would invalidate one caller's token. Beyond the guard, last-writer-wins on
// the credential row is accepted.
type TokenResolver struct {
	store     CredentialStore
	refresher Refresher
	buffer    time.Duration

	// tokens caches resolved access tokens in-process so the common path
	// skips the database entirely. Entries expire at expiresAt - buffer;
	// reads must not extend that deadline, it is anchored to the real
	// token lifetime.
	tokens *ttlcache.Cache[uint, string]
	group  singleflight.Group
}

func NewTokenResolver(store CredentialStore, refresher Refresher) *TokenResolver {
	return &TokenResolver{
		store:     store,
		refresher: refresher,
		buffer:    DefaultExpiryBuffer,
		tokens: ttlcache.New[uint, string](
			ttlcache.WithDisableTouchOnHit[uint, string](),
		),
	}
}

// Resolve returns a valid access token for the user or fails with
// ErrNoCredential / ErrRefreshFailed.
func (r *TokenResolver) Resolve(ctx context.Context, userID uint) (string, error) {
	if item := r.tokens.Get(userID); item != nil {
		return item.Value(), nil
	}
	return r.resolve(ctx, userID, false)
}

// ForceRefresh discards any cached token and performs a refresh regardless of
// the stored expiry. Used by the Graph client after a 401.
func (r *TokenResolver) ForceRefresh(ctx context.Context, userID uint) (string, error) {
	r.tokens.Delete(userID)
	return r.resolve(ctx, userID, true)
}

func (r *TokenResolver) resolve(ctx context.Context, userID uint, force bool) (string, error) {
	key := strconv.FormatUint(uint64(userID), 10)
	if force {
		key = "force:" + key
	}

	token, err, _ := r.group.Do(key, func() (interface{}, error) {
		cred, err := r.store.GetByUser(userID)
		if err != nil {
			return "", fmt.Errorf("load credential: %w", err)
		}
		if cred == nil {
			return "", ErrNoCredential
		}

		if !force && !cred.TokenExpiresWithin(r.buffer) {
			r.cacheToken(userID, cred.AccessToken, *cred.ExpiresAt)
			return cred.AccessToken, nil
		}

		set, err := r.refresher.Refresh(ctx, cred.RefreshToken)
		if err != nil {
			// Credential row stays untouched: a transient outage must not
			// force the user through a full re-authentication.
			return "", err
		}

		// The provider may omit a rotated refresh token; keep the old one.
		refreshToken := set.RefreshToken
		if refreshToken == "" {
			refreshToken = cred.RefreshToken
		}

		if err := r.store.UpdateTokens(cred.ID, set.AccessToken, refreshToken, set.ExpiresAt); err != nil {
			return "", fmt.Errorf("persist refreshed tokens: %w", err)
		}

		r.cacheToken(userID, set.AccessToken, set.ExpiresAt)
		return set.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (r *TokenResolver) cacheToken(userID uint, accessToken string, expiresAt time.Time) {
	ttl := time.Until(expiresAt) - r.buffer
	if ttl <= 0 {
		return
	}
	r.tokens.Set(userID, accessToken, ttl)
}
