package msgraph

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

type fakeCredentialStore struct {
	mu      sync.Mutex
	cred    *models.ProviderAccount
	getErr  error
	updates []tokenUpdate
}

type tokenUpdate struct {
	id           uint
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func (s *fakeCredentialStore) GetByUser(userID uint) (*models.ProviderAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cred == nil {
		return nil, nil
	}
	cp := *s.cred
	return &cp, nil
}

func (s *fakeCredentialStore) UpdateTokens(id uint, accessToken, refreshToken string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, tokenUpdate{id, accessToken, refreshToken, expiresAt})
	s.cred.AccessToken = accessToken
	s.cred.RefreshToken = refreshToken
	s.cred.ExpiresAt = &expiresAt
	return nil
}

type fakeRefresher struct {
	calls int32
	set   *TokenSet
	err   error
	// delay lets concurrency tests hold the refresh open so every goroutine
	// piles onto the same singleflight call.
	delay time.Duration
}

func (r *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	atomic.AddInt32(&r.calls, 1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	cp := *r.set
	return &cp, nil
}

func validCredential(expiresIn time.Duration) *models.ProviderAccount {
	exp := time.Now().Add(expiresIn)
	return &models.ProviderAccount{
		ID:           7,
		UserID:       42,
		Provider:     "azureadv2",
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		ExpiresAt:    &exp,
	}
}

func TestTokenResolverResolve_NoCredential(t *testing.T) {
	resolver := NewTokenResolver(&fakeCredentialStore{}, &fakeRefresher{})

	_, err := resolver.Resolve(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestTokenResolverResolve_FreshTokenServedWithoutRefresh(t *testing.T) {
	store := &fakeCredentialStore{cred: validCredential(time.Hour)}
	refresher := &fakeRefresher{}
	resolver := NewTokenResolver(store, refresher)

	token, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "stored-access", token)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refresher.calls))
	assert.Empty(t, store.updates)

	// Second resolve hits the in-process cache; wipe the store to prove it.
	store.mu.Lock()
	store.cred = nil
	store.mu.Unlock()

	token, err = resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "stored-access", token)
}

func TestTokenResolverResolve_NearExpiryTriggersRefresh(t *testing.T) {
	// Expiry inside the 5-minute buffer counts as stale.
	store := &fakeCredentialStore{cred: validCredential(time.Minute)}
	refresher := &fakeRefresher{set: &TokenSet{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	resolver := NewTokenResolver(store, refresher)

	token, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))

	require.Len(t, store.updates, 1)
	assert.Equal(t, uint(7), store.updates[0].id)
	assert.Equal(t, "fresh-access", store.updates[0].accessToken)
	assert.Equal(t, "fresh-refresh", store.updates[0].refreshToken)

	// An immediate follow-up resolve reuses the refreshed token.
	token, err = resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
}

func TestTokenResolverResolve_CacheHitsDoNotExtendTokenLifetime(t *testing.T) {
	// The cached entry dies 200ms from now (stored expiry minus buffer).
	store := &fakeCredentialStore{cred: validCredential(DefaultExpiryBuffer + 200*time.Millisecond)}
	refresher := &fakeRefresher{set: &TokenSet{
		AccessToken:  "fresh-access",
		RefreshToken: "fresh-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	resolver := NewTokenResolver(store, refresher)

	token, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "stored-access", token)

	// Poll across the deadline the way per-request resolution does. The
	// cache hits must not push the entry's lifetime out, so once the
	// deadline passes the resolver has to fall through to a refresh.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		token, err = resolver.Resolve(context.Background(), 42)
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
	}

	assert.Equal(t, "fresh-access", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
	require.Len(t, store.updates, 1)
}

func TestTokenResolverResolve_NilExpiryTriggersRefresh(t *testing.T) {
	cred := validCredential(time.Hour)
	cred.ExpiresAt = nil
	store := &fakeCredentialStore{cred: cred}
	refresher := &fakeRefresher{set: &TokenSet{
		AccessToken: "fresh-access",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	resolver := NewTokenResolver(store, refresher)

	token, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
}

func TestTokenResolverResolve_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	store := &fakeCredentialStore{cred: validCredential(time.Minute)}
	refresher := &fakeRefresher{set: &TokenSet{
		AccessToken: "fresh-access",
		// RefreshToken deliberately empty: the provider did not rotate.
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	resolver := NewTokenResolver(store, refresher)

	_, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	assert.Equal(t, "stored-refresh", store.updates[0].refreshToken)
}

func TestTokenResolverResolve_RefreshFailureLeavesStoreUntouched(t *testing.T) {
	store := &fakeCredentialStore{cred: validCredential(time.Minute)}
	refresher := &fakeRefresher{err: &RefreshError{StatusCode: 400, Body: "invalid_grant"}}
	resolver := NewTokenResolver(store, refresher)

	_, err := resolver.Resolve(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Empty(t, store.updates)
}

func TestTokenResolverForceRefresh_IgnoresStoredExpiry(t *testing.T) {
	store := &fakeCredentialStore{cred: validCredential(time.Hour)}
	refresher := &fakeRefresher{set: &TokenSet{
		AccessToken:  "forced-access",
		RefreshToken: "forced-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	resolver := NewTokenResolver(store, refresher)

	// Warm the cache with the stored token first.
	token, err := resolver.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "stored-access", token)

	token, err = resolver.ForceRefresh(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "forced-access", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
	require.Len(t, store.updates, 1)
}

func TestTokenResolverResolve_ConcurrentCallsShareOneRefresh(t *testing.T) {
	store := &fakeCredentialStore{cred: validCredential(time.Minute)}
	refresher := &fakeRefresher{
		set: &TokenSet{
			AccessToken:  "fresh-access",
			RefreshToken: "fresh-refresh",
			ExpiresAt:    time.Now().Add(time.Hour),
		},
		delay: 50 * time.Millisecond,
	}
	resolver := NewTokenResolver(store, refresher)

	const workers = 16
	var wg sync.WaitGroup
	tokens := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = resolver.Resolve(context.Background(), 42)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "fresh-access", tokens[i])
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
	assert.Len(t, store.updates, 1)
}

func TestTokenResolverResolve_StoreErrorPropagates(t *testing.T) {
	store := &fakeCredentialStore{getErr: errors.New("db gone")}
	resolver := NewTokenResolver(store, &fakeRefresher{})

	_, err := resolver.Resolve(context.Background(), 42)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredential)
}
