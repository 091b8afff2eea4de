package msgraph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenSource hands out a fixed token and counts forced refreshes.
type fakeTokenSource struct {
	token        string
	forcedToken  string
	resolveErr   error
	refreshErr   error
	forceCount   int32
	resolveCount int32
}

func (f *fakeTokenSource) Resolve(ctx context.Context, userID uint) (string, error) {
	atomic.AddInt32(&f.resolveCount, 1)
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.token, nil
}

func (f *fakeTokenSource) ForceRefresh(ctx context.Context, userID uint) (string, error) {
	atomic.AddInt32(&f.forceCount, 1)
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return f.forcedToken, nil
}

func newTestClient(baseURL string, tokens TokenSource) *Client {
	return NewClient(Config{BaseURL: baseURL}, tokens)
}

func TestClientDo_RetriesOnceAfter401(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"me","displayName":"Jo"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokenSource{token: "stale", forcedToken: "fresh"}
	client := newTestClient(srv.URL, tokens)

	profile, err := client.Me(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Jo", profile.DisplayName)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&tokens.forceCount))
}

func TestClientDo_SecondUnauthorizedSurfacesAsAuthExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokenSource{token: "stale", forcedToken: "still-stale"}
	client := newTestClient(srv.URL, tokens)

	_, err := client.Me(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExpired)
	// The forced refresh runs exactly once, never in a loop.
	assert.EqualValues(t, 1, atomic.LoadInt32(&tokens.forceCount))
}

func TestClientDo_RefreshFailureAfter401Propagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokenSource{token: "stale", refreshErr: &RefreshError{StatusCode: 400, Body: "invalid_grant"}}
	client := newTestClient(srv.URL, tokens)

	_, err := client.Me(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestClientDo_ForbiddenIsNotAnEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"accessDenied"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	page, err := client.ListMessages(context.Background(), 42, "", 10, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, page)
}

func TestClientDo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	_, err := client.GetMessage(context.Background(), 42, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientDo_ServerErrorCarriesGraphBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":"serviceNotAvailable"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	_, err := client.Me(context.Background(), 42)
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusServiceUnavailable, gwErr.StatusCode)
	assert.Contains(t, gwErr.Body, "serviceNotAvailable")
}

func TestClientDo_ResolveFailureShortCircuits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach Graph without a token")
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokenSource{resolveErr: ErrNoCredential})

	_, err := client.Me(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestListMessages_NextLinkIsOpaquePassthrough(t *testing.T) {
	var nextLink string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/messages":
			assert.Equal(t, "5", r.URL.Query().Get("$top"))
			assert.Equal(t, "receivedDateTime desc", r.URL.Query().Get("$orderby"))
			fmt.Fprintf(w, `{"value":[{"id":"m1","subject":"first"}],"@odata.nextLink":%q}`, nextLink)
		case "/page2":
			_, _ = w.Write([]byte(`{"value":[{"id":"m2","subject":"second"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	nextLink = srv.URL + "/page2"

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	page, err := client.ListMessages(context.Background(), 42, "", 5, "")
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "m1", page.Messages[0].ID)
	// The cursor comes back verbatim; it is not followed automatically.
	assert.Equal(t, nextLink, page.NextLink)

	page, err = client.ListMessages(context.Background(), 42, "", 0, page.NextLink)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "m2", page.Messages[0].ID)
	assert.Empty(t, page.NextLink)
}

func TestListMailFolders_FollowsPagesAndChildren(t *testing.T) {
	var base string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/mailFolders":
			fmt.Fprintf(w, `{"value":[{"id":"inbox","displayName":"Inbox","childFolderCount":1}],"@odata.nextLink":"%s/me/mailFolders/page2"}`, base)
		case "/me/mailFolders/page2":
			_, _ = w.Write([]byte(`{"value":[{"id":"sent","displayName":"Sent Items"}]}`))
		case "/me/mailFolders/inbox/childFolders":
			_, _ = w.Write([]byte(`{"value":[{"id":"inbox-sub","displayName":"Receipts"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	base = srv.URL

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	folders, err := client.ListMailFolders(context.Background(), 42)
	require.NoError(t, err)
	// Continuation pages are concatenated in order, children nested.
	require.Len(t, folders, 2)
	assert.Equal(t, "inbox", folders[0].ID)
	assert.Equal(t, "sent", folders[1].ID)
	require.Len(t, folders[0].Children, 1)
	assert.Equal(t, "Receipts", folders[0].Children[0].DisplayName)
}

func TestListEvents_ConcatenatesAllPagesInOrder(t *testing.T) {
	var base string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/me/calendarView" || r.URL.Path == "/me/events":
			fmt.Fprintf(w, `{"value":[{"id":"e1","subject":"standup"}],"@odata.nextLink":"%s/events/page2"}`, base)
		case r.URL.Path == "/events/page2":
			_, _ = w.Write([]byte(`{"value":[{"id":"e2","subject":"review"},{"id":"e3","subject":"retro"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	base = srv.URL

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), 42, from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"e1", "e2", "e3"}, []string{events[0].ID, events[1].ID, events[2].ID})
}

func TestMyGroups_FiltersNonGroupDirectoryObjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":[
			{"@odata.type":"#microsoft.graph.group","id":"g1","displayName":"Engineering"},
			{"@odata.type":"#microsoft.graph.directoryRole","id":"r1","displayName":"Global Reader"},
			{"@odata.type":"#microsoft.graph.group","id":"g2","displayName":"All Hands"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokenSource{token: "ok"})

	groups, err := client.MyGroups(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "g1", groups[0].ID)
	assert.Equal(t, "g2", groups[1].ID)
}
