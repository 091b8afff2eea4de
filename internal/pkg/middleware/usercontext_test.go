package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/session"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

// fakeUserStore implements repository.UserRepository; only GetRole matters
// for the middleware.
type fakeUserStore struct {
	roles map[uint]string
}

func (f *fakeUserStore) Create(user *models.User) error                 { return nil }
func (f *fakeUserStore) GetByID(id uint) (*models.User, error)          { return nil, gorm.ErrRecordNotFound }
func (f *fakeUserStore) GetByEmail(email string) (*models.User, error)  { return nil, gorm.ErrRecordNotFound }
func (f *fakeUserStore) Update(user *models.User) error                 { return nil }
func (f *fakeUserStore) Delete(id uint) error                           { return nil }
func (f *fakeUserStore) List(offset, limit int) ([]models.User, error)  { return nil, nil }
func (f *fakeUserStore) Count() (int64, error)                          { return 0, nil }
func (f *fakeUserStore) Search(query string) ([]models.User, error)     { return nil, nil }
func (f *fakeUserStore) ListByPosition(id uint) ([]models.User, error)  { return nil, nil }

func (f *fakeUserStore) GetRole(id uint) (string, error) {
	role, ok := f.roles[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return role, nil
}

type fakeGraphResolver struct {
	err error
}

func (f *fakeGraphResolver) Resolve(ctx context.Context, userID uint) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token", nil
}

// newContextTestApp wires an in-memory session store, the middleware under
// test, a seed route that fakes a login, and a probe route that echoes the
// resolved user context.
func newContextTestApp(users *fakeUserStore, resolver GraphTokenResolver) *fiber.App {
	session.SetSessionStore(fibersession.New())

	app := fiber.New()
	app.Use(NewUserContext(users, resolver))

	app.Post("/seed", func(c *fiber.Ctx) error {
		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			return err
		}
		// "bare" leaves the auth flag unset, mimicking a session that was
		// never taken through a full login.
		if c.Query("bare") == "" {
			sess.Set(usercontext.AuthKey, true)
		}
		sess.Set(usercontext.KeyUserID, uint(1))
		sess.Set(usercontext.KeyUserName, "mira")
		sess.Set(usercontext.KeyUserEmail, "mira@example.com")
		sess.Set(usercontext.KeyUserRole, c.Query("role", models.ROLE_USER))
		return sess.Save()
	})

	app.Get("/whoami", func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{
			"logged_in": uc.IsLoggedIn,
			"user_id":   uc.UserID,
			"role":      uc.Role,
			"degraded":  uc.GraphDegraded,
		})
	})

	return app
}

func seedLogin(t *testing.T, app *fiber.App, role string) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/seed?role="+role, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Cookies())
	return resp.Cookies()
}

func whoami(t *testing.T, app *fiber.App, cookies []*http.Cookie) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, decodeJSONBody(resp.Body, &body))
	return body
}

func decodeJSONBody(r io.ReadCloser, out interface{}) error {
	defer r.Close()
	return json.NewDecoder(r).Decode(out)
}

func TestUserContext_AnonymousWithoutSession(t *testing.T) {
	app := newContextTestApp(&fakeUserStore{roles: map[uint]string{}}, nil)

	body := whoami(t, app, nil)
	assert.Equal(t, false, body["logged_in"])
}

func TestUserContext_SessionWithoutAuthFlagIsAnonymous(t *testing.T) {
	users := &fakeUserStore{roles: map[uint]string{1: models.ROLE_USER}}
	app := newContextTestApp(users, nil)

	req := httptest.NewRequest(http.MethodPost, "/seed?bare=1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := whoami(t, app, resp.Cookies())
	assert.Equal(t, false, body["logged_in"])
}

func TestUserContext_RoleIsReReadFromStore(t *testing.T) {
	users := &fakeUserStore{roles: map[uint]string{1: models.ROLE_ADMIN}}
	app := newContextTestApp(users, nil)

	// Session still carries the stale "user" role from login time.
	cookies := seedLogin(t, app, models.ROLE_USER)

	body := whoami(t, app, cookies)
	assert.Equal(t, true, body["logged_in"])
	assert.Equal(t, models.ROLE_ADMIN, body["role"])

	// A later demotion shows up on the very next request.
	users.roles[1] = models.ROLE_USER
	body = whoami(t, app, cookies)
	assert.Equal(t, models.ROLE_USER, body["role"])
}

func TestUserContext_DeletedUserIsLoggedOut(t *testing.T) {
	users := &fakeUserStore{roles: map[uint]string{1: models.ROLE_USER}}
	app := newContextTestApp(users, nil)

	cookies := seedLogin(t, app, models.ROLE_USER)
	delete(users.roles, 1)

	body := whoami(t, app, cookies)
	assert.Equal(t, false, body["logged_in"])
}

func TestUserContext_RefreshFailureMarksSessionDegraded(t *testing.T) {
	users := &fakeUserStore{roles: map[uint]string{1: models.ROLE_USER}}
	resolver := &fakeGraphResolver{err: &msgraph.RefreshError{StatusCode: 400, Body: "invalid_grant"}}
	app := newContextTestApp(users, resolver)

	cookies := seedLogin(t, app, models.ROLE_USER)

	body := whoami(t, app, cookies)
	assert.Equal(t, true, body["logged_in"])
	assert.Equal(t, true, body["degraded"])

	// Once the refresh works again the flag clears without a new login.
	resolver.err = nil
	body = whoami(t, app, cookies)
	assert.Equal(t, false, body["degraded"])
}

func TestUserContext_NoCredentialDoesNotDegrade(t *testing.T) {
	users := &fakeUserStore{roles: map[uint]string{1: models.ROLE_USER}}
	resolver := &fakeGraphResolver{err: msgraph.ErrNoCredential}
	app := newContextTestApp(users, resolver)

	cookies := seedLogin(t, app, models.ROLE_USER)

	body := whoami(t, app, cookies)
	assert.Equal(t, true, body["logged_in"])
	assert.Equal(t, false, body["degraded"])
}
