package oauth

import (
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/azureadv2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/cache"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/env"
)

// GraphScopes are requested at sign-in. offline_access is what makes the
// provider hand out a refresh token at all; the rest cover every Graph call
// the portal issues.
var GraphScopes = []azureadv2.ScopeType{
	azureadv2.OpenIDScope,
	"profile",
	"email",
	"offline_access",
	"User.Read",
	"User.ReadBasic.All",
	"Calendars.Read",
	"Calendars.ReadWrite",
	"Mail.Read",
	"Mail.ReadWrite",
	"Mail.Send",
	"Sites.Read.All",
	"Files.ReadWrite.All",
}

// Setup initializes the Goth azureadv2 provider and its session store based
// on environment variables. It is safe to call multiple times; the provider
// will just be re-registered.
func Setup() {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}

	clientID := env.GetEnv("AZURE_CLIENT_ID", "")
	clientSecret := env.GetEnv("AZURE_CLIENT_SECRET", "")
	tenant := env.GetEnv("AZURE_TENANT_ID", "common")
	if clientID == "" || clientSecret == "" {
		log.Printf("WARNING: AZURE_CLIENT_ID/AZURE_CLIENT_SECRET are not configured - Microsoft sign-in will fail")
	}

	goth.UseProviders(
		azureadv2.New(
			clientID,
			clientSecret,
			base+"/auth/azureadv2/callback",
			azureadv2.ProviderOptions{
				Tenant: azureadv2.TenantType(tenant),
				Scopes: GraphScopes,
			},
		),
	)

	// OAuth state via Redis, using same connection as app sessions (separate DB)
	cacheClient := cache.GetClient()
	cacheOpts := cacheClient.Options()
	host, port := "127.0.0.1", 6379
	if cacheOpts != nil && cacheOpts.Addr != "" {
		if h, p, err := net.SplitHostPort(cacheOpts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else {
			host = cacheOpts.Addr
		}
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Username: cacheOpts.Username,
			Password: cacheOpts.Password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     72 * time.Hour,
	})
}
