package msgraph

import (
	"fmt"
	"log"
	"strings"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/env"
)

const (
	defaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	defaultLoginBaseURL = "https://login.microsoftonline.com"
)

// Config holds the process-wide Microsoft identity settings. It is loaded
// once at startup and injected into the refresher and client instead of being
// read from globals at call time.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// TokenURL is the fully resolved v2.0 token endpoint. Overridable for tests.
	TokenURL string
	// BaseURL is the Graph API root without trailing slash. Overridable for tests.
	BaseURL string
}

// NewConfigFromEnv loads the identity settings from the environment. Missing
// credentials are logged loudly rather than silently defaulted; Graph calls
// will fail until they are provided.
func NewConfigFromEnv() Config {
	cfg := Config{
		TenantID:     strings.TrimSpace(env.GetEnv("AZURE_TENANT_ID", "common")),
		ClientID:     strings.TrimSpace(env.GetEnv("AZURE_CLIENT_ID", "")),
		ClientSecret: strings.TrimSpace(env.GetEnv("AZURE_CLIENT_SECRET", "")),
		TokenURL:     strings.TrimSpace(env.GetEnv("AZURE_TOKEN_URL", "")),
		BaseURL:      strings.TrimRight(env.GetEnv("GRAPH_BASE_URL", defaultGraphBaseURL), "/"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		log.Printf("WARNING: AZURE_CLIENT_ID/AZURE_CLIENT_SECRET are not configured - token refresh will fail")
	}

	if cfg.TokenURL == "" {
		cfg.TokenURL = fmt.Sprintf("%s/%s/oauth2/v2.0/token", defaultLoginBaseURL, cfg.TenantID)
	}

	return cfg
}
