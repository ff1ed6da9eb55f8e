package auth

import "time"

// Config holds the session-token and OAuth flow settings.
type Config struct {
	// TokenSecret signs the session token and the registration intent.
	TokenSecret string `env:"AUTH_TOKEN_SECRET,required"`

	CookieName  string `env:"AUTH_COOKIE_NAME" envDefault:"probelab_session"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	BaseURL     string `env:"AUTH_BASE_URL" envDefault:"http://localhost:8080"`

	// TokenMaxLifetime is the absolute expiry fixed at first issue.
	TokenMaxLifetime time.Duration `env:"AUTH_TOKEN_MAX_LIFETIME" envDefault:"720h"`
	// TokenRefreshWindow is the sliding cookie lifetime renewed per refresh.
	TokenRefreshWindow time.Duration `env:"AUTH_TOKEN_REFRESH_WINDOW" envDefault:"24h"`

	StateTTL  time.Duration `env:"AUTH_STATE_TTL" envDefault:"10m"`
	IntentTTL time.Duration `env:"AUTH_INTENT_TTL" envDefault:"15m"`
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// SessionCookieName returns the environment-specific cookie name. Production
// uses the __Host- prefix, which binds the cookie to the origin and forces
// Secure + Path=/.
func (c Config) SessionCookieName() string {
	if c.IsProduction() {
		return "__Host-" + c.CookieName
	}
	return c.CookieName
}
