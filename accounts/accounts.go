package accounts

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repos when no account matches the lookup key.
var ErrNotFound = errors.New("account not found")

// Onboarding paths, in the order an owner is walked through them. Each
// stage gates the next: a blog must be set before an admin key can be
// validated, and an admin key before the Google mode is chosen.
const (
	OnboardingBlogPath     = "/onboarding/blog"
	OnboardingAdminKeyPath = "/onboarding/admin-key"
	OnboardingGooglePath   = "/onboarding/google"
	DashboardPath          = "/dashboard"
)

// Account is an owning tenant: one Ghost blog whose owner delegated
// member sign-in to the broker. The numeric ID is internal; the UUID is
// the only reference ever exposed to blogs and their readers.
type Account struct {
	ID    int64  `json:"id,omitempty"`
	UUID  string `json:"uuid,omitempty"`
	Email string `json:"email,omitempty"` // Unique; the owner's identity key
	Name  string `json:"name,omitempty"`

	BlogHost    string `json:"blog_host,omitempty"`     // Blog origin, e.g. https://myblog.com
	AdminHost   string `json:"admin_host,omitempty"`    // Admin API origin, derived from the blog
	AdminAPIKey string `json:"-"`                       // Ghost Admin API key, "{id}:{hexSecret}"

	// A tenant with both a custom client ID and secret runs on its own
	// Google app; otherwise it uses the broker's shared one.
	GoogleOauthClientID     string `json:"google_oauth_client_id,omitempty"`
	GoogleOauthClientSecret string `json:"-"`

	// Set once the owner has explicitly chosen a Google mode, including
	// explicitly choosing the shared app.
	GoogleOauthConfigured bool `json:"google_oauth_configured,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HasCustomGoogleApp reports whether the account supplies its own Google
// OAuth client pair. Presence of both values flips the tenant from the
// shared app to the custom one.
func (a *Account) HasCustomGoogleApp() bool {
	return a.GoogleOauthClientID != "" && a.GoogleOauthClientSecret != ""
}

// ConfiguredForGhost reports whether the account can serve member
// sign-ins, which requires both an admin origin and an admin key.
func (a *Account) ConfiguredForGhost() bool {
	return a.AdminHost != "" && a.AdminAPIKey != ""
}

// NextOnboardingPath walks the onboarding stages in order and returns the
// first incomplete one, or the dashboard when fully configured.
func (a *Account) NextOnboardingPath() string {
	if a.BlogHost == "" {
		return OnboardingBlogPath
	}
	if a.AdminAPIKey == "" {
		return OnboardingAdminKeyPath
	}
	if !a.GoogleOauthConfigured {
		return OnboardingGooglePath
	}
	return DashboardPath
}
