package accounts_test

import (
	"testing"

	"github.com/contraptionco/trivet/accounts"
	"github.com/stretchr/testify/require"
)

func TestNextOnboardingPath(t *testing.T) {
	account := &accounts.Account{Email: "owner@example.com"}
	require.Equal(t, accounts.OnboardingBlogPath, account.NextOnboardingPath())

	account.BlogHost = "https://myblog.com"
	account.AdminHost = "https://myblog.com"
	require.Equal(t, accounts.OnboardingAdminKeyPath, account.NextOnboardingPath())

	account.AdminAPIKey = "abcdef0123456789abcdef01:secret"
	require.Equal(t, accounts.OnboardingGooglePath, account.NextOnboardingPath())

	account.GoogleOauthConfigured = true
	require.Equal(t, accounts.DashboardPath, account.NextOnboardingPath())
}

func TestHasCustomGoogleApp(t *testing.T) {
	account := &accounts.Account{}
	require.False(t, account.HasCustomGoogleApp())

	account.GoogleOauthClientID = "client-id.apps.googleusercontent.com"
	require.False(t, account.HasCustomGoogleApp(), "client ID alone is not a custom app")

	account.GoogleOauthClientSecret = "client-secret"
	require.True(t, account.HasCustomGoogleApp())
}

func TestConfiguredForGhost(t *testing.T) {
	account := &accounts.Account{AdminHost: "https://myblog.com"}
	require.False(t, account.ConfiguredForGhost())

	account.AdminAPIKey = "abcdef0123456789abcdef01:secret"
	require.True(t, account.ConfiguredForGhost())
}
