package config

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
}

// Google exposes the shared Google OAuth app used for the owner flow and
// for member flows on accounts without a custom client configured.
type Google struct{}

var _ GoogleConfig = Google{}

func (Google) GetGoogleClientID() string {
	return GetEnv("GOOGLE_OAUTH_CLIENT_ID", "")
}

func (Google) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_OAUTH_CLIENT_SECRET", "")
}
