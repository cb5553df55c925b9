package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() string
	GetStateExpiry() time.Duration
	GetSessionExpiry() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret returns the symmetric key both token kinds are signed
// with. An empty value is a fatal configuration error at startup, not a
// per-request condition.
func (Security) GetSessionSecret() string {
	return GetEnv("TRIVET_SESSION_SECRET", "")
}

func (Security) GetStateExpiry() time.Duration {
	return 10 * time.Minute // Window between initiating and completing the OAuth dance
}

func (Security) GetSessionExpiry() time.Duration {
	return 7 * 24 * time.Hour
}
