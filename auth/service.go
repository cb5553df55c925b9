// Package auth is the broker's flow dispatcher: the state machine that
// turns an inbound authorization code or One Tap credential into either
// an authenticated owner session or a member sign-in URL minted by the
// blog's Admin API.
package auth

import (
	"context"
	"fmt"

	"github.com/contraptionco/trivet/accounts"
	"github.com/contraptionco/trivet/ghost"
	"github.com/contraptionco/trivet/google"
	"github.com/contraptionco/trivet/internal/config"
	"github.com/contraptionco/trivet/logins"
	"github.com/contraptionco/trivet/metrics"
	"github.com/contraptionco/trivet/newsletter"
	"github.com/contraptionco/trivet/safeurl"
	"github.com/contraptionco/trivet/token"
	"github.com/google/uuid"
)

// CallbackPath is the broker endpoint Google redirects back to.
const CallbackPath = "/api/auth/callback"

// Repos holds all repository dependencies for the Service
type Repos struct {
	Accounts accounts.Repo
	Logins   logins.Repo
}

// GoogleClientFactory builds an OAuth client for one effective Google
// app. Injectable so tests can point it at stub endpoints.
type GoogleClientFactory func(clientID, clientSecret, redirectURI string) *google.Client

// GhostClientFactory builds an Admin API client for one blog.
type GhostClientFactory func(adminHost, adminAPIKey string) *ghost.Client

// Service orchestrates the owner and member sign-in flows.
type Service struct {
	repos      Repos
	codec      *token.Codec
	cfg        config.Config
	newGoogle  GoogleClientFactory
	newGhost   GhostClientFactory
	subscriber *newsletter.Subscriber
	metrics    *metrics.Metrics
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithGoogleClientFactory overrides how Google clients are built
// (primarily for testing).
func WithGoogleClientFactory(factory GoogleClientFactory) ServiceOption {
	return func(s *Service) {
		s.newGoogle = factory
	}
}

// WithGhostClientFactory overrides how Admin API clients are built
// (primarily for testing).
func WithGhostClientFactory(factory GhostClientFactory) ServiceOption {
	return func(s *Service) {
		s.newGhost = factory
	}
}

// WithSubscriber sets the welcome-subscription sender for new owners.
func WithSubscriber(subscriber *newsletter.Subscriber) ServiceOption {
	return func(s *Service) {
		s.subscriber = subscriber
	}
}

// WithMetrics sets the sign-in outcome counters.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService initializes a Service with required dependencies.
func NewService(repos Repos, codec *token.Codec, cfg config.Config, options ...ServiceOption) (*Service, error) {
	if repos.Accounts == nil {
		return nil, fmt.Errorf("[NewService] Accounts repo is required")
	}
	if repos.Logins == nil {
		return nil, fmt.Errorf("[NewService] Logins repo is required")
	}
	if codec == nil {
		return nil, fmt.Errorf("[NewService] token codec is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("[NewService] config is required")
	}

	s := &Service{
		repos: repos,
		codec: codec,
		cfg:   cfg,
		newGoogle: func(clientID, clientSecret, redirectURI string) *google.Client {
			return google.NewClient(clientID, clientSecret, redirectURI)
		},
		newGhost: func(adminHost, adminAPIKey string) *ghost.Client {
			return ghost.NewClient(adminHost, adminAPIKey)
		},
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// BeginParams describe a sign-in initiation request.
type BeginParams struct {
	Flow        string
	AccountUUID string // member flow only
	Redirect    string // optional post-login target, validated before use
}

// BeginSignIn validates the initiation request, mints a state token
// binding the exchange to its flow, account, and redirect, and returns
// the Google authorization URL to send the user to.
func (s *Service) BeginSignIn(ctx context.Context, p BeginParams) (string, error) {
	if p.Flow != token.FlowOwner && p.Flow != token.FlowMember {
		return "", ErrUnknownFlow
	}

	clientID := s.cfg.GetGoogleClientID()

	if p.Flow == token.FlowMember {
		if p.AccountUUID == "" {
			return "", ErrMissingAccount
		}
		account, err := s.repos.Accounts.GetByUUID(ctx, p.AccountUUID)
		if err != nil {
			return "", err
		}
		if account.HasCustomGoogleApp() {
			clientID = account.GoogleOauthClientID
		}
	}

	if clientID == "" {
		return "", ErrMissingCredentials
	}

	state, err := s.codec.SignState(token.StateClaims{
		Flow:        p.Flow,
		AccountUUID: p.AccountUUID,
		Redirect:    safeurl.EnsureSafeRedirect(p.Redirect, s.cfg.GetBaseURL()),
		Nonce:       uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("[BeginSignIn] %w", err)
	}

	// Only the client ID matters for building the authorization URL; the
	// secret is resolved again at callback time.
	client := s.newGoogle(clientID, "", s.redirectURI())
	return client.AuthURL(state), nil
}

// SessionFromToken verifies a session cookie value, returning nil for
// missing or invalid tokens rather than an error: an unauthenticated
// request is a normal condition, not a failure.
func (s *Service) SessionFromToken(tokenString string) *token.SessionClaims {
	if tokenString == "" {
		return nil
	}
	claims, err := s.codec.VerifySession(tokenString)
	if err != nil {
		return nil
	}
	return claims
}

// MintSession mints a session token for the account. Only the owner flow
// establishes a session.
func (s *Service) MintSession(account *accounts.Account) (string, error) {
	return s.codec.SignSession(token.SessionClaims{
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.Name,
	})
}

func (s *Service) redirectURI() string {
	return s.cfg.GetBaseURL() + CallbackPath
}
