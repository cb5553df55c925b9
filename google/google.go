// Package google performs the broker's side of the Google OAuth dance:
// building authorization URLs, exchanging authorization codes, and
// verifying identity tokens against the tokeninfo endpoint.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Endpoint is Google's OAuth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// ErrUpstream is the single opaque error surfaced for Google failures.
// Upstream detail is logged, never returned to callers.
var ErrUpstream = errors.New("google request failed")

var scopes = []string{"openid", "email", "profile"}

// UserInfo is the identity assertion returned by the tokeninfo endpoint.
// The audience claim is not always present on this verification path;
// callers check it only when it is.
type UserInfo struct {
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	Aud           string `json:"aud,omitempty"`
}

// Client performs the OAuth dance for one effective Google app: either
// the broker's shared client pair or an account's custom one.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	endpoint     oauth2.Endpoint
	tokenInfoURL string
	httpClient   *http.Client
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithEndpoint overrides the OAuth endpoints (primarily for testing).
func WithEndpoint(endpoint oauth2.Endpoint) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTokenInfoURL overrides the tokeninfo endpoint (primarily for testing).
func WithTokenInfoURL(u string) ClientOption {
	return func(c *Client) {
		c.tokenInfoURL = u
	}
}

// WithHTTPClient overrides the HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(clientID, clientSecret, redirectURI string, options ...ClientOption) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		endpoint:     Endpoint,
		tokenInfoURL: tokenInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// ClientID returns the effective client ID, used by callers to check the
// identity token's audience claim when present.
func (c *Client) ClientID() string {
	return c.clientID
}

func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURI,
		Endpoint:     c.endpoint,
		Scopes:       scopes,
	}
}

// AuthURL builds the authorization URL the user is redirected to. The
// state token binds the eventual callback to its originating flow.
func (c *Client) AuthURL(state string) string {
	return c.oauthConfig().AuthCodeURL(state,
		oauth2.SetAuthURLParam("access_type", "online"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// ExchangeCode exchanges an authorization code for tokens and returns the
// raw ID token from the response.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	oauth2Token, err := c.oauthConfig().Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("google token exchange failed")
		return "", ErrUpstream
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		log.Error().Msg("google token response missing id_token")
		return "", ErrUpstream
	}
	return rawIDToken, nil
}

// VerifyIDToken verifies an identity token at the tokeninfo endpoint and
// returns the asserted identity. A response without an email claim is
// rejected; a response without an audience claim is not, since Google
// does not always return one on this path.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*UserInfo, error) {
	u := fmt.Sprintf("%s?id_token=%s", c.tokenInfoURL, url.QueryEscape(idToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("[VerifyIDToken] failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("google tokeninfo request error")
		return nil, ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Error().Int("status", resp.StatusCode).Bytes("body", detail).Msg("google tokeninfo rejected token")
		return nil, ErrUpstream
	}

	userInfo := &UserInfo{}
	if err := json.NewDecoder(resp.Body).Decode(userInfo); err != nil {
		log.Error().Err(err).Msg("google tokeninfo response decode error")
		return nil, ErrUpstream
	}

	if userInfo.Email == "" {
		log.Error().Msg("google tokeninfo response missing email")
		return nil, ErrUpstream
	}
	return userInfo, nil
}
