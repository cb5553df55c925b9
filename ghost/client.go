// Package ghost is the broker's bridge into a blog's Ghost Admin API. It
// mints short-lived signed admin assertions from the account's stored
// admin key and uses them to look up or create members and to obtain
// one-time sign-in URLs. Ghost never sees a Google token.
package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	// AdminAudience is the fixed audience claim Ghost expects on admin
	// API tokens.
	AdminAudience = "/v5/admin/"

	// MemberLabel marks members the broker created or signed in, so blog
	// owners can identify them in the Ghost dashboard.
	MemberLabel = "Trivet"

	adminTokenExpiry = 5 * time.Minute
	requestTimeout   = 10 * time.Second
)

// ErrUpstream is the single opaque error surfaced for any non-success
// response from the Admin API. Upstream detail is logged, never returned.
var ErrUpstream = errors.New("ghost admin API request failed")

// Label is a tag on a member record.
type Label struct {
	Name string `json:"name"`
}

// Member is a Ghost member record, reduced to the fields the broker uses.
type Member struct {
	ID     string  `json:"id"`
	Email  string  `json:"email,omitempty"`
	Name   string  `json:"name,omitempty"`
	Labels []Label `json:"labels,omitempty"`
}

// HasLabel reports whether the member already carries the given label.
func (m *Member) HasLabel(name string) bool {
	for _, label := range m.Labels {
		if label.Name == name {
			return true
		}
	}
	return false
}

// Client talks to one blog's Admin API. Calls are synchronous,
// single-attempt, and bounded by a request timeout; retrying belongs to
// the caller, because a failed create-member call must not be blindly
// retried.
type Client struct {
	adminURL    string
	adminAPIKey string
	httpClient  *http.Client
	nowTime     func() time.Time
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// NewClient builds a client for the blog at adminHost, authenticated with
// the account's compound admin key ("{id}:{hexSecret}").
func NewClient(adminHost, adminAPIKey string, options ...ClientOption) *Client {
	adminURL := adminHost
	if !strings.HasPrefix(adminURL, "http://") && !strings.HasPrefix(adminURL, "https://") {
		adminURL = "https://" + adminURL
	}

	c := &Client{
		adminURL:    strings.TrimSuffix(adminURL, "/"),
		adminAPIKey: adminAPIKey,
		httpClient:  &http.Client{Timeout: requestTimeout},
		nowTime:     time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// adminToken mints a fresh five-minute admin assertion. The key ID half
// of the admin key goes into the signature header; the hex half, decoded
// to raw bytes, is the HMAC key. Assertions are minted per outbound call
// and never reused.
func (c *Client) adminToken() (string, error) {
	id, hexSecret, ok := strings.Cut(c.adminAPIKey, ":")
	if !ok || id == "" || hexSecret == "" {
		return "", fmt.Errorf("[adminToken] invalid admin API key format")
	}

	key, err := hex.DecodeString(hexSecret)
	if err != nil {
		return "", fmt.Errorf("[adminToken] admin API key secret is not hex: %w", err)
	}

	now := c.nowTime()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenExpiry)),
		Audience:  jwt.ClaimStrings{AdminAudience},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = id

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("[adminToken] failed to sign admin token: %w", err)
	}
	return signed, nil
}

// ValidateKey exercises the admin key against the site endpoint, used
// during onboarding before the key is persisted.
func (c *Client) ValidateKey(ctx context.Context) error {
	var response struct {
		Site json.RawMessage `json:"site"`
	}
	return c.do(ctx, http.MethodGet, "/ghost/api/admin/site/", nil, &response)
}

// FindMemberByEmail returns the member with the given address, or nil
// when none exists. Email filters are exact-match, so at most one result
// is expected, but the first is taken without assuming Ghost enforces
// uniqueness.
func (c *Client) FindMemberByEmail(ctx context.Context, email string) (*Member, error) {
	path := fmt.Sprintf("/ghost/api/admin/members/?filter=%s&limit=1",
		url.QueryEscape(fmt.Sprintf("email:'%s'", email)))

	var response struct {
		Members []Member `json:"members"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	if len(response.Members) == 0 {
		return nil, nil
	}
	member := response.Members[0]
	return &member, nil
}

// CreateMember creates a new member tagged with the broker's label.
func (c *Client) CreateMember(ctx context.Context, email, name string) (*Member, error) {
	body := map[string]any{
		"members": []map[string]any{{
			"email":  email,
			"name":   name,
			"labels": []Label{{Name: MemberLabel}},
		}},
	}

	var response struct {
		Members []Member `json:"members"`
	}
	if err := c.do(ctx, http.MethodPost, "/ghost/api/admin/members/", body, &response); err != nil {
		return nil, err
	}
	if len(response.Members) == 0 {
		log.Error().Str("email", email).Msg("ghost create member returned no member")
		return nil, ErrUpstream
	}
	member := response.Members[0]
	return &member, nil
}

// EnsureMemberLabel adds the broker's label to an existing member. The
// mutating call is skipped when the label is already present.
func (c *Client) EnsureMemberLabel(ctx context.Context, member *Member) (*Member, error) {
	if member.HasLabel(MemberLabel) {
		return member, nil
	}

	labels := append(append([]Label(nil), member.Labels...), Label{Name: MemberLabel})
	body := map[string]any{
		"members": []map[string]any{{
			"labels": labels,
		}},
	}

	var response struct {
		Members []Member `json:"members"`
	}
	path := fmt.Sprintf("/ghost/api/admin/members/%s/", url.PathEscape(member.ID))
	if err := c.do(ctx, http.MethodPut, path, body, &response); err != nil {
		return nil, err
	}
	if len(response.Members) == 0 {
		log.Error().Str("member_id", member.ID).Msg("ghost edit member returned no member")
		return nil, ErrUpstream
	}
	updated := response.Members[0]
	return &updated, nil
}

// ResolveOrCreateMember finds the member by email, tagging it when found,
// or creates it otherwise. The returned flag reports whether the member
// already existed.
func (c *Client) ResolveOrCreateMember(ctx context.Context, email, name string) (member *Member, existing bool, err error) {
	found, err := c.FindMemberByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	if found != nil {
		member, err = c.EnsureMemberLabel(ctx, found)
		return member, true, err
	}

	member, err = c.CreateMember(ctx, email, name)
	return member, false, err
}

// MemberSignInURL obtains a one-time sign-in URL for the member. Ghost
// has returned the URL under three different field names across
// versions; the first present wins, and absence of all three is an
// error.
func (c *Client) MemberSignInURL(ctx context.Context, memberID, redirect string) (string, error) {
	body := map[string]any{}
	if redirect != "" {
		body["redirect"] = redirect
	}

	var response struct {
		URL        string `json:"url"`
		SignInURL  string `json:"signin_url"`
		SignInURLs []struct {
			URL string `json:"url"`
		} `json:"signin_urls"`
	}

	path := fmt.Sprintf("/ghost/api/admin/members/%s/signin_urls/", url.PathEscape(memberID))
	if err := c.do(ctx, http.MethodPost, path, body, &response); err != nil {
		return "", err
	}

	switch {
	case response.URL != "":
		return response.URL, nil
	case response.SignInURL != "":
		return response.SignInURL, nil
	case len(response.SignInURLs) > 0 && response.SignInURLs[0].URL != "":
		return response.SignInURLs[0].URL, nil
	}

	log.Error().Str("member_id", memberID).Msg("ghost sign-in URL missing from response")
	return "", ErrUpstream
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	token, err := c.adminToken()
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[do] failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.adminURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("[do] failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("ghost admin API request error")
		return ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Error().Int("status", resp.StatusCode).Str("method", method).Str("path", path).
			Bytes("body", detail).Msg("ghost admin API non-success response")
		return ErrUpstream
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Error().Err(err).Str("method", method).Str("path", path).Msg("ghost admin API response decode error")
			return ErrUpstream
		}
	}
	return nil
}
