// Package token mints and verifies the broker's two signed token kinds:
// short-lived OAuth state tokens and long-lived session tokens. Both are
// pure signed-claim structures; nothing is stored server-side, so a
// token's validity rests entirely on its signature and expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification,
// whether the signature is wrong, the token is malformed, or it has
// expired. Callers treat all of these as unauthenticated.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken marks the one verification failure where the signature
// checked out but the token outlived its expiry. It matches
// ErrInvalidToken under errors.Is, so callers that treat every failure
// the same need no special case.
var ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)

// Flow identifies which of the two sign-in flows a state token belongs to.
const (
	FlowOwner  = "owner"
	FlowMember = "member"
)

// StateClaims bind an in-flight OAuth exchange to its originating flow,
// target account, and post-login redirect. The nonce is carried on the
// wire but is not checked against a replay store; single-use enforcement
// would require the server-side state this design avoids.
type StateClaims struct {
	Flow        string `json:"flow"`
	AccountUUID string `json:"accountUuid,omitempty"`
	Redirect    string `json:"redirect,omitempty"`
	Nonce       string `json:"nonce"`
	jwt.RegisteredClaims
}

// SessionClaims constitute an owner's authenticated session. Possession
// of a validly-signed, unexpired session token is the session.
type SessionClaims struct {
	AccountID int64  `json:"accountId"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies both token kinds with a single symmetric key.
type Codec struct {
	signer        Signer
	stateExpiry   time.Duration
	sessionExpiry time.Duration
	nowTime       func() time.Time
}

// CodecOption modifies a Codec instance.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec builds a Codec from the server-held secret. An empty secret is
// a configuration error; the caller should treat it as fatal at startup.
func NewCodec(secret string, stateExpiry, sessionExpiry time.Duration, options ...CodecOption) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("[NewCodec] session secret is not configured")
	}

	c := &Codec{
		signer:        NewHMACSigner([]byte(secret)),
		stateExpiry:   stateExpiry,
		sessionExpiry: sessionExpiry,
		nowTime:       time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// SignState mints a state token carrying the given claims, stamped with
// issued-at and the short state expiry.
func (c *Codec) SignState(claims StateClaims) (string, error) {
	claims.RegisteredClaims = c.registeredClaims(c.stateExpiry)
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[SignState] %w", err)
	}
	return signed, nil
}

// VerifyState returns the claims carried by a valid, unexpired state
// token, or ErrInvalidToken. Expired tokens additionally return their
// claims alongside ErrExpiredToken: the signature was verified before
// expiry, so the claims are authentic and let the caller scope its error
// response to the flow that minted the token.
func (c *Codec) VerifyState(tokenString string) (*StateClaims, error) {
	claims := &StateClaims{}
	err := c.verify(tokenString, claims)
	if errors.Is(err, ErrExpiredToken) && (claims.Flow == FlowOwner || claims.Flow == FlowMember) {
		return claims, err
	}
	if err != nil {
		return nil, err
	}
	if claims.Flow != FlowOwner && claims.Flow != FlowMember {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SignSession mints a session token carrying the given claims, stamped
// with issued-at and the long session expiry.
func (c *Codec) SignSession(claims SessionClaims) (string, error) {
	claims.RegisteredClaims = c.registeredClaims(c.sessionExpiry)
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[SignSession] %w", err)
	}
	return signed, nil
}

// VerifySession returns the claims carried by a valid, unexpired session
// token, or ErrInvalidToken.
func (c *Codec) VerifySession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := c.verify(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// SessionExpiry reports how long a freshly minted session token lives,
// used to align the cookie max-age with the token expiry.
func (c *Codec) SessionExpiry() time.Duration {
	return c.sessionExpiry
}

func (c *Codec) registeredClaims(expiry time.Duration) jwt.RegisteredClaims {
	now := c.nowTime()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
}

func (c *Codec) verify(tokenString string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(tokenString, claims, c.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(c.nowTime),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// The parser checks the signature before validating claims, so an
		// expiry error implies the signature held.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
