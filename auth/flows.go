package auth

import (
	"context"
	"errors"

	"github.com/contraptionco/trivet/accounts"
	"github.com/contraptionco/trivet/google"
	"github.com/contraptionco/trivet/logins"
	"github.com/contraptionco/trivet/safeurl"
	"github.com/contraptionco/trivet/token"
)

// Outcome is the terminal result of a completed flow. Exactly one of the
// two flow-specific fields is set: the owner flow yields a session token
// and an onboarding redirect, the member flow a Ghost sign-in URL.
type Outcome struct {
	Flow         string
	RedirectPath string // owner flow: next onboarding stage or dashboard
	SessionToken string // owner flow only; the sole session-establishing path
	SignInURL    string // member flow only
}

// CompleteRedirect finishes a redirect-based flow: Google has sent the
// user back with an authorization code and the state token minted at
// initiation.
func (s *Service) CompleteRedirect(ctx context.Context, code, stateToken string) (*Outcome, error) {
	outcome, err := s.completeRedirect(ctx, code, stateToken)
	return s.record(outcome, err)
}

// CredentialParams describe a credential-based (One Tap) completion,
// which arrives with a pre-verified identity credential and no
// code-exchange step.
type CredentialParams struct {
	Credential  string
	Flow        string
	AccountUUID string
	Redirect    string
}

// CompleteCredential finishes a credential-based flow. It reaches the
// same branch logic as CompleteRedirect; only the entry differs.
func (s *Service) CompleteCredential(ctx context.Context, p CredentialParams) (*Outcome, error) {
	outcome, err := s.completeCredential(ctx, p)
	return s.record(outcome, err)
}

func (s *Service) completeRedirect(ctx context.Context, code, stateToken string) (*Outcome, error) {
	state, err := s.codec.VerifyState(stateToken)
	if err != nil {
		// An expired token still carries authentic claims; keep them so
		// the failure lands on the sign-in page that started the flow.
		if state != nil {
			return nil, &FlowError{Flow: state.Flow, AccountUUID: state.AccountUUID, Err: err}
		}
		return nil, err
	}

	// The account reference is captured here, before any further work, so
	// later failures can still be scoped to the right sign-in page.
	fail := func(err error) (*Outcome, error) {
		return nil, &FlowError{Flow: state.Flow, AccountUUID: state.AccountUUID, Err: err}
	}

	clientID := s.cfg.GetGoogleClientID()
	clientSecret := s.cfg.GetGoogleClientSecret()

	var account *accounts.Account
	if state.Flow == token.FlowMember {
		if state.AccountUUID == "" {
			return fail(ErrMissingAccount)
		}
		account, err = s.repos.Accounts.GetByUUID(ctx, state.AccountUUID)
		if err != nil {
			return fail(err)
		}
		if account.HasCustomGoogleApp() {
			clientID = account.GoogleOauthClientID
			clientSecret = account.GoogleOauthClientSecret
		}
	}

	if clientID == "" || clientSecret == "" {
		return fail(ErrMissingCredentials)
	}

	client := s.newGoogle(clientID, clientSecret, s.redirectURI())

	idToken, err := client.ExchangeCode(ctx, code)
	if err != nil {
		return fail(err)
	}

	userInfo, err := client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return fail(err)
	}
	if userInfo.Aud != "" && userInfo.Aud != clientID {
		return fail(ErrAudienceMismatch)
	}

	if state.Flow == token.FlowOwner {
		outcome, err := s.ownerOutcome(ctx, userInfo)
		if err != nil {
			return fail(err)
		}
		return outcome, nil
	}

	signInURL, err := s.memberSignIn(ctx, account, userInfo.Email, userInfo.Name, state.Redirect)
	if err != nil {
		return fail(err)
	}
	return &Outcome{Flow: token.FlowMember, SignInURL: signInURL}, nil
}

func (s *Service) completeCredential(ctx context.Context, p CredentialParams) (*Outcome, error) {
	if p.Flow != token.FlowOwner && p.Flow != token.FlowMember {
		return nil, ErrUnknownFlow
	}

	fail := func(err error) (*Outcome, error) {
		return nil, &FlowError{Flow: p.Flow, AccountUUID: p.AccountUUID, Err: err}
	}

	if p.Flow == token.FlowOwner {
		clientID := s.cfg.GetGoogleClientID()
		client := s.newGoogle(clientID, s.cfg.GetGoogleClientSecret(), s.redirectURI())

		userInfo, err := client.VerifyIDToken(ctx, p.Credential)
		if err != nil {
			return fail(err)
		}
		if clientID != "" && userInfo.Aud != "" && userInfo.Aud != clientID {
			return fail(ErrAudienceMismatch)
		}

		outcome, err := s.ownerOutcome(ctx, userInfo)
		if err != nil {
			return fail(err)
		}
		return outcome, nil
	}

	if p.AccountUUID == "" {
		return fail(ErrMissingAccount)
	}

	account, err := s.repos.Accounts.GetByUUID(ctx, p.AccountUUID)
	if err != nil {
		return fail(err)
	}

	// One Tap credentials are issued against the account's own Google
	// app; the shared app cannot verify them.
	if !account.HasCustomGoogleApp() {
		return fail(ErrOneTapRequiresCustom)
	}

	client := s.newGoogle(account.GoogleOauthClientID, account.GoogleOauthClientSecret, s.redirectURI())

	userInfo, err := client.VerifyIDToken(ctx, p.Credential)
	if err != nil {
		return fail(err)
	}
	if userInfo.Aud != "" && userInfo.Aud != account.GoogleOauthClientID {
		return fail(ErrAudienceMismatch)
	}

	signInURL, err := s.memberSignIn(ctx, account, userInfo.Email, userInfo.Name, p.Redirect)
	if err != nil {
		return fail(err)
	}
	return &Outcome{Flow: token.FlowMember, SignInURL: signInURL}, nil
}

// ownerOutcome upserts the owner account and mints its session. This is
// the only path that establishes a session.
func (s *Service) ownerOutcome(ctx context.Context, userInfo *google.UserInfo) (*Outcome, error) {
	account, err := s.ownerSignIn(ctx, userInfo.Email, userInfo.Name)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.MintSession(account)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Flow:         token.FlowOwner,
		RedirectPath: account.NextOnboardingPath(),
		SessionToken: sessionToken,
	}, nil
}

// ownerSignIn looks up the account by email, creating it on first sign-in.
// Existing accounts only ever gain a display name they were missing; a
// stored name is never overwritten.
func (s *Service) ownerSignIn(ctx context.Context, email, name string) (*accounts.Account, error) {
	existing, err := s.repos.Accounts.GetByEmail(ctx, email)
	if err == nil {
		if existing.Name == "" && name != "" {
			if err := s.repos.Accounts.SetName(ctx, existing.ID, name); err != nil {
				return nil, err
			}
			existing.Name = name
		}
		return existing, nil
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		return nil, err
	}

	account, err := s.repos.Accounts.Create(ctx, &accounts.Account{Email: email, Name: name})
	if err != nil {
		return nil, err
	}

	// Best-effort welcome subscription; detached from the request path.
	s.subscriber.Subscribe(email, name)

	return account, nil
}

// memberSignIn bridges the verified Google identity into the blog's
// member directory and returns a one-time sign-in URL. The account
// mutation (the Login audit row) happens only after every upstream call
// has succeeded.
func (s *Service) memberSignIn(ctx context.Context, account *accounts.Account, email, name, redirect string) (string, error) {
	if !account.ConfiguredForGhost() {
		return "", ErrNotConfigured
	}

	api := s.newGhost(account.AdminHost, account.AdminAPIKey)

	member, existing, err := api.ResolveOrCreateMember(ctx, email, name)
	if err != nil {
		return "", err
	}

	loginType := logins.TypeNew
	if existing {
		loginType = logins.TypeReturning
	}

	signInURL, err := api.MemberSignInURL(ctx, member.ID, redirect)
	if err != nil {
		return "", err
	}

	if err := s.repos.Logins.Create(ctx, &logins.Login{
		AccountID:   account.ID,
		MemberEmail: email,
		Type:        loginType,
	}); err != nil {
		return "", err
	}
	s.metrics.IncrementMemberLogin(string(loginType))

	// The validator is advisory hardening against redirects back into the
	// broker itself, not a correctness gate on Ghost-issued URLs; a
	// rejected URL is used as-is rather than blocking the member.
	if validated := safeurl.EnsureSafeRedirect(signInURL, s.cfg.GetBaseURL()); validated != "" {
		return validated, nil
	}
	return signInURL, nil
}

func (s *Service) record(outcome *Outcome, err error) (*Outcome, error) {
	if err != nil {
		s.metrics.IncrementOutcome(flowFromErr(err), "failure")
		return nil, err
	}
	s.metrics.IncrementOutcome(outcome.Flow, "success")
	return outcome, nil
}

func flowFromErr(err error) string {
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Flow
	}
	return "unknown"
}
