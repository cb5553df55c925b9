package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/contraptionco/trivet/accounts"
	"github.com/contraptionco/trivet/auth"
	"github.com/contraptionco/trivet/token"
	"github.com/rs/zerolog/log"
)

// Error markers carried on redirect query strings. The front end renders
// them; the server never exposes upstream detail.
const (
	errMarkerOAuth          = "oauth"
	errMarkerSignIn         = "signin"
	errMarkerNotFound       = "not-found"
	errMarkerMissingAccount = "missing-account"
)

// InitiateSignInHandler starts a sign-in: it mints the state token and
// redirects the user to Google.
func (s *Server) InitiateSignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow := r.URL.Query().Get("flow")
		if flow == "" {
			flow = token.FlowOwner
		}
		accountUUID := r.URL.Query().Get("account")

		authURL, err := s.auth.BeginSignIn(r.Context(), auth.BeginParams{
			Flow:        flow,
			AccountUUID: accountUUID,
			Redirect:    r.URL.Query().Get("redirect"),
		})
		if err != nil {
			log.Error().Err(err).Str("flow", flow).Msg("sign-in initiation failed")
			switch {
			case errors.Is(err, auth.ErrMissingAccount):
				redirectWithError(w, r, "/", errMarkerMissingAccount)
			case errors.Is(err, accounts.ErrNotFound):
				redirectWithError(w, r, "/sign-in/"+url.PathEscape(accountUUID), errMarkerNotFound)
			default:
				redirectWithError(w, r, "/", errMarkerOAuth)
			}
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// CallbackHandler finishes the redirect-based flow when Google sends the
// user back with an authorization code.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if denied := query.Get("error"); denied != "" {
			log.Warn().Str("error", denied).Msg("google callback returned an error")
			redirectWithError(w, r, "/", errMarkerOAuth)
			return
		}

		outcome, err := s.auth.CompleteRedirect(r.Context(), query.Get("code"), query.Get("state"))
		if err != nil {
			log.Error().Err(err).Msg("sign-in completion failed")
			s.redirectFlowError(w, r, err)
			return
		}

		if outcome.Flow == token.FlowOwner {
			s.setSessionCookie(w, r, outcome.SessionToken, s.config.GetSessionExpiry())
			http.Redirect(w, r, outcome.RedirectPath, http.StatusFound)
			return
		}

		http.Redirect(w, r, outcome.SignInURL, http.StatusFound)
	}
}

type credentialRequest struct {
	Credential  string `json:"credential"`
	Flow        string `json:"flow"`
	AccountUUID string `json:"accountUuid"`
	Redirect    string `json:"redirect"`
}

// CredentialHandler finishes a One Tap flow: the Google credential
// arrives directly in the request body instead of via redirect.
func (s *Server) CredentialHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Credential == "" || req.Flow == "" {
			writeJSONError(w, http.StatusBadRequest, "missing credential")
			return
		}

		outcome, err := s.auth.CompleteCredential(r.Context(), auth.CredentialParams{
			Credential:  req.Credential,
			Flow:        req.Flow,
			AccountUUID: req.AccountUUID,
			Redirect:    req.Redirect,
		})
		if err != nil {
			log.Error().Err(err).Str("flow", req.Flow).Msg("credential sign-in failed")
			writeJSONError(w, credentialErrorStatus(err), "sign-in failed")
			return
		}

		if outcome.Flow == token.FlowOwner {
			s.setSessionCookie(w, r, outcome.SessionToken, s.config.GetSessionExpiry())
			writeJSON(w, http.StatusOK, map[string]string{"redirect": outcome.RedirectPath})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"signInUrl": outcome.SignInURL})
	}
}

// LogoutHandler clears the session cookie. The token itself cannot be
// revoked; forgetting it is the logout.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookie(w, r)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// redirectFlowError scopes the error page to the member's sign-in page
// when the failing flow and its account are known.
func (s *Server) redirectFlowError(w http.ResponseWriter, r *http.Request, err error) {
	var flowErr *auth.FlowError
	if errors.As(err, &flowErr) && flowErr.Flow == token.FlowMember && flowErr.AccountUUID != "" {
		redirectWithError(w, r, "/sign-in/"+url.PathEscape(flowErr.AccountUUID), errMarkerSignIn)
		return
	}
	redirectWithError(w, r, "/", errMarkerOAuth)
}

func credentialErrorStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnknownFlow),
		errors.Is(err, auth.ErrMissingAccount),
		errors.Is(err, auth.ErrOneTapRequiresCustom),
		errors.Is(err, auth.ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, accounts.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, marker string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(marker), http.StatusFound)
}
