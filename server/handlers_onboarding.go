package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"

	"github.com/contraptionco/trivet/safeurl"
	"github.com/rs/zerolog/log"
)

// adminKeyPattern is the shape of a Ghost Admin API key: a 24-hex-char
// key ID and a 64-hex-char secret, colon-separated. Ghost emits
// lowercase hex, but either case decodes.
var adminKeyPattern = regexp.MustCompile(`(?i)^[a-f0-9]{24}:[a-f0-9]{64}$`)

type onboardingBlogRequest struct {
	URL string `json:"url"`
}

// OnboardingBlogHandler records the account's blog. The blog must be
// reachable, and the admin origin is derived by probing /ghost/, which
// Ghost(Pro) blogs redirect to a separate admin domain.
func (s *Server) OnboardingBlogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.sessionAccount(w, r)
		if !ok {
			return
		}

		var req onboardingBlogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSONError(w, http.StatusBadRequest, "missing blog URL")
			return
		}

		blogHost, err := safeurl.NormalizeBlogHost(req.URL)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid blog URL")
			return
		}

		if !s.blogReachable(r, blogHost) {
			writeJSONError(w, http.StatusBadRequest, "blog is not reachable")
			return
		}

		adminHost := s.deriveAdminHost(r, blogHost)

		if err := s.repos.Accounts.SetBlog(r.Context(), account.ID, blogHost, adminHost); err != nil {
			log.Error().Err(err).Int64("account_id", account.ID).Msg("blog update failed")
			writeJSONError(w, http.StatusInternalServerError, "failed to save blog")
			return
		}

		account.BlogHost = blogHost
		account.AdminHost = adminHost
		writeJSON(w, http.StatusOK, accountSummary(account))
	}
}

func (s *Server) blogReachable(r *http.Request, blogHost string) bool {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, blogHost, nil)
	if err != nil {
		return false
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("blog", blogHost).Msg("blog probe failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// deriveAdminHost probes the blog's /ghost/ path without following
// redirects. A redirect to another origin reveals the admin domain;
// anything else means the blog serves its own admin.
func (s *Server) deriveAdminHost(r *http.Request, blogHost string) string {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, blogHost+"/ghost/", nil)
	if err != nil {
		return blogHost
	}

	noRedirect := *s.httpClient
	noRedirect.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := noRedirect.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("blog", blogHost).Msg("admin host probe failed")
		return blogHost
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return blogHost
	}

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil || !location.IsAbs() {
		return blogHost
	}
	return location.Scheme + "://" + location.Host
}

type onboardingAdminKeyRequest struct {
	Key string `json:"key"`
}

// OnboardingAdminKeyHandler validates and stores the blog's Admin API
// key. The key is exercised against the Admin API before it is
// persisted, so a typo fails here rather than on the first member
// sign-in.
func (s *Server) OnboardingAdminKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.sessionAccount(w, r)
		if !ok {
			return
		}

		if account.AdminHost == "" {
			writeJSONError(w, http.StatusBadRequest, "blog must be configured first")
			return
		}

		var req onboardingAdminKeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			writeJSONError(w, http.StatusBadRequest, "missing admin API key")
			return
		}

		if !adminKeyPattern.MatchString(req.Key) {
			writeJSONError(w, http.StatusBadRequest, "admin API key format is invalid")
			return
		}

		if err := s.newGhost(account.AdminHost, req.Key).ValidateKey(r.Context()); err != nil {
			log.Warn().Err(err).Int64("account_id", account.ID).Msg("admin key validation failed")
			writeJSONError(w, http.StatusBadRequest, "admin API key was rejected by the blog")
			return
		}

		if err := s.repos.Accounts.SetAdminAPIKey(r.Context(), account.ID, req.Key); err != nil {
			log.Error().Err(err).Int64("account_id", account.ID).Msg("admin key update failed")
			writeJSONError(w, http.StatusInternalServerError, "failed to save admin API key")
			return
		}

		account.AdminAPIKey = req.Key
		writeJSON(w, http.StatusOK, accountSummary(account))
	}
}

type onboardingGoogleRequest struct {
	Mode         string `json:"mode"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// OnboardingGoogleHandler records which Google app the account's member
// flow uses: the shared Trivet app or the account's own client pair.
func (s *Server) OnboardingGoogleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.sessionAccount(w, r)
		if !ok {
			return
		}

		var req onboardingGoogleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		switch req.Mode {
		case "trivet":
			req.ClientID, req.ClientSecret = "", ""
		case "custom":
			if req.ClientID == "" || req.ClientSecret == "" {
				writeJSONError(w, http.StatusBadRequest, "custom mode requires a client ID and secret")
				return
			}
		default:
			writeJSONError(w, http.StatusBadRequest, "mode must be trivet or custom")
			return
		}

		if err := s.repos.Accounts.SetGoogleOAuth(r.Context(), account.ID, req.ClientID, req.ClientSecret); err != nil {
			log.Error().Err(err).Int64("account_id", account.ID).Msg("google mode update failed")
			writeJSONError(w, http.StatusInternalServerError, "failed to save Google settings")
			return
		}

		account.GoogleOauthClientID = req.ClientID
		account.GoogleOauthClientSecret = req.ClientSecret
		account.GoogleOauthConfigured = true
		writeJSON(w, http.StatusOK, accountSummary(account))
	}
}
