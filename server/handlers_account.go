package server

import (
	"errors"
	"net/http"

	"github.com/contraptionco/trivet/accounts"
	"github.com/rs/zerolog/log"
)

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
}

type sessionUser struct {
	AccountID int64  `json:"accountId"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
}

// SessionHandler reports whether the request carries a valid session.
// Unauthenticated is a normal answer here, not a 401.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := s.sessionFromRequest(r)
		if claims == nil {
			writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Authenticated: true,
			User: &sessionUser{
				AccountID: claims.AccountID,
				Email:     claims.Email,
				Name:      claims.Name,
			},
		})
	}
}

type accountResponse struct {
	UUID        string `json:"uuid"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	BlogHost    string `json:"blogHost,omitempty"`
	AdminHost   string `json:"adminHost,omitempty"`
	GoogleMode  string `json:"googleMode"`
	HasAdminKey bool   `json:"hasAdminKey"`
	NextStep    string `json:"nextStep"`
}

func accountSummary(account *accounts.Account) accountResponse {
	googleMode := "trivet"
	if account.HasCustomGoogleApp() {
		googleMode = "custom"
	}

	return accountResponse{
		UUID:        account.UUID,
		Email:       account.Email,
		Name:        account.Name,
		BlogHost:    account.BlogHost,
		AdminHost:   account.AdminHost,
		GoogleMode:  googleMode,
		HasAdminKey: account.AdminAPIKey != "",
		NextStep:    account.NextOnboardingPath(),
	}
}

func (s *Server) AccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.sessionAccount(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, accountSummary(account))
	}
}

// DeleteAccountHandler removes the account and its login history, and
// ends the session.
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.sessionAccount(w, r)
		if !ok {
			return
		}

		if err := s.repos.Accounts.Delete(r.Context(), account.ID); err != nil {
			log.Error().Err(err).Int64("account_id", account.ID).Msg("account deletion failed")
			writeJSONError(w, http.StatusInternalServerError, "failed to delete account")
			return
		}

		s.clearSessionCookie(w, r)
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

type analyticsResponse struct {
	Analytics []dailyCount `json:"analytics"`
}

type dailyCount struct {
	Date      string `json:"date"`
	New       int    `json:"new"`
	Returning int    `json:"returning"`
}

// AnalyticsHandler returns the account's member sign-ins aggregated per
// day.
func (s *Server) AnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.sessionAccount(w, r)
		if !ok {
			return
		}

		counts, err := s.repos.Logins.DailyCounts(r.Context(), account.ID)
		if err != nil {
			log.Error().Err(err).Int64("account_id", account.ID).Msg("analytics query failed")
			writeJSONError(w, http.StatusInternalServerError, "failed to load analytics")
			return
		}

		response := analyticsResponse{Analytics: make([]dailyCount, 0, len(counts))}
		for _, c := range counts {
			response.Analytics = append(response.Analytics, dailyCount{
				Date:      c.Date,
				New:       c.New,
				Returning: c.Returning,
			})
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// sessionAccount loads the account behind the verified session. A
// session for a since-deleted account answers 404.
func (s *Server) sessionAccount(w http.ResponseWriter, r *http.Request) (*accounts.Account, bool) {
	claims := sessionClaims(r)
	if claims == nil {
		writeJSONError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}

	account, err := s.repos.Accounts.GetByID(r.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "account not found")
			return nil, false
		}
		log.Error().Err(err).Int64("account_id", claims.AccountID).Msg("account lookup failed")
		writeJSONError(w, http.StatusInternalServerError, "failed to load account")
		return nil, false
	}
	return account, true
}
