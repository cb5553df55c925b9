package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contraptionco/trivet/accounts"
	fakeaccountrepo "github.com/contraptionco/trivet/accounts/repofake"
	"github.com/contraptionco/trivet/auth"
	"github.com/contraptionco/trivet/ghost"
	"github.com/contraptionco/trivet/google"
	"github.com/contraptionco/trivet/internal/config"
	"github.com/contraptionco/trivet/logins"
	fakeloginrepo "github.com/contraptionco/trivet/logins/repofake"
	"github.com/contraptionco/trivet/server"
	"github.com/contraptionco/trivet/token"
	"github.com/stretchr/testify/require"
)

const (
	secretStr   = "test-session-secret"
	testBaseURL = "https://trivet.example.com"
	testAdminKey = "6063f9d64f9b2c32a2b13b5c" +
		":5c20c7bd3f4f6ef5d3b8a5e2b9a6c1d0e7f4a3b2c1d0e9f8a7b6c5d4e3f2a1b0"
)

type stubConfig struct {
	config.EnvVars
	config.Cors
	config.Google
	config.Security
}

func (c stubConfig) GetBaseURL() string            { return testBaseURL }
func (c stubConfig) GetGoogleClientID() string     { return "shared-client-id" }
func (c stubConfig) GetGoogleClientSecret() string { return "shared-client-secret" }
func (c stubConfig) GetEnv() string                { return "TEST" }

// testFixture holds all test dependencies
type testFixture struct {
	accountRepo *fakeaccountrepo.FakeAccountRepo
	loginRepo   *fakeloginrepo.FakeLoginRepo
	service     *auth.Service
	server      *server.Server
	ghostStub   *httptest.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ar := fakeaccountrepo.NewFakeAccountRepo()
	lr := fakeloginrepo.NewFakeLoginRepo()
	repos := auth.Repos{Accounts: ar, Logins: lr}

	codec, err := token.NewCodec(secretStr, 10*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	cfg := stubConfig{}

	service, err := auth.NewService(repos, codec, cfg)
	require.NoError(t, err)

	ghostMux := http.NewServeMux()
	ghostMux.HandleFunc("GET /ghost/api/admin/site/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"site":{"title":"Test Blog"}}`))
	})
	ghostStub := httptest.NewServer(ghostMux)
	t.Cleanup(ghostStub.Close)

	srv, err := server.New(cfg, repos, service,
		server.WithGhostClientFactory(func(adminHost, adminAPIKey string) *ghost.Client {
			return ghost.NewClient(ghostStub.URL, adminAPIKey)
		}),
	)
	require.NoError(t, err)

	return &testFixture{
		accountRepo: ar,
		loginRepo:   lr,
		service:     service,
		server:      srv,
		ghostStub:   ghostStub,
	}
}

func (f *testFixture) createAccount(t *testing.T, account *accounts.Account) *accounts.Account {
	t.Helper()

	created, err := f.accountRepo.Create(t.Context(), account)
	require.NoError(t, err)
	return created
}

// sessionCookie mints a valid session cookie for the account.
func (f *testFixture) sessionCookie(t *testing.T, account *accounts.Account) *http.Cookie {
	t.Helper()

	sessionToken, err := f.service.MintSession(account)
	require.NoError(t, err)
	return &http.Cookie{Name: "trivet_session", Value: sessionToken}
}

func (f *testFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestSessionHandler_Unauthenticated(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	require.Equal(t, false, body["authenticated"])
	require.NotContains(t, body, "user")
}

func TestSessionHandler_Authenticated(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com", Name: "Pat"})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	require.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]any)
	require.Equal(t, "owner@example.com", user["email"])
}

func TestAccountHandler_RequiresSession(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/account", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountHandler_Summary(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	require.Equal(t, account.UUID, body["uuid"])
	require.Equal(t, "trivet", body["googleMode"])
	require.Equal(t, false, body["hasAdminKey"])
	require.Equal(t, accounts.OnboardingBlogPath, body["nextStep"])
}

func TestAccountHandler_DeletedAccount(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})
	cookie := f.sessionCookie(t, account)

	require.NoError(t, f.accountRepo.Delete(t.Context(), account.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.AddCookie(cookie)
	rec := f.do(req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	req := httptest.NewRequest(http.MethodDelete, "/api/account", nil)
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	_, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.ErrorIs(t, err, accounts.ErrNotFound)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, "trivet_session", cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0, "session cookie must be cleared")
}

func TestOnboardingBlog(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	blogMux := http.NewServeMux()
	blogMux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	blogMux.HandleFunc("GET /ghost/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://admin.example.ghost.io/ghost/", http.StatusMovedPermanently)
	})
	blogStub := httptest.NewServer(blogMux)
	t.Cleanup(blogStub.Close)

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/blog",
		strings.NewReader(`{"url":"`+blogStub.URL+`"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.NoError(t, err)
	require.Equal(t, blogStub.URL, stored.BlogHost)
	require.Equal(t, "https://admin.example.ghost.io", stored.AdminHost)
}

func TestOnboardingBlog_SameOriginAdmin(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	blogStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(blogStub.Close)

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/blog",
		strings.NewReader(`{"url":"`+blogStub.URL+`"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.NoError(t, err)
	require.Equal(t, blogStub.URL, stored.AdminHost, "non-redirecting blog serves its own admin")
}

func TestOnboardingBlog_Unreachable(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	blogStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(blogStub.Close)

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/blog",
		strings.NewReader(`{"url":"`+blogStub.URL+`"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingBlog_InvalidURL(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/blog",
		strings.NewReader(`{"url":"ftp://blog.example.com"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingAdminKey(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{
		Email:     "owner@example.com",
		BlogHost:  "https://blog.example.net",
		AdminHost: "https://blog.example.net",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/admin-key",
		strings.NewReader(`{"key":"`+testAdminKey+`"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.NoError(t, err)
	require.Equal(t, testAdminKey, stored.AdminAPIKey)
}

func TestOnboardingAdminKey_BadFormat(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{
		Email:     "owner@example.com",
		AdminHost: "https://blog.example.net",
	})

	tests := []string{
		"not-a-key",
		"6063f9d64f9b2c32a2b13b5c",                      // missing secret half
		"zz63f9d64f9b2c32a2b13b5c:" + testAdminKey[25:], // non-hex key ID
	}

	for _, key := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/onboarding/admin-key",
			strings.NewReader(`{"key":"`+key+`"}`))
		req.AddCookie(f.sessionCookie(t, account))
		rec := f.do(req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "key %q should be rejected", key)
	}
}

func TestOnboardingAdminKey_UppercaseHex(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{
		Email:     "owner@example.com",
		AdminHost: "https://blog.example.net",
	})

	key := strings.ToUpper(testAdminKey)
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/admin-key",
		strings.NewReader(`{"key":"`+key+`"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.NoError(t, err)
	require.Equal(t, key, stored.AdminAPIKey)
}

func TestOnboardingAdminKey_RequiresBlog(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/admin-key",
		strings.NewReader(`{"key":"`+testAdminKey+`"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingGoogle_Custom(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/google",
		strings.NewReader(`{"mode":"custom","clientId":"custom-id","clientSecret":"custom-secret"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	require.Equal(t, "custom", body["googleMode"])

	stored, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.NoError(t, err)
	require.True(t, stored.GoogleOauthConfigured)
	require.Equal(t, "custom-id", stored.GoogleOauthClientID)
}

func TestOnboardingGoogle_TrivetClearsCustomPair(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{
		Email:                   "owner@example.com",
		GoogleOauthClientID:     "custom-id",
		GoogleOauthClientSecret: "custom-secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/google",
		strings.NewReader(`{"mode":"trivet"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.accountRepo.GetByID(t.Context(), account.ID)
	require.NoError(t, err)
	require.True(t, stored.GoogleOauthConfigured)
	require.Empty(t, stored.GoogleOauthClientID)
	require.Empty(t, stored.GoogleOauthClientSecret)
}

func TestOnboardingGoogle_CustomRequiresPair(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/google",
		strings.NewReader(`{"mode":"custom","clientId":"custom-id"}`))
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalytics(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for _, row := range []logins.Login{
		{AccountID: account.ID, MemberEmail: "a@example.com", Type: logins.TypeNew, CreatedAt: day},
		{AccountID: account.ID, MemberEmail: "b@example.com", Type: logins.TypeReturning, CreatedAt: day.Add(time.Hour)},
		{AccountID: account.ID + 1, MemberEmail: "c@example.com", Type: logins.TypeNew, CreatedAt: day},
	} {
		require.NoError(t, f.loginRepo.Create(t.Context(), &row))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/analytics", nil)
	req.AddCookie(f.sessionCookie(t, account))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string][]map[string]any](t, rec)
	require.Len(t, body["analytics"], 1)
	require.Equal(t, "2026-08-30", body["analytics"][0]["date"])
	require.Equal(t, float64(1), body["analytics"][0]["new"])
	require.Equal(t, float64(1), body["analytics"][0]["returning"])
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestInitiate_OwnerRedirectsToGoogle(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "accounts.google.com")
}

func TestInitiate_MemberWithoutAccount(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?flow=member", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/?error=missing-account", rec.Header().Get("Location"))
}

func TestInitiate_MemberUnknownAccount(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/google?flow=member&account=no-such-uuid", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/sign-in/no-such-uuid?error=not-found", rec.Header().Get("Location"))
}

func TestCallback_GoogleError(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/callback?error=access_denied", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/?error=oauth", rec.Header().Get("Location"))
}

func TestCallback_GarbageState(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=x&state=garbage", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/?error=oauth", rec.Header().Get("Location"))
}

func TestCallback_ExpiredMemberState(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	// State minted 601 seconds ago against a 10-minute expiry.
	past := time.Now().Add(-601 * time.Second)
	pastCodec, err := token.NewCodec(secretStr, 10*time.Minute, 7*24*time.Hour,
		token.WithNowTime(func() time.Time { return past }))
	require.NoError(t, err)

	state, err := pastCodec.SignState(token.StateClaims{
		Flow:        token.FlowMember,
		AccountUUID: account.UUID,
		Nonce:       "n-1",
	})
	require.NoError(t, err)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=x&state="+state, nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/sign-in/"+account.UUID+"?error=signin", rec.Header().Get("Location"),
		"expired member state must land on the member's own sign-in page")
}

func TestCredential_MissingFields(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/callback",
		strings.NewReader(`{"flow":"member"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCredential_MemberReturnsSignInURL(t *testing.T) {
	ar := fakeaccountrepo.NewFakeAccountRepo()
	lr := fakeloginrepo.NewFakeLoginRepo()
	repos := auth.Repos{Accounts: ar, Logins: lr}

	codec, err := token.NewCodec(secretStr, 10*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	tokenInfoStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"reader@example.com","name":"Reader","aud":"custom-id"}`))
	}))
	t.Cleanup(tokenInfoStub.Close)

	ghostMux := http.NewServeMux()
	ghostMux.HandleFunc("GET /ghost/api/admin/members/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"members":[]}`))
	})
	ghostMux.HandleFunc("POST /ghost/api/admin/members/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"members":[{"id":"m1","email":"reader@example.com","labels":[{"name":"Trivet"}]}]}`))
	})
	ghostMux.HandleFunc("POST /ghost/api/admin/members/{id}/signin_urls/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"https://blog.example.net/members/?token=one-time"}`))
	})
	ghostStub := httptest.NewServer(ghostMux)
	t.Cleanup(ghostStub.Close)

	service, err := auth.NewService(repos, codec, stubConfig{},
		auth.WithGoogleClientFactory(func(clientID, clientSecret, redirectURI string) *google.Client {
			return google.NewClient(clientID, clientSecret, redirectURI,
				google.WithTokenInfoURL(tokenInfoStub.URL))
		}),
		auth.WithGhostClientFactory(func(adminHost, adminAPIKey string) *ghost.Client {
			return ghost.NewClient(ghostStub.URL, adminAPIKey)
		}),
	)
	require.NoError(t, err)

	srv, err := server.New(stubConfig{}, repos, service)
	require.NoError(t, err)

	account, err := ar.Create(t.Context(), &accounts.Account{
		Email:                   "owner@example.com",
		BlogHost:                "https://blog.example.net",
		AdminHost:               "https://blog.example.net",
		AdminAPIKey:             testAdminKey,
		GoogleOauthClientID:     "custom-id",
		GoogleOauthClientSecret: "custom-secret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback",
		strings.NewReader(`{"credential":"stub-credential","flow":"member","accountUuid":"`+account.UUID+`"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	require.Equal(t, "https://blog.example.net/members/?token=one-time", body["signInUrl"])
}

func TestOneTapScript_Placeholder(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{Email: "owner@example.com"})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/embed/trivet-one-tap.js?account="+account.UUID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	require.Contains(t, rec.Body.String(), "not enabled")
}

func TestOneTapScript_Configured(t *testing.T) {
	f := setupTestFixture(t)
	account := f.createAccount(t, &accounts.Account{
		Email:                   "owner@example.com",
		GoogleOauthClientID:     "custom-id",
		GoogleOauthClientSecret: "custom-secret",
	})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/embed/trivet-one-tap.js?account="+account.UUID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Body.String(), `"custom-id"`)
	require.Contains(t, rec.Body.String(), account.UUID)
	require.Contains(t, rec.Body.String(), testBaseURL+"/api/auth/callback")
	require.Contains(t, rec.Body.String(), "data.signInUrl",
		"embed must follow the credential response's field name")
}
