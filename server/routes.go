package server

import "github.com/prometheus/client_golang/prometheus/promhttp"

func (s *Server) initRoutes() {
	// Sign-in flows
	s.RegisterRouteFunc("GET "+RouteAuthInitiate, s.InitiateSignInHandler())
	s.RegisterRouteFunc("GET "+RouteAuthCallback, s.CallbackHandler())
	s.RegisterRouteHandler("POST "+RouteAuthCallback, ChainMiddleware(s.CredentialHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthLogout, s.LogoutHandler())

	// Session & account
	s.RegisterRouteFunc("GET "+RouteSession, s.SessionHandler())
	s.RegisterRouteHandler("GET "+RouteAccount, ChainMiddleware(s.AccountHandler(), s.RequireSessionAuth()))
	s.RegisterRouteHandler("DELETE "+RouteAccount, ChainMiddleware(s.DeleteAccountHandler(), s.RequireSessionAuth()))

	// Onboarding
	s.RegisterRouteHandler("POST "+RouteOnboardingBlog, ChainMiddleware(s.OnboardingBlogHandler(), s.RequireSessionAuth()))
	s.RegisterRouteHandler("POST "+RouteOnboardingAdminKey, ChainMiddleware(s.OnboardingAdminKeyHandler(), s.RequireSessionAuth()))
	s.RegisterRouteHandler("POST "+RouteOnboardingGoogle, ChainMiddleware(s.OnboardingGoogleHandler(), s.RequireSessionAuth()))

	// Dashboard
	s.RegisterRouteHandler("GET "+RouteAnalytics, ChainMiddleware(s.AnalyticsHandler(), s.RequireSessionAuth()))

	// Embeds
	s.RegisterRouteHandler("GET "+RouteOneTapScript, ChainMiddleware(s.OneTapScriptHandler(), s.APIMiddleware()...))

	// Observability
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
