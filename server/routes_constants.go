package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthInitiate = "/api/auth/google"
	RouteAuthCallback = "/api/auth/callback"
	RouteAuthLogout   = "/api/auth/logout"

	// Session & Account Routes
	RouteSession = "/api/session"
	RouteAccount = "/api/account"

	// Onboarding Routes
	RouteOnboardingBlog     = "/api/onboarding/blog"
	RouteOnboardingAdminKey = "/api/onboarding/admin-key"
	RouteOnboardingGoogle   = "/api/onboarding/google"

	// Dashboard Routes
	RouteAnalytics = "/api/dashboard/analytics"

	// Embed Routes
	RouteOneTapScript = "/embed/trivet-one-tap.js"

	// Observability Routes
	RouteMetrics = "/metrics"
)
