package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	"github.com/aussiebroadwan/tandem/internal/tandem/metrics"
	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/slogx"

	_ "github.com/aussiebroadwan/tandem/api/tandem" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultMaxUploadBytes bounds multipart bodies (profile photos).
const DefaultMaxUploadBytes = 5 << 20

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	CredentialService *service.CredentialService
	SessionService    *service.SessionService
	SocialService     *service.SocialService
	MessagingService  *service.MessagingService
	BadgeService      *service.BadgeService

	Photos blob.Storage
	// UploadsDir, when set, is served under /uploads/ for the local photo
	// driver.
	UploadsDir string

	SecureCookies           bool
	ExposeVerificationLinks bool
	MaxUploadBytes          int64
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		store:          st,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerPassword()
	r.registerSocial()
	r.registerMessages()
	r.registerBadges()
	r.registerSystem()

	if r.UploadsDir != "" {
		r.handle("GET /uploads/", uploadsHandler(r.UploadsDir), httpx.RateLimitByIP(httpx.PublicLimit))
	}
	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tandem Language Exchange API
//	@version		0.1.0
//	@description	Accounts, sessions, contacts, partner matching, direct messages and badges for a language-exchange community.
//	@description
//	@description				Authenticated endpoints expect the opaque session cookie "user" set by POST /v1/login.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tandem
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						user
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern with per-route middleware and metrics
// labelled by the pattern.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	r.Mux.Handle(pattern, metrics.Instrument(pattern, httpx.Chain(h, mws...)))
}

// secured prepends session enforcement and a per-user rate limit.
func (r *Router) secured(limit httpx.RateLimitConfig) []httpx.Middleware {
	return []httpx.Middleware{
		httpx.RequireSession(r.SessionService),
		httpx.RateLimitByUser(limit),
	}
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{
		Credentials:   r.CredentialService,
		Sessions:      r.SessionService,
		Photos:        r.Photos,
		SecureCookies: r.SecureCookies,
		ExposeLinks:   r.ExposeVerificationLinks,
		MaxUpload:     r.MaxUploadBytes,
	}

	// Public, strict: account creation and credential checks
	r.handle("POST /v1/register", http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(httpx.StrictLimit))
	r.handle("GET /v1/verify-email", http.HandlerFunc(h.HandleVerifyEmail), httpx.RateLimitByIP(httpx.StrictLimit))
	// Target of the emailed verification link.
	r.handle("GET /verify-email", http.HandlerFunc(h.HandleVerifyEmail), httpx.RateLimitByIP(httpx.StrictLimit))
	r.handle("POST /v1/login", http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
	)
	r.handle("POST /v1/logout", http.HandlerFunc(h.HandleLogout), httpx.RateLimitByIP(httpx.ModerateLimit))

	r.handle("GET /v1/me", http.HandlerFunc(h.HandleMe), r.secured(httpx.LenientLimit)...)
	r.handle("PATCH /v1/me", http.HandlerFunc(h.HandleUpdateMe), r.secured(httpx.ModerateLimit)...)
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{
		Credentials: r.CredentialService,
		Sessions:    r.SessionService,
	}

	// Form tokens are six digits, so guessing is throttled hard.
	r.handle("POST /v1/password/reset/request", http.HandlerFunc(h.HandleResetRequest), r.secured(httpx.StrictLimit)...)
	r.handle("POST /v1/password/reset", http.HandlerFunc(h.HandleReset), r.secured(httpx.StrictLimit)...)
}

func (r *Router) registerSocial() {
	h := &SocialHandler{
		Social:      r.SocialService,
		Credentials: r.CredentialService,
		Photos:      r.Photos,
	}

	r.handle("GET /v1/contacts", http.HandlerFunc(h.HandleContacts), r.secured(httpx.LenientLimit)...)
	r.handle("POST /v1/contacts/{username}", http.HandlerFunc(h.HandleAddContact), r.secured(httpx.ModerateLimit)...)
	r.handle("DELETE /v1/contacts/{username}", http.HandlerFunc(h.HandleRemoveContact), r.secured(httpx.ModerateLimit)...)
	r.handle("POST /v1/blocked/{username}", http.HandlerFunc(h.HandleBlock), r.secured(httpx.ModerateLimit)...)
	r.handle("DELETE /v1/blocked/{username}", http.HandlerFunc(h.HandleUnblock), r.secured(httpx.ModerateLimit)...)
	r.handle("GET /v1/matches", http.HandlerFunc(h.HandleMatches), r.secured(httpx.LenientLimit)...)
	r.handle("GET /v1/users", http.HandlerFunc(h.HandleUsers), r.secured(httpx.LenientLimit)...)
}

func (r *Router) registerMessages() {
	h := &MessagesHandler{Messaging: r.MessagingService}

	r.handle("POST /v1/messages/{username}", http.HandlerFunc(h.HandleSend), r.secured(httpx.ModerateLimit)...)
	r.handle("GET /v1/messages/{username}", http.HandlerFunc(h.HandleConversation), r.secured(httpx.LenientLimit)...)
}

func (r *Router) registerBadges() {
	h := &BadgesHandler{
		Badges:      r.BadgeService,
		Credentials: r.CredentialService,
	}

	r.handle("GET /v1/badges", http.HandlerFunc(h.HandleList), r.secured(httpx.LenientLimit)...)
	r.handle("POST /v1/badges/assign", http.HandlerFunc(h.HandleAssign), r.secured(httpx.ModerateLimit)...)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion), httpx.RateLimitByIP(httpx.LenientLimit))
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store), httpx.RateLimitByIP(httpx.LenientLimit))
	r.Mux.Handle("GET /metrics", metrics.Handler())
}

// uploadsHandler serves stored photos without directory listings.
func uploadsHandler(dir string) http.Handler {
	fs := http.StripPrefix("/"+strings.TrimSuffix(blob.LocalPrefix, "/"), http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
