package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creatorstack/creatorstack-backend/api/controllers"
	"github.com/creatorstack/creatorstack-backend/api/middleware"
	"github.com/creatorstack/creatorstack-backend/internal/auth"
	"github.com/creatorstack/creatorstack-backend/internal/campaigns"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/internal/media"
	"github.com/creatorstack/creatorstack-backend/internal/roster"
	"github.com/creatorstack/creatorstack-backend/internal/teams"
	"github.com/creatorstack/creatorstack-backend/pkg/auth/session"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
	"github.com/creatorstack/creatorstack-backend/pkg/redis"
	"github.com/creatorstack/creatorstack-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	metricsRegistry *prometheus.Registry,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	switchService auth.SwitchTeamService,
	teamService teams.Service,
	rosterService roster.Service,
	campaignService campaigns.Service,
	mediaService media.Service,
	invitationService invitations.Service,
	invitationAcceptor invitations.Acceptor,
	roleChecker middleware.RoleChecker,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Invitation.FrontendOrigin),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	acceptPolicy := middleware.NewAuthRateLimitPolicy(
		"accept",
		cfg.AuthRateLimit.AcceptWindow,
		cfg.AuthRateLimit.AcceptIPLimit,
		0,
	)

	manageRoles := middleware.RequireTeamRoles(roleChecker, logg, enums.RoleLevelOwner, enums.RoleLevelAdmin)

	// A nil *redis.Client must stay nil once it crosses into the
	// middleware interfaces, otherwise the nil checks there never fire.
	var idemStore redis.IdempotencyStore
	var rateStore interface {
		IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	}
	if redisClient != nil {
		idemStore = redisClient
		rateStore = redisClient
	}

	readiness := map[string]func(r *http.Request) error{}
	if dbP != nil {
		readiness["database"] = func(r *http.Request) error { return dbP.Ping(r.Context()) }
	}
	if redisClient != nil {
		readiness["redis"] = func(r *http.Request) error { return redisClient.Ping(r.Context()) }
	}
	if gcsClient != nil {
		readiness["gcs"] = func(r *http.Request) error { return gcsClient.Ping(r.Context()) }
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
		r.Post("/switch-team", controllers.AuthSwitchTeam(switchService, cfg.JWT, logg))
	})

	// Acceptance is public: the recipient follows an emailed link and may
	// not have an account yet. The legacy roster path predates the
	// universal endpoint and is kept for links already in inboxes.
	accept := middleware.AuthRateLimit(acceptPolicy, rateStore, logg)(
		controllers.InvitationAccept(invitationAcceptor, cfg.Invitation, logg),
	)
	r.Method(http.MethodGet, "/api/v1/invitations/accept", accept)
	r.Method(http.MethodGet, "/api/v1/roster/invitations/accept", accept)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/teams", func(r chi.Router) {
			r.Post("/", controllers.TeamCreate(teamService, logg))
			r.Get("/", controllers.TeamListMine(teamService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.TeamContext(logg))
				r.Get("/me", controllers.TeamProfile(teamService, logg))
				r.With(manageRoles).Put("/me", controllers.TeamUpdate(teamService, logg))
				r.Get("/me/users", controllers.TeamMembers(teamService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.TeamContext(logg))

			r.Route("/v1/invitations", func(r chi.Router) {
				r.Use(manageRoles)
				r.Post("/", controllers.InvitationCreate(invitationService, logg))
				r.Get("/", controllers.InvitationList(invitationService, logg))
			})

			r.Route("/v1/roster", func(r chi.Router) {
				r.Get("/", controllers.RosterList(rosterService, logg))
				r.Get("/{rosterID}", controllers.RosterGet(rosterService, logg))
				r.With(manageRoles).Post("/", controllers.RosterCreate(rosterService, logg))
				r.With(manageRoles).Put("/{rosterID}", controllers.RosterUpdate(rosterService, logg))
				r.With(manageRoles).Delete("/{rosterID}", controllers.RosterDelete(rosterService, logg))
				r.With(manageRoles).Post("/{rosterID}/portal-invite", controllers.RosterInviteToPortal(rosterService, logg))
			})

			r.Route("/v1/campaigns", func(r chi.Router) {
				r.Get("/", controllers.CampaignList(campaignService, logg))
				r.Get("/{campaignID}", controllers.CampaignGet(campaignService, logg))
				r.With(manageRoles).Post("/", controllers.CampaignCreate(campaignService, logg))
				r.With(manageRoles).Patch("/{campaignID}/status", controllers.CampaignUpdateStatus(campaignService, logg))
				r.With(manageRoles).Put("/{campaignID}/roster", controllers.CampaignAssignRoster(campaignService, logg))
			})

			r.Route("/v1/media", func(r chi.Router) {
				r.Get("/", controllers.MediaList(mediaService, logg))
				r.Post("/presign", controllers.MediaPresign(mediaService, logg))
				r.Delete("/{mediaID}", controllers.MediaDelete(mediaService, logg))
			})
		})
	})

	return r
}
