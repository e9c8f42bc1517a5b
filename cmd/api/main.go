package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/creatorstack/creatorstack-backend/api/routes"
	"github.com/creatorstack/creatorstack-backend/internal/auth"
	"github.com/creatorstack/creatorstack-backend/internal/campaigns"
	"github.com/creatorstack/creatorstack-backend/internal/email"
	"github.com/creatorstack/creatorstack-backend/internal/invitations"
	"github.com/creatorstack/creatorstack-backend/internal/media"
	"github.com/creatorstack/creatorstack-backend/internal/roles"
	"github.com/creatorstack/creatorstack-backend/internal/roster"
	"github.com/creatorstack/creatorstack-backend/internal/teams"
	"github.com/creatorstack/creatorstack-backend/internal/users"
	"github.com/creatorstack/creatorstack-backend/pkg/auth/session"
	"github.com/creatorstack/creatorstack-backend/pkg/config"
	"github.com/creatorstack/creatorstack-backend/pkg/db"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
	"github.com/creatorstack/creatorstack-backend/pkg/metrics"
	"github.com/creatorstack/creatorstack-backend/pkg/migrate"
	"github.com/creatorstack/creatorstack-backend/pkg/redis"
	"github.com/creatorstack/creatorstack-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	invitationMetrics := metrics.NewInvitationMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	teamsRepo := teams.NewRepository(dbClient.DB())
	rolesRepo := roles.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		RolesRepo:      rolesRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	switchService, err := auth.NewSwitchTeamService(auth.SwitchTeamServiceParams{
		RolesRepo:      rolesRepo,
		TeamsRepo:      teamsRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create switch-team service", err)
		os.Exit(1)
	}

	handlerRegistry := invitations.NewRegistry(logg)

	invitationService, err := invitations.NewService(invitations.ServiceParams{
		TxRunner:  dbClient,
		Registry:  handlerRegistry,
		InviteCfg: cfg.Invitation,
		Logger:    logg,
		Metrics:   invitationMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invitation service", err)
		os.Exit(1)
	}

	sessionIssuer, err := auth.NewSessionIssuer(sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session issuer", err)
		os.Exit(1)
	}

	invitationAcceptor, err := invitations.NewAcceptor(invitations.AcceptorParams{
		TxRunner: dbClient,
		Registry: handlerRegistry,
		Sessions: sessionIssuer,
		Logger:   logg,
		Metrics:  invitationMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invitation acceptor", err)
		os.Exit(1)
	}

	teamService, err := teams.NewService(teams.ServiceParams{TxRunner: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create team service", err)
		os.Exit(1)
	}

	rosterService, err := roster.NewService(roster.ServiceParams{
		Repo:      roster.NewRepository(dbClient.DB()),
		TeamsRepo: teamsRepo,
		Invites:   invitationService,
		Mailer:    email.NewService(cfg.Sendgrid, logg),
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create roster service", err)
		os.Exit(1)
	}

	campaignService, err := campaigns.NewService(campaigns.ServiceParams{TxRunner: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create campaign service", err)
		os.Exit(1)
	}

	// Media needs a bucket. Without one the endpoints report a
	// configuration error instead of blocking the rest of the API.
	var gcsPinger gcs.Pinger
	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		defer func() {
			if err := gcsClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing gcs", err)
			}
		}()
		gcsPinger = gcsClient

		mediaService, err = media.NewService(media.ServiceParams{
			TxRunner:    dbClient,
			GCS:         gcsClient,
			Bucket:      cfg.GCS.BucketName,
			UploadTTL:   cfg.GCS.UploadURLExpiry,
			DownloadTTL: cfg.GCS.DownloadURLExpiry,
			MaxUploadMB: cfg.Media.MaxUploadMB,
			Logger:      logg,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, media endpoints disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsPinger,
			registry,
			sessionManager,
			authService,
			registerService,
			switchService,
			teamService,
			rosterService,
			campaignService,
			mediaService,
			invitationService,
			invitationAcceptor,
			rolesRepo,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
