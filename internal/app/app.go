package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"

	"github.com/fitclash/fitclash/external/novu"
	"github.com/fitclash/fitclash/external/onesignal"
	"github.com/fitclash/fitclash/internal/config"
	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/standings"
	cacherepo "github.com/fitclash/fitclash/internal/infrastructure/repository/cache"
	"github.com/fitclash/fitclash/internal/infrastructure/repository/postgres"
	"github.com/fitclash/fitclash/internal/interfaces/httpapi"
	basecache "github.com/fitclash/fitclash/internal/platform/cache"
	idgen "github.com/fitclash/fitclash/internal/platform/id"
	"github.com/fitclash/fitclash/internal/platform/logging"
	"github.com/fitclash/fitclash/internal/platform/resilience"
	"github.com/fitclash/fitclash/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned cleanup closes the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.name", dbNameFromURL(cfg.DBURL)),
		),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	competitionRepo := competition.Repository(postgres.NewCompetitionRepository(db))
	standingsRepo := standings.Repository(postgres.NewStandingsRepository(db))
	participantRepo := postgres.NewParticipantRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	tokenRepo := postgres.NewAPITokenRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	userRepo := postgres.NewUserRepository(db)
	jobRunRepo := postgres.NewJobRunRepository(db)

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		competitionRepo = cacherepo.NewCompetitionRepository(competitionRepo, store)
		standingsRepo = cacherepo.NewStandingsRepository(standingsRepo, store)
	}

	idGen := idgen.NewRandomGenerator()

	standingsSvc := usecase.NewStandingsService(competitionRepo, participantRepo, standingsRepo)
	competitionSvc := usecase.NewCompetitionService(competitionRepo, participantRepo, entryRepo, idGen)
	entrySvc := usecase.NewEntryService(entryRepo, competitionRepo, participantRepo, standingsSvc, idGen, logger)
	notificationSvc := usecase.NewNotificationService(notificationRepo, newPushSender(cfg, logger), usecase.DrainConfig{
		BatchSize: cfg.PushDrainBatchSize,
		Workers:   cfg.PushDrainWorkers,
	}, logger)
	tokenSvc := usecase.NewTokenService(tokenRepo, userRepo, idGen, cfg.TokenDefaultTTL, logger)
	chatSvc := usecase.NewChatService(chatRepo, participantRepo, competitionRepo, notificationRepo, idGen, logger)
	lifecycleSvc := usecase.NewLifecycleService(
		competitionRepo,
		participantRepo,
		entryRepo,
		standingsRepo,
		standingsSvc,
		notificationRepo,
		jobRunRepo,
		idGen,
		usecase.LifecycleConfig{ReminderInactivity: cfg.ReminderInactivity},
		logger,
	)

	handler := httpapi.NewHandler(
		competitionSvc,
		entrySvc,
		standingsSvc,
		notificationSvc,
		tokenSvc,
		chatSvc,
		lifecycleSvc,
		jobRunRepo,
		logger,
	)
	router := httpapi.NewRouter(handler, tokenSvc, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(context.Context) error {
		return db.Close()
	}

	return server, cleanup, nil
}

func newPushSender(cfg config.Config, logger *logging.Logger) usecase.PushSender {
	switch cfg.PushProvider {
	case config.PushProviderNovu:
		return novu.NewClient(novu.Config{
			BaseURL:    cfg.NovuBaseURL,
			APIKey:     cfg.NovuAPIKey,
			Timeout:    cfg.NovuTimeout,
			MaxRetries: cfg.NovuMaxRetries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NovuCircuitEnabled,
				FailureThreshold: cfg.NovuCircuitFailureCount,
				OpenTimeout:      cfg.NovuCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NovuCircuitHalfOpenMaxReq,
			},
		}, logger)
	case config.PushProviderOneSignal:
		return onesignal.NewClient(onesignal.Config{
			BaseURL:    cfg.OneSignalBaseURL,
			AppID:      cfg.OneSignalAppID,
			APIKey:     cfg.OneSignalAPIKey,
			Timeout:    cfg.OneSignalTimeout,
			MaxRetries: cfg.OneSignalMaxRetries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.OneSignalCircuitEnabled,
				FailureThreshold: cfg.OneSignalCircuitFailureCount,
				OpenTimeout:      cfg.OneSignalCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.OneSignalCircuitHalfOpenMaxReq,
			},
		}, logger)
	default:
		logger.Info("push delivery disabled", "provider", cfg.PushProvider)
		return usecase.NewNoopPushSender()
	}
}
