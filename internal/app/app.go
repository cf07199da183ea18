package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/goalcast/goalcast/external/notify"
	"github.com/goalcast/goalcast/external/sportsdb"
	"github.com/goalcast/goalcast/internal/config"
	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	"github.com/goalcast/goalcast/internal/domain/league"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/domain/notification"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/domain/userstats"
	"github.com/goalcast/goalcast/internal/infrastructure/repository/memory"
	"github.com/goalcast/goalcast/internal/infrastructure/repository/postgres"
	"github.com/goalcast/goalcast/internal/interfaces/httpapi"
	"github.com/goalcast/goalcast/internal/platform/cache"
	idgen "github.com/goalcast/goalcast/internal/platform/id"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/goalcast/goalcast/internal/platform/resilience"
	"github.com/goalcast/goalcast/internal/usecase"
)

type repositories struct {
	predictions  prediction.Repository
	results      matchresult.Repository
	matches      match.Repository
	stats        userstats.Repository
	leaderboards leaderboard.Repository
	achievements achievement.Repository
	leagues      league.Repository
}

// NewHTTPServer wires repositories, provider client, services, and the HTTP
// router. The returned close func releases the DB handle; it is a no-op in
// memory mode.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger, accessLogger *slog.Logger) (*http.Server, func() error, error) {
	repos, closeFn, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	gateway := sportsdb.NewClient(sportsdb.ClientConfig{
		BaseURL:        cfg.SportsDBBaseURL,
		APIKey:         cfg.SportsDBAPIKey,
		AttemptTimeout: cfg.SportsDBAttemptTimeout,
		MaxAttempts:    cfg.SportsDBMaxAttempts,
		RequestSpacing: cfg.SportsDBRequestSpacing,
		SeasonOverride: cfg.SportsDBSeasonOverride,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportsDBCircuitEnabled,
			FailureThreshold: cfg.SportsDBCircuitFailureCount,
			OpenTimeout:      cfg.SportsDBCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportsDBCircuitHalfOpenMaxReq,
		},
	})

	var notifier notification.Notifier = notification.NopNotifier{}
	if cfg.WebhookEnabled {
		notifier = notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			BaseURL: cfg.WebhookBaseURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, idgen.NewRandomGenerator(), logger)
	}

	var statsCache, summaryCache *cache.Store
	if cfg.CacheEnabled {
		statsCache = cache.NewStore(cfg.StatsCacheTTL)
		summaryCache = cache.NewStore(cfg.AchievementCacheTTL)
	}

	statsSvc := usecase.NewStatsService(repos.stats, repos.predictions, statsCache, logger)
	scoringSvc := usecase.NewScoringService(repos.predictions, statsSvc, notifier, logger)
	resultsSvc := usecase.NewResultsService(
		repos.results,
		gateway,
		repos.matches,
		scoringSvc,
		competition.DefaultRegistry(),
		cfg.ResultsMaxAPICalls,
		logger,
	)
	predictionSvc := usecase.NewPredictionService(repos.predictions, repos.matches, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.leaderboards, repos.leagues, repos.predictions, repos.matches, logger)
	achievementSvc := usecase.NewAchievementService(repos.achievements, notifier, summaryCache, logger)

	handler := httpapi.NewHandler(resultsSvc, scoringSvc, predictionSvc, statsSvc, leaderboardSvc, achievementSvc, accessLogger)
	router := httpapi.NewRouter(handler, accessLogger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeFn, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if cfg.UseMemoryRepositories() {
		logger.Info("using in-memory repositories")
		return repositories{
			predictions:  memory.NewPredictionRepository(nil),
			results:      memory.NewMatchResultRepository(nil),
			matches:      memory.NewMatchRepository(memory.SeedMatches()),
			stats:        memory.NewUserStatsRepository(nil),
			leaderboards: memory.NewLeaderboardRepository(),
			achievements: memory.NewAchievementRepository(),
			leagues:      memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedLeagueMembers()),
		}, func() error { return nil }, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("using postgres repositories", "db", dbNameFromURL(cfg.DBURL))
	return repositories{
		predictions:  postgres.NewPredictionRepository(db),
		results:      postgres.NewMatchResultRepository(db),
		matches:      postgres.NewMatchRepository(db),
		stats:        postgres.NewUserStatsRepository(db),
		leaderboards: postgres.NewLeaderboardRepository(db),
		achievements: postgres.NewAchievementRepository(db),
		leagues:      postgres.NewLeagueRepository(db),
	}, db.Close, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}
