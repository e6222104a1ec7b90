package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	adapthttp "quitplan/internal/adapter/http"
	adaptkafka "quitplan/internal/adapter/kafka"
	"quitplan/internal/adapter/memory"
	"quitplan/internal/adapter/postgres"
	"quitplan/internal/app"
	"quitplan/internal/config"
	"quitplan/internal/domain"
	"quitplan/internal/logging"
	"quitplan/internal/metrics"
)

const sessionPurgeInterval = time.Hour

func main() {
	configPath := flag.String("config", "", "path to a config file (default: quitplan.yaml in ., ./config, /etc/quitplan)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type repositories struct {
	consumption domain.ConsumptionRepository
	profiles    domain.ProfileRepository
	users       domain.UserRepository
	sessions    domain.SessionRepository
	close       func() error
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("database_url not set; using in-memory storage")
		db := memory.New()
		return &repositories{
			consumption: db, profiles: db, users: db, sessions: db.NewSessionRepo(),
			close: func() error { return nil },
		}, nil
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return &repositories{
		consumption: db, profiles: db, users: db, sessions: postgres.NewSessionRepo(db),
		close: db.Close,
	}, nil
}

func openOIDC(ctx context.Context, cfg config.OIDCConfig) (adapthttp.OIDCConfig, error) {
	if cfg.Issuer == "" {
		return adapthttp.OIDCConfig{}, nil
	}
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider: %w", err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = repos.close() }()

	m := metrics.New()

	consumptionSvc := app.NewConsumptionService(repos.consumption, repos.profiles).
		WithMetrics(m).
		WithLogger(logger)
	if kc := (adaptkafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}); kc.Enabled() {
		pub, err := adaptkafka.NewPublisher(kc, logger)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer func() { _ = pub.Close() }()
		consumptionSvc.WithPublisher(pub)
		logger.Info("publishing consumption events", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}

	authSvc := app.NewAuthService(repos.users, repos.sessions).WithSessionTTL(cfg.Session.TTL)
	svc := adapthttp.Services{
		Consumption: consumptionSvc,
		Profiles:    app.NewProfileService(repos.profiles).WithMetrics(m),
		Progress:    app.NewProgressService(repos.profiles, repos.consumption),
		Stats:       app.NewStatsService(repos.profiles, repos.consumption),
		Auth:        authSvc,
	}

	oidcConfig, err := openOIDC(ctx, cfg.OIDC)
	if err != nil {
		return err
	}

	go purgeSessions(ctx, authSvc, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(svc, oidcConfig, cfg.WebDir, m, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "sso", oidcConfig.Enabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func purgeSessions(ctx context.Context, auth *app.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PurgeExpired(ctx); err != nil {
				logger.Warn("purge expired sessions", "err", err)
			}
		}
	}
}
