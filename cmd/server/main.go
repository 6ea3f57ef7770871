// server runs the tenant-accounts HTTP API and the gRPC health listener.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"tenant-accounts/backend/internal/config"
	"tenant-accounts/backend/internal/db"
	"tenant-accounts/backend/internal/db/memstore"
	healthhandler "tenant-accounts/backend/internal/health/handler"
	identityhandler "tenant-accounts/backend/internal/identity/handler"
	identityservice "tenant-accounts/backend/internal/identity/service"
	membershiphandler "tenant-accounts/backend/internal/membership/handler"
	membershiprepo "tenant-accounts/backend/internal/membership/repository"
	membershipservice "tenant-accounts/backend/internal/membership/service"
	"tenant-accounts/backend/internal/notify"
	organizationhandler "tenant-accounts/backend/internal/organization/handler"
	organizationrepo "tenant-accounts/backend/internal/organization/repository"
	organizationservice "tenant-accounts/backend/internal/organization/service"
	reporthandler "tenant-accounts/backend/internal/report/handler"
	reportrepo "tenant-accounts/backend/internal/report/repository"
	reportservice "tenant-accounts/backend/internal/report/service"
	rolehandler "tenant-accounts/backend/internal/role/handler"
	rolerepo "tenant-accounts/backend/internal/role/repository"
	roleservice "tenant-accounts/backend/internal/role/service"
	"tenant-accounts/backend/internal/security"
	"tenant-accounts/backend/internal/server"
	"tenant-accounts/backend/internal/server/middleware"
	"tenant-accounts/backend/internal/telemetry"
	otelsetup "tenant-accounts/backend/internal/telemetry/otel"
	"tenant-accounts/backend/internal/telemetry/producer"
	userhandler "tenant-accounts/backend/internal/user/handler"
	userrepo "tenant-accounts/backend/internal/user/repository"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newStores,
			newTokenProvider,
			newNotifier,
			newEventEmitter,
			newRoleService,
			newOrganizationService,
			newMembershipService,
			newAuthService,
			newReportService,
			newHandlers,
			newRouter,
			server.NewHTTPServer,
			newGRPCServer,
		),
		fx.Invoke(startHTTPServer, startGRPCServer),
	)
	app.Run()
}

func newConfig() (*config.Config, error) {
	return config.Load()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*otelsetup.Providers, error) {
	providers, err := otelsetup.NewProviders(context.Background(), otelsetup.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}
	providers.SetGlobal()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return providers.Shutdown(stopCtx)
		},
	})
	if cfg.OTLPEndpoint != "" {
		logger.Info("otel exporting", zap.String("endpoint", cfg.OTLPEndpoint))
	}
	return providers, nil
}

// stores holds the persistence the services run on: Postgres when DATABASE_URL is set, the
// in-memory store otherwise.
type stores struct {
	Users       userrepo.Repository
	Orgs        organizationrepo.Repository
	Roles       rolerepo.Repository
	Memberships membershiprepo.Repository
	Reports     reportrepo.Repository
	Pinger      healthhandler.Pinger
}

func newStores(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; using the in-memory store, data is lost on restart")
		mem := memstore.New()
		return &stores{
			Users:       mem.Users(),
			Orgs:        mem.Organizations(),
			Roles:       mem.Roles(),
			Memberships: mem.Memberships(),
			Reports:     mem.Reports(),
			Pinger:      mem,
		}, nil
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return conn.Close() },
	})
	return postgresStores(conn), nil
}

func postgresStores(conn *sql.DB) *stores {
	return &stores{
		Users:       userrepo.NewPostgresRepository(conn),
		Orgs:        organizationrepo.NewPostgresRepository(conn),
		Roles:       rolerepo.NewPostgresRepository(conn),
		Memberships: membershiprepo.NewPostgresRepository(conn),
		Reports:     reportrepo.NewPostgresRepository(conn),
		Pinger:      conn,
	}
}

func newTokenProvider(cfg *config.Config, logger *zap.Logger) (*security.TokenProvider, error) {
	if cfg.JWTPrivateKey != "" && cfg.JWTPublicKey != "" {
		signer, pub, err := security.LoadKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("jwt keys: %w", err)
		}
		return security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience,
			cfg.AccessTTL(), cfg.RefreshTTL(), cfg.InviteTTL()), nil
	}
	if !cfg.IsDevelopment() {
		return nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set outside development")
	}
	signer, err := security.GenerateEphemeralKey()
	if err != nil {
		return nil, fmt.Errorf("ephemeral jwt key: %w", err)
	}
	logger.Warn("JWT keys not configured; signing with an ephemeral key")
	return security.NewTokenProvider(signer, signer.Public(), cfg.JWTIssuer, cfg.JWTAudience,
		cfg.AccessTTL(), cfg.RefreshTTL(), cfg.InviteTTL()), nil
}

func newNotifier(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *notify.Notifier {
	var sender notify.Sender
	switch cfg.MailDriver {
	case "smtp":
		sender = notify.NewSMTPSender(cfg.MailFrom, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost, cfg.SMTPPort)
	case "relay":
		sender = notify.NewRelaySender(cfg.MailRelayAPIKey, cfg.MailRelayURL, cfg.MailFrom)
	default:
		sender = notify.NewLogSender(logger)
	}
	n := notify.NewNotifier(sender, cfg.InviteBaseURL, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			n.Wait()
			return nil
		},
	})
	return n
}

func newEventEmitter(lc fx.Lifecycle, cfg *config.Config, providers *otelsetup.Providers, logger *zap.Logger) (telemetry.EventEmitter, error) {
	sinks := telemetry.Fanout{otelsetup.NewEventEmitter(providers.LoggerProvider)}
	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	if kafkaProducer != nil {
		sinks = append(sinks, kafkaProducer)
		logger.Info("membership events published to kafka", zap.String("topic", cfg.EventsKafkaTopic))
	}
	async := telemetry.NewAsync(sinks, logger)
	lc.Append(fx.Hook{
		// Registered after the providers, so it stops first and in-flight emits still reach them.
		OnStop: func(ctx context.Context) error {
			if err := async.Drain(ctx); err != nil {
				logger.Warn("membership events not drained", zap.Error(err))
			}
			return kafkaProducer.Close()
		},
	})
	return async, nil
}

func newRoleService(s *stores, logger *zap.Logger) *roleservice.Service {
	return roleservice.NewService(s.Roles, s.Orgs, logger)
}

func newOrganizationService(s *stores, logger *zap.Logger) *organizationservice.Service {
	return organizationservice.NewService(s.Orgs, logger)
}

func newMembershipService(s *stores, roles *roleservice.Service, tokens *security.TokenProvider,
	n *notify.Notifier, events telemetry.EventEmitter, providers *otelsetup.Providers, logger *zap.Logger,
) (*membershipservice.Service, error) {
	var meter metric.Meter = providers.MeterProvider.Meter("tenant-accounts/membership")
	return membershipservice.NewService(membershipservice.Deps{
		Memberships: s.Memberships,
		Users:       s.Users,
		Orgs:        s.Orgs,
		Roles:       s.Roles,
		Provisioner: roles,
		Invites:     tokens,
		Notifier:    n,
		Events:      events,
		Meter:       meter,
		Log:         logger,
	})
}

func newAuthService(cfg *config.Config, s *stores, orgs *organizationservice.Service,
	members *membershipservice.Service, tokens *security.TokenProvider, n *notify.Notifier, logger *zap.Logger,
) *identityservice.AuthService {
	return identityservice.NewAuthService(identityservice.Deps{
		Users:             s.Users,
		Orgs:              orgs,
		Owners:            members,
		Hasher:            security.NewHasher(cfg.BcryptCost),
		Tokens:            tokens,
		Notifier:          n,
		PasswordMinLength: cfg.PasswordMinLength,
		Log:               logger,
	})
}

func newReportService(s *stores, logger *zap.Logger) *reportservice.Service {
	return reportservice.NewService(s.Reports, logger)
}

func newHandlers(s *stores, auth *identityservice.AuthService, orgs *organizationservice.Service,
	roles *roleservice.Service, members *membershipservice.Service, reports *reportservice.Service,
	tokens *security.TokenProvider, logger *zap.Logger,
) server.Handlers {
	return server.Handlers{
		Auth:          identityhandler.NewHandler(auth, logger),
		Users:         userhandler.NewHandler(s.Users, logger),
		Organizations: organizationhandler.NewHandler(orgs, logger),
		Roles:         rolehandler.NewHandler(roles, logger),
		Members:       membershiphandler.NewHandler(members, logger),
		Reports:       reporthandler.NewHandler(reports, logger),
		Health:        healthhandler.NewServer(s.Pinger),
		Keys:          tokens,
	}
}

func newRouter(cfg *config.Config, h server.Handlers, tokens *security.TokenProvider, logger *zap.Logger) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName: cfg.ServiceName,
		Tokens:      tokens,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute),
		Log:         logger,
	}, h)
}

func newGRPCServer(h server.Handlers) *grpc.Server {
	return server.NewGRPCServer(h.Health)
}

// runInBackground starts run on fx start and cancels it on stop, waiting for it to return.
func runInBackground(lc fx.Lifecycle, logger *zap.Logger, name string, run func(context.Context) error) {
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})
			go func() {
				defer close(done)
				if err := run(runCtx); err != nil {
					logger.Error(name+" stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg *config.Config, logger *zap.Logger) {
	runInBackground(lc, logger, "http server", func(ctx context.Context) error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		return srv.Run(ctx, cfg.HTTPAddr)
	})
}

func startGRPCServer(lc fx.Lifecycle, srv *grpc.Server, cfg *config.Config, logger *zap.Logger) {
	if cfg.GRPCAddr == "" {
		return
	}
	runInBackground(lc, logger, "grpc server", func(ctx context.Context) error {
		logger.Info("grpc health listening", zap.String("addr", cfg.GRPCAddr))
		return server.RunGRPC(ctx, srv, cfg.GRPCAddr)
	})
}
