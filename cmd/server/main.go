package main

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/probelab/accountd/migrations"
	"github.com/probelab/accountd/modules/account"
	"github.com/probelab/accountd/pkg/auth"
	"github.com/probelab/accountd/pkg/config"
	"github.com/probelab/accountd/pkg/cookie"
	"github.com/probelab/accountd/pkg/email"
	"github.com/probelab/accountd/pkg/httpserver"
	"github.com/probelab/accountd/pkg/logger"
	"github.com/probelab/accountd/pkg/pg"
	"github.com/probelab/accountd/pkg/redis"
)

type serverConfig struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		srvCfg    serverConfig
		logCfg    logger.Config
		pgCfg     pg.Config
		redisCfg  redis.Config
		authCfg   auth.Config
		googleCfg auth.GoogleConfig
		emailCfg  email.Config
	)
	config.MustLoad(&srvCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&googleCfg)
	config.MustLoad(&emailCfg)

	log := logger.NewFromConfig(logCfg, logger.WithAttr(slog.String("app", "accountd")))

	if err := pg.Migrate(ctx, pgCfg, migrations.FS, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	sender, err := buildSender(authCfg, emailCfg, log)
	if err != nil {
		return fmt.Errorf("build email sender: %w", err)
	}

	store := auth.NewPGStore(pgCfg, auth.WithPGStoreLogger(log))
	resolver := auth.NewResolver(store, auth.WithResolverLogger(log))
	dispatcher := auth.NewDispatcher(store,
		auth.WithDispatcherLogger(log),
		auth.WithAfterRegister(welcomeEmailHook(sender)),
	)
	lifecycle := auth.NewLifecycle(store, resolver, dispatcher, auth.WithLifecycleLogger(log))

	codec, err := auth.NewTokenCodec(authCfg.TokenSecret, authCfg.TokenMaxLifetime,
		auth.WithIssuer(authCfg.BaseURL),
	)
	if err != nil {
		return fmt.Errorf("build token codec: %w", err)
	}

	svc := account.NewService(
		authCfg,
		auth.NewGoogleAdapter(googleCfg),
		auth.NewRedisStateStore(redisClient),
		store,
		lifecycle,
		codec,
		cookie.New(cookie.WithSecure(authCfg.IsProduction())),
		account.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pgCfg),
		redis.Healthcheck(redisClient),
	))
	r.Mount("/", account.Router(account.RouterOptions{Auth: svc}))

	srv := httpserver.New(
		httpserver.WithAddr(srvCfg.Addr),
		httpserver.WithLogger(log),
	)
	return srv.Run(ctx, r)
}

// buildSender picks the Postmark sender in production and the log sender
// everywhere else, so development runs need no Postmark credentials.
func buildSender(authCfg auth.Config, emailCfg email.Config, log *slog.Logger) (email.Sender, error) {
	if authCfg.IsProduction() {
		return email.NewPostmarkSender(emailCfg)
	}
	return email.NewLogSender(log), nil
}

func welcomeEmailHook(sender email.Sender) func(context.Context, *auth.User) error {
	return func(ctx context.Context, u *auth.User) error {
		name := u.GivenName
		if name == "" {
			name = u.Name
		}
		// Provider-controlled value inside an HTML body.
		name = html.EscapeString(name)
		return sender.Send(ctx, email.Message{
			To:      u.Email,
			Subject: "Welcome to Probelab",
			BodyHTML: fmt.Sprintf(
				"<p>Hi %s,</p><p>Your Probelab account is ready on the %s plan. Head to your dashboard to set up your first probe.</p>",
				name, u.Tier,
			),
			Tag: "welcome",
		})
	}
}
