package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/baechuer/noteplus/internal/application/auth"
	"github.com/baechuer/noteplus/internal/application/note"
	"github.com/baechuer/noteplus/internal/audit"
	"github.com/baechuer/noteplus/internal/config"
	"github.com/baechuer/noteplus/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/noteplus/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/noteplus/internal/infrastructure/redis"
	"github.com/baechuer/noteplus/internal/infrastructure/security"
	"github.com/baechuer/noteplus/internal/logger"
	"github.com/baechuer/noteplus/internal/tracing"
	http_handlers "github.com/baechuer/noteplus/internal/transport/http/handlers"
	"github.com/baechuer/noteplus/internal/transport/http/middleware"
	"github.com/baechuer/noteplus/internal/transport/http/response"
	"github.com/baechuer/noteplus/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	OpenStore func(ctx context.Context, cfg *config.Config) (*Store, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	InitTracing func(ctx context.Context, cfg tracing.Config) (*tracing.TracerProvider, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Store bundles the adapters of one storage backend.
type Store struct {
	Users  auth.UserRepo
	Seq    auth.IDSequence
	Notes  note.NoteRepo
	Pinger http_handlers.Pinger
	Close  func() error
}

type Publisher interface {
	auth.EventPublisher
	note.EventPublisher
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	ctx := context.Background()

	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) store
	store, err := deps.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	logger.Logger.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	var cleanupFns []func()
	if store.Close != nil {
		cleanupFns = append(cleanupFns, func() { _ = store.Close() })
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; note cache and auth rate limit disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var listCache note.ListCache
	if redisCli != nil && cfg.NotesCacheTTL > 0 {
		listCache = redis.NewNoteCache(redisCli, cfg.NotesCacheTTL)
	}

	// 3) publisher
	var pub Publisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 4) tracing
	tracingOn := false
	if deps.InitTracing != nil {
		tp, err := deps.InitTracing(ctx, tracing.Config{
			ServiceName:  tracing.ServiceName,
			OTLPEndpoint: cfg.OTLPEndpoint,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("tracing init failed; continuing without spans")
		} else {
			tracingOn = tp.Enabled()
			cleanupFns = append(cleanupFns, func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(sctx)
			})
		}
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Dur("ttl", cfg.JWTTTL).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 6) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(
		store.Users,
		store.Seq,
		hasher,
		signer,
		pub,
		auth.Config{TokenTTL: cfg.JWTTTL},
	).WithAudit(auditLog.Record)

	if cfg.LegacyOpenUpdate {
		logger.Logger.Warn().Msg("NOTES_LEGACY_OPEN_UPDATE is on: any caller can update any note")
	}
	noteSvc := note.NewService(
		store.Notes,
		listCache,
		pub,
		note.Config{OpenUpdate: cfg.LegacyOpenUpdate},
	).WithAudit(auditLog.Record)

	// 7) handlers + middleware
	authMW := middleware.Auth(signer, response.WriteError)
	updateMW := authMW
	if cfg.LegacyOpenUpdate {
		updateMW = middleware.Optional(signer, response.WriteError)
	}

	// auth route limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(key string) func(http.Handler) http.Handler {
		if fwLimiter == nil || !cfg.RLEnabled {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    cfg.RLAuthLimit,
				Window:   cfg.RLAuthWindow,
			},
			response.WriteError,
		)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   http_handlers.NewHealthHandler(store.Pinger),
		Auth:     http_handlers.NewAuthHandler(authSvc),
		Notes:    http_handlers.NewNoteHandler(noteSvc),
		AuthMW:   authMW,
		UpdateMW: updateMW,

		RLRegister: rl("auth.register"),
		RLLogin:    rl("auth.login"),

		Production:     cfg.Env == "prod",
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RLEnabled:      cfg.RLEnabled,
		RLIPLimit:      cfg.RLIPLimit,
		RLIPWindow:     cfg.RLIPWindow,

		Tracing:     tracingOn,
		ServiceName: tracing.ServiceName,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		OpenStore:  openStore,
		NewRedis: func(addr, password string, db int) *redis.Client {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		InitTracing: tracing.Init,
		NewRouter:   router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
