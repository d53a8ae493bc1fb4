// Command server runs the proposal generation API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/proposalkit/internal/db"
	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/api"
	"github.com/dmitrymomot/proposalkit/pkg/billing"
	"github.com/dmitrymomot/proposalkit/pkg/config"
	"github.com/dmitrymomot/proposalkit/pkg/credits"
	"github.com/dmitrymomot/proposalkit/pkg/entitlement"
	"github.com/dmitrymomot/proposalkit/pkg/generations"
	"github.com/dmitrymomot/proposalkit/pkg/generator"
	"github.com/dmitrymomot/proposalkit/pkg/httpserver"
	"github.com/dmitrymomot/proposalkit/pkg/jwt"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
	"github.com/dmitrymomot/proposalkit/pkg/mongo"
	"github.com/dmitrymomot/proposalkit/pkg/pg"
	"github.com/dmitrymomot/proposalkit/pkg/proposal"
	"github.com/dmitrymomot/proposalkit/pkg/redis"
	"github.com/dmitrymomot/proposalkit/pkg/requestid"
)

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(append(logger.FromConfig(logCfg),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		pgCfg      pg.Config
		httpCfg    httpserver.Config
		jwtCfg     jwt.Config
		creditsCfg credits.Config
		gateCfg    entitlement.Config
		genCfg     generator.Config
		recordsCfg generations.Config
		billingCfg billing.Config
		paddleCfg  billing.PaddleConfig
	)
	for _, load := range []func() error{
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&jwtCfg) },
		func() error { return config.Load(&creditsCfg) },
		func() error { return config.Load(&gateCfg) },
		func() error { return config.Load(&genCfg) },
		func() error { return config.Load(&recordsCfg) },
		func() error { return config.Load(&billingCfg) },
		func() error { return config.Load(&paddleCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, pgCfg, db.Migrations, db.MigrationsDir, log); err != nil {
		return err
	}
	readiness := []func(context.Context) error{pg.Healthcheck(pool, pgCfg.PingTimeout)}

	var mongoDB *mongodriver.Database
	if recordsCfg.Backend == generations.BackendMongo {
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return err
		}
		client, err := mongo.New(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoDB = client.Database(mongoCfg.Database)
		readiness = append(readiness, mongo.Healthcheck(client, mongoCfg.PingTimeout))
	}

	records, err := generations.NewStore(recordsCfg, pool, mongoDB)
	if err != nil {
		return err
	}
	if ms, ok := records.(*generations.MongoStore); ok {
		if err := ms.Migrate(ctx); err != nil {
			return err
		}
	}

	var processorOpts []billing.ProcessorOption
	if billingCfg.DedupeEnabled {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		processorOpts = append(processorOpts, billing.WithDeduplicator(
			billing.NewRedisDeduplicator(client, billingCfg.DedupeTTL),
		))
		readiness = append(readiness, redis.Healthcheck(client, redisCfg.PingTimeout))
	}

	accts := accounts.NewPostgresStore(pool)
	ledger := credits.NewLedger(credits.NewPostgresStore(pool),
		credits.WithConfig(creditsCfg),
		credits.WithLogger(log),
	)
	gate := entitlement.NewGate(ledger,
		entitlement.WithConfig(gateCfg),
		entitlement.WithLogger(log),
	)

	gen, err := generator.New(genCfg, generator.WithLogger(log))
	if err != nil {
		return err
	}

	paddle, err := billing.NewPaddleProvider(paddleCfg)
	if err != nil {
		return err
	}
	processor := billing.NewProcessor(paddle, accts, billing.NewPostgresSubscriptionStore(pool), ledger,
		append(processorOpts, billing.WithProcessorLogger(log))...,
	)

	tokens, err := jwt.New(jwtCfg)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Accounts:  accts,
		Ledger:    ledger,
		Proposals: proposal.NewService(gate, gen, records, log),
		Billing:   billing.NewService(paddle, accts, billingCfg, log),
		Processor: processor,
		Tokens:    tokens,
		Logger:    log,
		Readiness: readiness,

		GeneratorHealth: generator.Healthcheck(gen, genCfg.PingTimeout),
	})

	srv := httpserver.New(httpCfg, log)
	srv.OnShutdown(gate.Wait)

	log.InfoContext(ctx, "starting server",
		slog.String("addr", httpCfg.Addr),
		slog.String("ai_provider", genCfg.Provider),
		slog.String("generations_backend", recordsCfg.Backend),
	)
	if err := srv.Run(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
