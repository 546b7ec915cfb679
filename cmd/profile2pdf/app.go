package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/config"
	"github.com/jonathan/profile2pdf/internal/crawling"
	"github.com/jonathan/profile2pdf/internal/credentials"
	"github.com/jonathan/profile2pdf/internal/db"
	"github.com/jonathan/profile2pdf/internal/events"
	"github.com/jonathan/profile2pdf/internal/mock"
	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/pipeline"
	"github.com/jonathan/profile2pdf/internal/resume"
	"github.com/jonathan/profile2pdf/internal/session"
)

// app holds the components every command builds from configuration.
type app struct {
	cfg         *config.Config
	logger      observability.Logger
	redis       *redis.Client
	db          *db.DB
	credentials credentials.Store
	closers     []func()
}

// newApp loads configuration and opens the configured backends.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	} else if verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(cfg.Log.Env, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if cfg.UsesRedis() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		client := a.redis
		a.closers = append(a.closers, func() { _ = client.Close() })
	}

	if err := a.openCredentials(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openCredentials(ctx context.Context) error {
	switch a.cfg.Credentials.Backend {
	case config.BackendMemory:
		a.credentials = credentials.NewMemory(a.cfg.Credentials.APIKey)
	case config.BackendFile:
		a.credentials = credentials.NewFile(a.cfg.Credentials.FilePath)
	case config.BackendRedis:
		a.credentials = credentials.NewRedis(a.redis, a.cfg.Redis.Prefix)
	case config.BackendPostgres:
		database, err := db.Connect(ctx, a.cfg.Database.URL)
		if err != nil {
			return err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return err
		}
		a.db = database
		a.closers = append(a.closers, database.Close)
		a.credentials = credentials.NewPostgres(database)
	default:
		return fmt.Errorf("unknown credentials backend %q", a.cfg.Credentials.Backend)
	}
	a.logger.Debug("credentials backend ready", zap.String("backend", a.cfg.Credentials.Backend))
	return nil
}

// crawler builds the crawl client, wrapped in the configured result cache.
func (a *app) crawler() crawling.Crawler {
	client := crawling.NewClient(a.credentials,
		crawling.WithBaseURL(a.cfg.Crawl.BaseURL),
		crawling.WithTimeout(a.cfg.Crawl.Timeout),
		crawling.WithPollInterval(a.cfg.Crawl.PollInterval),
		crawling.WithLogger(a.logger.With(zap.String("component", "crawler"))),
	)

	var cache crawling.Cache
	switch a.cfg.Crawl.Cache.Backend {
	case config.BackendMemory:
		cache = crawling.NewMemoryCache()
	case config.BackendRedis:
		cache = crawling.NewRedisCache(a.redis, a.cfg.Redis.Prefix)
	default:
		return client
	}
	return crawling.NewCachedCrawler(client, cache, a.cfg.Crawl.Cache.TTL, a.logger)
}

func (a *app) aggregator() *pipeline.Aggregator {
	var opts []mock.Option
	if a.cfg.Mock.Seed != 0 {
		opts = append(opts, mock.WithSeed(a.cfg.Mock.Seed))
	}
	return pipeline.NewAggregator(a.crawler(), mock.New(opts...), pipeline.Options{
		MaxParallelReferences:     a.cfg.Crawl.MaxParallelReferences,
		PreserveFetchedReferences: a.cfg.Fallback.PreserveReferences,
	}, a.logger)
}

func (a *app) synthesizer() resume.Synthesizer {
	return resume.Synthesizer{
		Language: a.cfg.Resume.DefaultLanguage,
		Contact:  a.cfg.Resume.Contact,
	}
}

// publisher returns a Kafka publisher when brokers are configured.
func (a *app) publisher() (events.Publisher, error) {
	if len(a.cfg.Kafka.Brokers) == 0 {
		return events.Nop{}, nil
	}
	pub, err := events.NewKafkaPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("failed to close kafka publisher", zap.Error(err))
		}
	})
	return pub, nil
}

// sessionStore returns the configured store. memory is non-nil for the
// in-process backend so the caller can sweep expired sessions.
func (a *app) sessionStore() (store session.Store, memory *session.Memory) {
	if a.cfg.Session.Backend == config.BackendRedis {
		return session.NewRedis(a.redis, a.cfg.Redis.Prefix, a.cfg.Session.TTL), nil
	}
	memory = session.NewMemory(a.cfg.Session.TTL)
	return memory, memory
}

// Close releases backends in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
