package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/content-planner/pkg/planner"
	"github.com/tendant/content-planner/pkg/planner/ai"
	"github.com/tendant/content-planner/pkg/planner/cache"
	"github.com/tendant/content-planner/pkg/planner/generator"
	"github.com/tendant/content-planner/pkg/planner/repo/memory"
	repopg "github.com/tendant/content-planner/pkg/planner/repo/postgres"
	fsstorage "github.com/tendant/content-planner/pkg/planner/storage/fs"
	memorystorage "github.com/tendant/content-planner/pkg/planner/storage/memory"
	s3storage "github.com/tendant/content-planner/pkg/planner/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		LogLevel:     "info",
		DatabaseType: "memory",
		DBSchema:     "planner",
		Storage: StorageConfig{
			Type: "memory",
		},
		Cache: CacheConfig{
			Type: "memory",
			TTL:  24 * time.Hour,
		},
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the content-planner service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing
	LogLevel    string // debug, info, warn, error

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: planner)

	Storage StorageConfig
	AI      AIConfig
	Cache   CacheConfig

	// JWTSecret is the HS256 secret bearer tokens are signed with
	JWTSecret string
	// AllowedOrigins feeds the CORS middleware; empty allows any origin
	AllowedOrigins []string

	// GeneratorSeed makes template generation reproducible; 0 keeps it random
	GeneratorSeed uint64

	EnableEventLogging bool
}

// StorageConfig selects the blob store export archives are written to
type StorageConfig struct {
	Type      string // "none", "memory", "fs", "s3"
	BaseDir   string // fs only
	URLPrefix string // fs only
	S3        s3storage.Config
}

// AIConfig selects the provider behind GenerateWithAI. An empty provider
// disables AI generation.
type AIConfig struct {
	Provider      string // "", "gemini", "openai"
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// CacheConfig selects the AI generation cache
type CacheConfig struct {
	Type           string // "none", "memory", "valkey"
	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	TTL            time.Duration
}

// IsProduction reports whether the server runs in production
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.Storage.Type {
	case "none", "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("storage base_dir is required for fs storage")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.AI.Provider {
	case "":
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return errors.New("gemini api key is required when ai provider is gemini")
		}
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			return errors.New("openai api key is required when ai provider is openai")
		}
	default:
		return fmt.Errorf("unsupported ai provider: %s", c.AI.Provider)
	}

	switch c.Cache.Type {
	case "none", "memory":
	case "valkey":
		if c.Cache.ValkeyAddress == "" {
			return errors.New("valkey address is required for valkey cache")
		}
	default:
		return fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("jwt secret is required in production")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
// The returned cleanup func releases pools and clients and is never nil.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (planner.Service, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (planner.Service, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	var genOpts []generator.Option
	if c.GeneratorSeed != 0 {
		genOpts = append(genOpts, generator.WithSeed(c.GeneratorSeed))
	}
	options := []planner.Option{
		planner.WithGenerator(generator.New(genOpts...)),
		planner.WithLogger(logger),
	}

	// Set up repository
	repo, closeRepo, err := c.buildRepository(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to build repository: %w", err))
	}
	closers = append(closers, closeRepo)
	options = append(options, planner.WithRepository(repo))

	// Set up blob store
	if c.Storage.Type != "none" {
		store, err := c.buildBlobStore(ctx)
		if err != nil {
			return fail(fmt.Errorf("failed to build storage backend %s: %w", c.Storage.Type, err))
		}
		options = append(options, planner.WithBlobStore(c.Storage.Type, store))
	}

	// Set up AI generation and its cache
	if c.AI.Provider != "" {
		provider, closeAI, err := c.buildAIGenerator(ctx)
		if err != nil {
			return fail(fmt.Errorf("failed to build ai generator %s: %w", c.AI.Provider, err))
		}
		closers = append(closers, closeAI)
		options = append(options, planner.WithAIGenerator(provider))

		if c.Cache.Type != "none" {
			genCache, closeCache, err := c.buildCache(ctx)
			if err != nil {
				return fail(fmt.Errorf("failed to build cache %s: %w", c.Cache.Type, err))
			}
			closers = append(closers, closeCache)
			options = append(options, planner.WithGenerationCache(genCache, c.Cache.TTL))
		}
	}

	// Set up event sink
	if c.EnableEventLogging {
		options = append(options, planner.WithEventSink(planner.NewLoggingEventSink(logger)))
	}

	svc, err := planner.New(options...)
	if err != nil {
		return fail(err)
	}
	return svc, cleanup, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (planner.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, nil, err
		}
		if c.DBSchema != "" {
			if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{c.DBSchema}.Sanitize()); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to create schema %s: %w", c.DBSchema, err)
			}
		}
		if err := repopg.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repopg.NewWithPool(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// newPool opens a pgx pool whose sessions use schema as search_path.
func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// CheckDatabase pings the configured Postgres database. It is a no-op for
// the memory backend.
func (c *ServerConfig) CheckDatabase(ctx context.Context) error {
	if c.DatabaseType != "postgres" {
		return nil
	}
	pool, err := newPool(ctx, c.DatabaseURL, "")
	if err != nil {
		return err
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// buildBlobStore creates a BlobStore based on the storage configuration
func (c *ServerConfig) buildBlobStore(ctx context.Context) (planner.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.Storage.BaseDir,
			URLPrefix: c.Storage.URLPrefix,
		})
	case "s3":
		return s3storage.New(ctx, c.Storage.S3)
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}

// buildAIGenerator creates the configured AI provider
func (c *ServerConfig) buildAIGenerator(ctx context.Context) (planner.AIGenerator, func(), error) {
	switch c.AI.Provider {
	case "gemini":
		g, err := ai.NewGemini(ctx, ai.GeminiConfig{
			APIKey: c.AI.GeminiAPIKey,
			Model:  c.AI.GeminiModel,
		})
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	case "openai":
		o, err := ai.NewOpenAI(ai.OpenAIConfig{
			APIKey:  c.AI.OpenAIAPIKey,
			Model:   c.AI.OpenAIModel,
			BaseURL: c.AI.OpenAIBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return o, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", c.AI.Provider)
	}
}

// buildCache creates the configured generation cache
func (c *ServerConfig) buildCache(ctx context.Context) (planner.GenerationCache, func(), error) {
	switch c.Cache.Type {
	case "memory":
		return cache.NewMemory(), func() {}, nil
	case "valkey":
		v, err := cache.NewValkey(ctx, cache.ValkeyConfig{
			Address:  c.Cache.ValkeyAddress,
			Password: c.Cache.ValkeyPassword,
			TLS:      c.Cache.ValkeyTLS,
		})
		if err != nil {
			return nil, nil, err
		}
		return v, v.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}
}
