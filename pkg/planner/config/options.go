package config

import (
	"fmt"
	"time"

	s3storage "github.com/tendant/content-planner/pkg/planner/storage/s3"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithLogLevel sets the minimum log level (debug, info, warn, error)
func WithLogLevel(level string) Option {
	return func(c *ServerConfig) error {
		switch level {
		case "debug", "info", "warn", "error":
			c.LogLevel = level
			return nil
		default:
			return fmt.Errorf("unknown log level: %s", level)
		}
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithoutStorage disables export archives
func WithoutStorage() Option {
	return func(c *ServerConfig) error {
		c.Storage = StorageConfig{Type: "none"}
		return nil
	}
}

// WithMemoryStorage keeps export archives in process memory
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.Storage = StorageConfig{Type: "memory"}
		return nil
	}
}

// WithFilesystemStorage writes export archives below baseDir. When urlPrefix
// is set, archives get download links under it.
func WithFilesystemStorage(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.Storage = StorageConfig{Type: "fs", BaseDir: baseDir, URLPrefix: urlPrefix}
		return nil
	}
}

// WithS3Storage writes export archives to an S3 (or S3-compatible) bucket
func WithS3Storage(cfg s3storage.Config) Option {
	return func(c *ServerConfig) error {
		if cfg.Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty")
		}
		c.Storage = StorageConfig{Type: "s3", S3: cfg}
		return nil
	}
}

// WithGemini enables AI generation through Gemini. An empty model uses the provider default.
func WithGemini(apiKey, model string) Option {
	return func(c *ServerConfig) error {
		if apiKey == "" {
			return fmt.Errorf("gemini api key cannot be empty")
		}
		c.AI.Provider = "gemini"
		c.AI.GeminiAPIKey = apiKey
		c.AI.GeminiModel = model
		return nil
	}
}

// WithOpenAI enables AI generation through OpenAI. An empty model uses the provider default.
func WithOpenAI(apiKey, model string) Option {
	return func(c *ServerConfig) error {
		if apiKey == "" {
			return fmt.Errorf("openai api key cannot be empty")
		}
		c.AI.Provider = "openai"
		c.AI.OpenAIAPIKey = apiKey
		c.AI.OpenAIModel = model
		return nil
	}
}

// WithValkeyCache caches AI generations in Valkey
func WithValkeyCache(address, password string) Option {
	return func(c *ServerConfig) error {
		if address == "" {
			return fmt.Errorf("valkey address cannot be empty")
		}
		c.Cache.Type = "valkey"
		c.Cache.ValkeyAddress = address
		c.Cache.ValkeyPassword = password
		return nil
	}
}

// WithCacheTTL sets how long AI generations are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *ServerConfig) error {
		if ttl <= 0 {
			return fmt.Errorf("cache ttl must be positive, got: %s", ttl)
		}
		c.Cache.TTL = ttl
		return nil
	}
}

// WithJWTSecret sets the HS256 secret used to verify bearer tokens
func WithJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		if secret == "" {
			return fmt.Errorf("jwt secret cannot be empty")
		}
		c.JWTSecret = secret
		return nil
	}
}

// WithAllowedOrigins restricts CORS to the given origins
func WithAllowedOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.AllowedOrigins = origins
		return nil
	}
}

// WithGeneratorSeed seeds the template generator
func WithGeneratorSeed(seed uint64) Option {
	return func(c *ServerConfig) error {
		c.GeneratorSeed = seed
		return nil
	}
}

// WithEventLogging toggles the logging event sink
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
