package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig lists every variable WithEnv understands. Fields carry no
// defaults so unset variables leave earlier options untouched.
type envConfig struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"`
	LogLevel    string `env:"LOG_LEVEL"`

	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseSchema string `env:"DATABASE_SCHEMA"`

	StorageURL         string `env:"STORAGE_URL"`
	StorageURLPrefix   string `env:"STORAGE_URL_PREFIX"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `env:"AWS_REGION"`

	AIProvider    string `env:"AI_PROVIDER"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	CacheType      string        `env:"CACHE_TYPE"`
	CacheTTL       time.Duration `env:"CACHE_TTL"`
	ValkeyAddress  string        `env:"VALKEY_ADDRESS"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	ValkeyTLS      string        `env:"VALKEY_TLS"`

	JWTSecret      string `env:"JWT_SECRET"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// WithEnv applies environment variable overrides using the provided prefix.
//
// Server:
//
//	PORT, ENVIRONMENT, LOG_LEVEL
//
// Database:
//
//	DATABASE_URL - "memory" (default) or "postgres://..." / "postgresql://..."
//	DATABASE_SCHEMA - Postgres schema (default "planner")
//
// Storage:
//
//	STORAGE_URL - one of:
//	  "none" - disable export archives
//	  "memory://" - in-memory storage (default)
//	  "file:///path/to/data" - filesystem storage, STORAGE_URL_PREFIX for links
//	  "s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true"
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION
//
// AI generation:
//
//	AI_PROVIDER - "gemini" or "openai"; inferred from whichever key is set
//	GEMINI_API_KEY, GEMINI_MODEL, OPENAI_API_KEY, OPENAI_MODEL, OPENAI_BASE_URL
//
// Cache:
//
//	CACHE_TYPE - "none", "memory" (default) or "valkey"; VALKEY_ADDRESS implies valkey
//	CACHE_TTL, VALKEY_ADDRESS, VALKEY_PASSWORD, VALKEY_TLS
//
// Auth:
//
//	JWT_SECRET - HS256 secret of the hosted auth provider
//	ALLOWED_ORIGINS - comma separated CORS origins, "*" when unset
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		env, err := readEnv(prefix)
		if err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		setString(&c.Port, env.Port)
		setString(&c.Environment, env.Environment)
		setString(&c.LogLevel, env.LogLevel)
		setString(&c.DBSchema, env.DatabaseSchema)
		setString(&c.JWTSecret, env.JWTSecret)
		if env.AllowedOrigins != "" {
			c.AllowedOrigins = splitList(env.AllowedOrigins)
		}

		if err := applyDatabaseEnv(env, c); err != nil {
			return err
		}
		if err := applyStorageEnv(env, c); err != nil {
			return err
		}
		applyAIEnv(env, c)
		return applyCacheEnv(env, c)
	}
}

// readEnv fills an envConfig, nesting it under an env-prefix tag when a
// prefix is given.
func readEnv(prefix string) (envConfig, error) {
	var env envConfig
	if prefix == "" {
		err := cleanenv.ReadEnv(&env)
		return env, err
	}

	wrapper := reflect.New(reflect.StructOf([]reflect.StructField{{
		Name: "Env",
		Type: reflect.TypeOf(env),
		Tag:  reflect.StructTag(fmt.Sprintf(`env-prefix:%q`, prefix)),
	}}))
	if err := cleanenv.ReadEnv(wrapper.Interface()); err != nil {
		return env, err
	}
	return wrapper.Elem().Field(0).Interface().(envConfig), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// applyDatabaseEnv applies database configuration from environment
func applyDatabaseEnv(env envConfig, c *ServerConfig) error {
	dbURL := env.DatabaseURL
	switch {
	case dbURL == "":
		return nil
	case dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
	return nil
}

// applyStorageEnv applies storage configuration from environment
func applyStorageEnv(env envConfig, c *ServerConfig) error {
	raw := env.StorageURL
	switch raw {
	case "":
		return nil
	case "none":
		c.Storage = StorageConfig{Type: "none"}
		return nil
	case "memory", "memory://":
		c.Storage = StorageConfig{Type: "memory"}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		path := u.Host + u.Path
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.Storage = StorageConfig{Type: "fs", BaseDir: path, URLPrefix: env.StorageURLPrefix}
		return nil

	case "s3":
		if u.Host == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}
		q := u.Query()
		s3cfg := c.Storage.S3
		s3cfg.Bucket = u.Host
		s3cfg.Region = "us-east-1"
		if r := q.Get("region"); r != "" {
			s3cfg.Region = r
		}
		if env.AWSRegion != "" {
			s3cfg.Region = env.AWSRegion
		}
		s3cfg.Endpoint = q.Get("endpoint")
		if v := q.Get("path_style"); v != "" {
			pathStyle, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid path_style in STORAGE_URL: %w", err)
			}
			s3cfg.UsePathStyle = pathStyle
		}
		setString(&s3cfg.AccessKeyID, env.AWSAccessKeyID)
		setString(&s3cfg.SecretAccessKey, env.AWSSecretAccessKey)
		c.Storage = StorageConfig{Type: "s3", S3: s3cfg}
		return nil
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'none', 'memory://', 'file://...', or 's3://...')", raw)
}

// applyAIEnv selects the AI provider. An explicit AI_PROVIDER wins, otherwise
// the first configured key picks the provider.
func applyAIEnv(env envConfig, c *ServerConfig) {
	setString(&c.AI.GeminiAPIKey, env.GeminiAPIKey)
	setString(&c.AI.GeminiModel, env.GeminiModel)
	setString(&c.AI.OpenAIAPIKey, env.OpenAIAPIKey)
	setString(&c.AI.OpenAIModel, env.OpenAIModel)
	setString(&c.AI.OpenAIBaseURL, env.OpenAIBaseURL)

	switch {
	case env.AIProvider == "none":
		c.AI.Provider = ""
	case env.AIProvider != "":
		c.AI.Provider = strings.ToLower(env.AIProvider)
	case c.AI.Provider != "":
	case c.AI.GeminiAPIKey != "":
		c.AI.Provider = "gemini"
	case c.AI.OpenAIAPIKey != "":
		c.AI.Provider = "openai"
	}
}

// applyCacheEnv applies generation cache configuration from environment
func applyCacheEnv(env envConfig, c *ServerConfig) error {
	if env.ValkeyAddress != "" {
		c.Cache.Type = "valkey"
		c.Cache.ValkeyAddress = env.ValkeyAddress
	}
	setString(&c.Cache.ValkeyPassword, env.ValkeyPassword)
	setString(&c.Cache.Type, env.CacheType)
	if env.CacheTTL > 0 {
		c.Cache.TTL = env.CacheTTL
	}
	if env.ValkeyTLS != "" {
		tls, err := strconv.ParseBool(env.ValkeyTLS)
		if err != nil {
			return fmt.Errorf("invalid boolean for VALKEY_TLS: %w", err)
		}
		c.Cache.ValkeyTLS = tls
	}
	return nil
}
