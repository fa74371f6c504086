package config

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/content-planner/pkg/planner"
	s3storage "github.com/tendant/content-planner/pkg/planner/storage/s3"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabaseType != "memory" || cfg.Storage.Type != "memory" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AI.Provider != "" {
		t.Errorf("expected ai disabled by default, got: %s", cfg.AI.Provider)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("expected 24h cache ttl, got: %s", cfg.Cache.TTL)
	}
}

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}
}

func TestWithPortEmpty(t *testing.T) {
	_, err := Load(WithPort(""))
	if err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	if _, err := Load(WithEnvironment("production")); err == nil {
		t.Error("expected error for production without jwt secret, got nil")
	}

	cfg, err := Load(WithEnvironment("production"), WithJWTSecret("s3cret"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestWithLogLevel(t *testing.T) {
	if _, err := Load(WithLogLevel("verbose")); err == nil {
		t.Error("expected error for unknown log level, got nil")
	}
	cfg, err := Load(WithLogLevel("debug"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got: %s", cfg.LogLevel)
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory valid", "memory", "", false},
		{"postgres valid", "postgres", "postgresql://localhost/test", false},
		{"postgres missing url", "postgres", "", true},
		{"invalid type", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.DatabaseType != tt.dbType {
				t.Errorf("expected database type %s, got: %s", tt.dbType, cfg.DatabaseType)
			}
			if cfg.DatabaseURL != tt.url {
				t.Errorf("expected database URL %s, got: %s", tt.url, cfg.DatabaseURL)
			}
		})
	}
}

func TestStorageOptions(t *testing.T) {
	cfg, err := Load(WithFilesystemStorage("./data", "/files"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Storage.Type != "fs" || cfg.Storage.BaseDir != "./data" || cfg.Storage.URLPrefix != "/files" {
		t.Errorf("unexpected fs storage: %+v", cfg.Storage)
	}

	if _, err := Load(WithFilesystemStorage("", "")); err == nil {
		t.Error("expected error for empty base dir, got nil")
	}

	cfg, err = Load(WithS3Storage(s3storage.Config{Bucket: "exports", Region: "eu-west-1"}))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Storage.Type != "s3" || cfg.Storage.S3.Bucket != "exports" {
		t.Errorf("unexpected s3 storage: %+v", cfg.Storage)
	}

	if _, err := Load(WithS3Storage(s3storage.Config{})); err == nil {
		t.Error("expected error for empty bucket, got nil")
	}

	cfg, err = Load(WithoutStorage())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Storage.Type != "none" {
		t.Errorf("expected storage none, got: %s", cfg.Storage.Type)
	}
}

func TestAIOptions(t *testing.T) {
	cfg, err := Load(WithGemini("g-key", ""))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("expected gemini provider, got: %s", cfg.AI.Provider)
	}

	cfg, err = Load(WithGemini("g-key", ""), WithOpenAI("o-key", "gpt-4o"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.OpenAIModel != "gpt-4o" {
		t.Errorf("expected last provider option to win, got: %+v", cfg.AI)
	}

	if _, err := Load(WithOpenAI("", "")); err == nil {
		t.Error("expected error for empty openai key, got nil")
	}
}

func TestCacheOptions(t *testing.T) {
	cfg, err := Load(WithValkeyCache("localhost:6379", ""), WithCacheTTL(time.Hour))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Cache.Type != "valkey" || cfg.Cache.ValkeyAddress != "localhost:6379" || cfg.Cache.TTL != time.Hour {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}

	if _, err := Load(WithCacheTTL(0)); err == nil {
		t.Error("expected error for zero ttl, got nil")
	}
}

func TestValidateRejectsUnknownTypes(t *testing.T) {
	cfg := defaults()
	cfg.Storage.Type = "gcs"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown storage type")
	}

	cfg = defaults()
	cfg.AI.Provider = "claude"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown ai provider")
	}

	cfg = defaults()
	cfg.Cache.Type = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown cache type")
	}
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load(WithFilesystemStorage(t.TempDir(), ""), WithOpenAI("o-key", ""))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	svc, cleanup, err := cfg.BuildService(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	defer cleanup()

	if !svc.AIEnabled() {
		t.Error("expected ai generation to be enabled")
	}

	ctx := context.Background()
	userID := uuid.New()
	item, err := svc.CreateItem(ctx, planner.CreateItemRequest{
		UserID:   userID,
		Title:    "How to Build a Shed",
		Platform: planner.PlatformYouTube,
	})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	generated, err := svc.Generate(ctx, userID, item.ID)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if len(generated.TitleIdeas) != 5 {
		t.Errorf("expected 5 title ideas, got: %d", len(generated.TitleIdeas))
	}

	archive, err := svc.ArchiveExport(ctx, userID, nil)
	if err != nil {
		t.Fatalf("failed to archive export: %v", err)
	}
	if archive.Backend != "fs" || archive.Rows != 1 {
		t.Errorf("unexpected archive: %+v", archive)
	}
}

func TestBuildServiceWithoutStorage(t *testing.T) {
	cfg, err := Load(WithoutStorage())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	svc, cleanup, err := cfg.BuildService(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	defer cleanup()

	if svc.AIEnabled() {
		t.Error("expected ai generation to be disabled")
	}
	if _, err := svc.ArchiveExport(context.Background(), uuid.New(), nil); err != planner.ErrBlobStoreNotConfigured {
		t.Errorf("expected ErrBlobStoreNotConfigured, got: %v", err)
	}
}

func TestBuildServiceSeededGenerator(t *testing.T) {
	generate := func() *planner.GeneratedContent {
		cfg, err := Load(WithGeneratorSeed(42), WithEventLogging(false))
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		svc, cleanup, err := cfg.BuildService(context.Background(), nil)
		if err != nil {
			t.Fatalf("failed to build service: %v", err)
		}
		defer cleanup()

		generated, err := svc.GenerateFor(context.Background(), planner.ContentItem{
			Title:    "Why Cats Purr",
			Platform: planner.PlatformTikTok,
		})
		if err != nil {
			t.Fatalf("failed to generate: %v", err)
		}
		return generated
	}

	first, second := generate(), generate()
	if first.PinnedComment != second.PinnedComment || first.TitleIdeas[0] != second.TitleIdeas[0] {
		t.Errorf("expected identical output for the same seed, got %+v and %+v", first, second)
	}
}

func TestCheckDatabaseMemory(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := cfg.CheckDatabase(context.Background()); err != nil {
		t.Errorf("expected memory backend to pass, got: %v", err)
	}
}

func TestCheckDatabasePostgresUnreachable(t *testing.T) {
	cfg, err := Load(WithDatabase("postgres", "postgres://planner@127.0.0.1:1/planner?connect_timeout=1"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := cfg.CheckDatabase(context.Background()); err == nil {
		t.Error("expected unreachable postgres to fail the check")
	}
}

func TestCheckDatabaseInvalidURL(t *testing.T) {
	cfg, err := Load(WithDatabase("postgres", "postgres://%zz"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := cfg.CheckDatabase(context.Background()); err == nil {
		t.Error("expected an unparsable url to fail the check")
	}
}
