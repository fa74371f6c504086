package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/content-planner/pkg/planner"
	"github.com/valkey-io/valkey-go"
)

// ValkeyConfig configures the valkey-backed cache
type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
	Prefix   string // key prefix, default "planner:"
}

// Valkey stores generations as JSON strings with a server-side expiry.
type Valkey struct {
	client valkey.Client
	prefix string
}

var _ planner.GenerationCache = (*Valkey)(nil)

// NewValkey connects to valkey and pings it.
func NewValkey(ctx context.Context, cfg ValkeyConfig) (*Valkey, error) {
	if cfg.Address == "" {
		return nil, errors.New("valkey address is required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "planner:"
	}

	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	slog.Info("Connected to valkey", "address", cfg.Address)
	return &Valkey{client: client, prefix: cfg.Prefix}, nil
}

func (v *Valkey) Get(ctx context.Context, key string) (*planner.GeneratedContent, bool, error) {
	data, err := v.client.Do(ctx, v.client.B().Get().Key(v.prefix+key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get: %w", err)
	}

	var generated planner.GeneratedContent
	if err := json.Unmarshal(data, &generated); err != nil {
		return nil, false, fmt.Errorf("decode cached generation: %w", err)
	}
	return &generated, true, nil
}

func (v *Valkey) Set(ctx context.Context, key string, value *planner.GeneratedContent, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode generation: %w", err)
	}

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	cmd := v.client.B().Set().Key(v.prefix + key).Value(string(data)).ExSeconds(seconds).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

// Close releases the underlying connections
func (v *Valkey) Close() {
	v.client.Close()
}
