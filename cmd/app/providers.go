package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
	"github.com/yanqian/lifesure-gateway/internal/infra/applicationrepo"
	"github.com/yanqian/lifesure-gateway/internal/infra/backend"
	"github.com/yanqian/lifesure-gateway/internal/infra/config"
	"github.com/yanqian/lifesure-gateway/internal/infra/imagestore"
	"github.com/yanqian/lifesure-gateway/internal/infra/policyrepo"
	"github.com/yanqian/lifesure-gateway/internal/infra/quotestore"
	"github.com/yanqian/lifesure-gateway/pkg/util"
)

func provideQuoteConfig(cfg *config.Config) quote.Config {
	return quote.Config{CacheTTL: cfg.Quote.CacheTTL}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

// provideBackendClient returns nil when no backend is configured; the
// repositories then fall back to memory.
func provideBackendClient(cfg *config.Config, logger *slog.Logger) (*backend.Client, error) {
	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		logger.Info("backend base url not set, using memory repositories")
		return nil, nil
	}
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("backend repositories enabled", "base_url", cfg.Backend.BaseURL)
	return client, nil
}

func providePolicyRepository(client *backend.Client) policy.Repository {
	if client == nil {
		return policyrepo.NewMemoryRepository(policyrepo.DemoCatalog(util.NowUTC())...)
	}
	return backend.NewPolicyRepository(client)
}

func provideApplicationRepository(client *backend.Client) application.Repository {
	if client == nil {
		return applicationrepo.NewMemoryRepository()
	}
	return backend.NewApplicationRepository(client)
}

func provideQuoteStore(cfg *config.Config, logger *slog.Logger) quote.Store {
	if cfg.Cache.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return quotestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return quotestore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("quote valkey store enabled", "addr", cfg.Cache.Addr)
			return quotestore.NewValkeyStore(client, cfg.Cache.Prefix)
		}
	}
	return quotestore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Cache.Addr, "://") {
		return valkey.ParseURL(cfg.Cache.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}, nil
}

func provideImageStorage(cfg *config.Config, logger *slog.Logger) policy.ImageStorage {
	if !cfg.Storage.Enabled() {
		logger.Info("object storage not configured, keeping policy images in memory")
		return imagestore.NewMemoryStorage()
	}
	storage, err := imagestore.NewS3Storage(imagestore.S3Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, logger)
	if err != nil {
		logger.Error("failed to init object storage, keeping policy images in memory", "error", err)
		return imagestore.NewMemoryStorage()
	}
	logger.Info("object storage enabled", "bucket", cfg.Storage.Bucket)
	return storage
}
