//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/lifesure-gateway/internal/bootstrap"
	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/domain/dashboard"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
	"github.com/yanqian/lifesure-gateway/internal/infra/config"
	httpiface "github.com/yanqian/lifesure-gateway/internal/interface/http"
	"github.com/yanqian/lifesure-gateway/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideQuoteConfig,
		provideAuthConfig,
		provideBackendClient,
		providePolicyRepository,
		provideApplicationRepository,
		provideQuoteStore,
		provideImageStorage,
		quote.NewService,
		policy.NewService,
		application.NewService,
		dashboard.NewService,
		auth.NewService,
		wire.Bind(new(quote.PolicyLookup), new(policy.Repository)),
		wire.Bind(new(application.PolicyCatalog), new(policy.Repository)),
		wire.Bind(new(application.QuoteSource), new(quote.Service)),
		wire.Bind(new(dashboard.Applications), new(application.Service)),
		wire.Bind(new(dashboard.Policies), new(policy.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
