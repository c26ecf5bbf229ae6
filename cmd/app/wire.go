//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/brew-advisor/internal/bootstrap"
	"github.com/yanqian/brew-advisor/internal/domain/explain"
	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/internal/domain/recommendation"
	"github.com/yanqian/brew-advisor/internal/infra/config"
	"github.com/yanqian/brew-advisor/internal/infra/predictor"
	"github.com/yanqian/brew-advisor/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/brew-advisor/internal/interface/http"
	"github.com/yanqian/brew-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRecommendationConfig,
		providePredictor,
		provideWeatherClient,
		provideExplainer,
		provideSnapshotWriter,
		provideFeedbackStore,
		recommendation.NewService,
		feedback.NewService,
		wire.Bind(new(recommendation.Predictor), new(*predictor.Invoker)),
		wire.Bind(new(recommendation.WeatherSource), new(*openmeteo.Client)),
		wire.Bind(new(recommendation.Explainer), new(*explain.Engine)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
