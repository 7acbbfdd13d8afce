package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/spacesedan/commentflow/internal/clients/kafka_client"
	"github.com/spacesedan/commentflow/internal/db"
	"github.com/spacesedan/commentflow/internal/export"
	"github.com/spacesedan/commentflow/internal/processing"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

// App owns the analysis service and every client it was built from.
type App struct {
	Service   *processing.AnalysisService
	Analyzers *sentiment.Analyzers
	closers   []func()
}

// New wires the service from configuration. The comment API and the
// analyzers are required; the cache, row store and event producer are
// skipped with a warning when they cannot be reached.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	youtubeClient, err := clients.NewYouTubeClient(ctx, cfg.YouTube)
	if err != nil {
		return nil, err
	}
	source := processing.NewCommentSource(youtubeClient,
		processing.WithMaxPages(cfg.YouTube.MaxPages),
		processing.WithRequestsPerSecond(cfg.YouTube.RequestsPerSecond))

	var loader sentiment.ModelLoader
	var hugotLoader *sentiment.HugotLoader
	if needsModels(cfg.Analyzers) {
		hugotLoader, err = sentiment.NewHugotLoader(cfg.ModelDir)
		if err != nil {
			return nil, err
		}
		loader = hugotLoader
	}

	analyzers, err := sentiment.BuildAnalyzers(ctx, cfg.Analyzers, loader)
	if err != nil {
		if hugotLoader != nil {
			_ = hugotLoader.Close()
		}
		return nil, fmt.Errorf("failed to build analyzers: %w", err)
	}
	a.Analyzers = analyzers
	a.closers = append(a.closers, func() {
		if err := analyzers.Close(); err != nil {
			slog.Warn("[App] Failed to close analyzers", slog.String("error", err.Error()))
		}
	})

	var opts []processing.ServiceOption

	if cfg.Valkey.Address != "" {
		valkeyClient, err := clients.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Warn("[App] Result cache disabled", slog.String("error", err.Error()))
		} else {
			a.closers = append(a.closers, valkeyClient.Close)
			opts = append(opts, processing.WithResultCache(clients.NewResultCache(valkeyClient, cfg.Valkey.TTL)))
		}
	}

	if cfg.DynamoDB.Enabled {
		dynamoClient, err := clients.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			slog.Warn("[App] Row store disabled", slog.String("error", err.Error()))
		} else {
			opts = append(opts, processing.WithRowStore(db.NewSentimentStore(dynamoClient, cfg.DynamoDB.Table, cfg.DynamoDB.TTL)))
		}
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka_client.NewResultProducer(cfg.Kafka)
		if err != nil {
			slog.Warn("[App] Event publishing disabled", slog.String("error", err.Error()))
		} else {
			a.closers = append(a.closers, producer.Close)
			opts = append(opts, processing.WithPublisher(producer))
		}
	}

	if cfg.JSONDump != "" {
		opts = append(opts, processing.WithDumper(export.NewJSONDumper(cfg.JSONDump)))
	}

	a.Service = processing.NewAnalysisService(source, analyzers, opts...)
	return a, nil
}

func needsModels(cfgs []config.AnalyzerConfig) bool {
	for _, c := range cfgs {
		if c.Kind == config.AnalyzerKindPretrained {
			return true
		}
	}
	return false
}

// Close releases clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
