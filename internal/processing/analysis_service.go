package processing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

type Fetcher interface {
	FetchAll(ctx context.Context, videoID string) FetchResult
}

// ResultCache stores complete results. Get returns nil without error on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, error)
	Set(ctx context.Context, key string, result models.AnalysisResult) error
}

type RowStore interface {
	StoreRows(ctx context.Context, rows []models.CommentSentimentRow) error
}

type ResultPublisher interface {
	Publish(ctx context.Context, event models.AnalysisEvent) error
}

type ResultDumper interface {
	Dump(result models.AnalysisResult) error
}

type AnalysisService struct {
	fetcher   Fetcher
	analyzers *sentiment.Analyzers
	cache     ResultCache
	rows      RowStore
	publisher ResultPublisher
	dumper    ResultDumper
	now       func() time.Time
}

type ServiceOption func(*AnalysisService)

func WithResultCache(c ResultCache) ServiceOption {
	return func(s *AnalysisService) { s.cache = c }
}

func WithRowStore(r RowStore) ServiceOption {
	return func(s *AnalysisService) { s.rows = r }
}

func WithPublisher(p ResultPublisher) ServiceOption {
	return func(s *AnalysisService) { s.publisher = p }
}

func WithDumper(d ResultDumper) ServiceOption {
	return func(s *AnalysisService) { s.dumper = d }
}

func NewAnalysisService(fetcher Fetcher, analyzers *sentiment.Analyzers, opts ...ServiceOption) *AnalysisService {
	s := &AnalysisService{
		fetcher:   fetcher,
		analyzers: analyzers,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func CacheKey(mode models.Mode, videoID string) string {
	return fmt.Sprintf("commentflow:result:%s:%s", mode, videoID)
}

// Analyze runs one request end to end: link to video id, comments, scores and
// the aggregate for the requested mode.
func (s *AnalysisService) Analyze(ctx context.Context, link, modeName string) (models.AnalysisResult, error) {
	videoID, err := ExtractVideoID(link)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	mode, err := models.ParseMode(modeName)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	key := CacheKey(mode, videoID)
	if cached := s.lookup(ctx, key); cached != nil {
		slog.Info("[AnalysisService] Serving cached result",
			slog.String("video_id", videoID),
			slog.String("mode", string(mode)))
		return *cached, nil
	}

	fetched := s.fetcher.FetchAll(ctx, videoID)

	analyzers := s.analyzers.All()
	var lexicon sentiment.Analyzer
	if mode == models.ModeTimeSeries {
		lexicon, err = s.analyzers.Lexicon()
		if err != nil {
			return models.AnalysisResult{}, err
		}
		analyzers = []sentiment.Analyzer{lexicon}
	}

	scored, err := Score(ctx, fetched.Comments, analyzers)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to score comments: %w", err)
	}

	result := models.AnalysisResult{
		VideoID:      videoID,
		Mode:         mode,
		CommentCount: len(scored),
		AnalyzedAt:   s.now().UTC(),
	}
	if fetched.Partial() {
		result.Partial = true
		result.Warning = fetched.Warning.Error()
	}

	switch mode {
	case models.ModeDistribution:
		names := make([]string, len(analyzers))
		for i, an := range analyzers {
			names[i] = an.Name()
		}
		dist, err := CountDistribution(scored, names)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		result.Distribution = dist
	case models.ModeTimeSeries:
		ts, err := BuildTimeSeries(scored, lexicon.Name())
		if err != nil {
			return models.AnalysisResult{}, err
		}
		result.TimeSeries = &ts
	}

	slog.Info("[AnalysisService] Analysis complete",
		slog.String("video_id", videoID),
		slog.String("mode", string(mode)),
		slog.Int("comments", result.CommentCount),
		slog.Bool("partial", result.Partial),
		slog.Duration("duration", time.Since(start)))

	s.record(ctx, key, result, scored)
	return result, nil
}

func (s *AnalysisService) lookup(ctx context.Context, key string) *models.AnalysisResult {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("[AnalysisService] Cache lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		metrics.ResultCacheLookups.WithLabelValues("error").Inc()
		return nil
	}
	if cached == nil {
		metrics.ResultCacheLookups.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.ResultCacheLookups.WithLabelValues("hit").Inc()
	return cached
}

// record performs the optional side effects of a completed analysis. None of
// them can fail the request.
func (s *AnalysisService) record(ctx context.Context, key string, result models.AnalysisResult, scored []models.ScoredComment) {
	if s.cache != nil && !result.Partial {
		if err := s.cache.Set(ctx, key, result); err != nil {
			slog.Warn("[AnalysisService] Failed to cache result",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}

	if s.rows != nil && len(scored) > 0 {
		if err := s.rows.StoreRows(ctx, BuildRows(result.VideoID, scored)); err != nil {
			slog.Warn("[AnalysisService] Failed to store comment sentiments",
				slog.String("video_id", result.VideoID),
				slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		event := models.AnalysisEvent{
			VideoID:      result.VideoID,
			Mode:         result.Mode,
			CommentCount: result.CommentCount,
			Partial:      result.Partial,
			Warning:      result.Warning,
			Result:       result.Payload(),
			AnalyzedAt:   result.AnalyzedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			slog.Warn("[AnalysisService] Failed to publish analysis event",
				slog.String("video_id", result.VideoID),
				slog.String("error", err.Error()))
		}
	}

	if s.dumper != nil {
		if err := s.dumper.Dump(result); err != nil {
			slog.Warn("[AnalysisService] Failed to dump result",
				slog.String("error", err.Error()))
		}
	}
}
