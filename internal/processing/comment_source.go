package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

const publishedAtLayout = "2006-01-02T15:04:05Z"

// ThreadLister fetches one page of top-level comment threads.
type ThreadLister interface {
	ListCommentThreads(ctx context.Context, videoID, pageToken string) (*youtube.CommentThreadListResponse, error)
}

// FetchResult holds every comment collected before pagination ended. Warning
// is set when a page request failed and the comments are a prefix of the thread list.
type FetchResult struct {
	Comments []models.Comment
	Pages    int
	Skipped  int
	Warning  error
}

func (r FetchResult) Partial() bool {
	return r.Warning != nil
}

type CommentSource struct {
	lister   ThreadLister
	limiter  *rate.Limiter
	maxPages int
}

type SourceOption func(*CommentSource)

// WithRequestsPerSecond throttles page requests. Values <= 0 disable throttling.
func WithRequestsPerSecond(rps float64) SourceOption {
	return func(s *CommentSource) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithMaxPages stops pagination after n pages. Values <= 0 mean no limit.
func WithMaxPages(n int) SourceOption {
	return func(s *CommentSource) {
		s.maxPages = n
	}
}

func NewCommentSource(lister ThreadLister, opts ...SourceOption) *CommentSource {
	s := &CommentSource{lister: lister}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll follows page tokens until the list is exhausted. A failed page
// request ends pagination and the comments gathered so far are returned
// together with the failure as a warning.
func (s *CommentSource) FetchAll(ctx context.Context, videoID string) FetchResult {
	result := FetchResult{Comments: []models.Comment{}}
	seenTokens := make(map[string]bool)
	pageToken := ""

	for {
		// only reached with a next page token pending
		if s.maxPages > 0 && result.Pages >= s.maxPages {
			slog.Warn("[CommentSource] Page limit reached, remaining comments not fetched",
				slog.String("video_id", videoID),
				slog.Int("max_pages", s.maxPages))
			result.Warning = fmt.Errorf("page limit of %d reached before the last page", s.maxPages)
			break
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return s.stop(videoID, result, fmt.Errorf("rate limiter: %w", err))
			}
		}

		resp, err := s.lister.ListCommentThreads(ctx, videoID, pageToken)
		if err != nil {
			return s.stop(videoID, result, err)
		}
		result.Pages++
		metrics.CommentPagesFetched.Inc()

		for _, item := range resp.Items {
			comment, ok := toComment(item)
			if !ok {
				slog.Warn("[CommentSource] Skipping malformed comment thread",
					slog.String("video_id", videoID),
					slog.Int("page", result.Pages))
				result.Skipped++
				metrics.CommentItemsSkipped.Inc()
				continue
			}
			result.Comments = append(result.Comments, comment)
		}

		next := resp.NextPageToken
		if next == "" {
			break
		}
		if seenTokens[next] {
			return s.stop(videoID, result, fmt.Errorf("page token %q repeated", next))
		}
		seenTokens[next] = true
		pageToken = next
	}

	metrics.CommentsFetched.Add(float64(len(result.Comments)))
	slog.Info("[CommentSource] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("comments", len(result.Comments)),
		slog.Int("pages", result.Pages),
		slog.Int("skipped", result.Skipped))
	return result
}

func (s *CommentSource) stop(videoID string, result FetchResult, err error) FetchResult {
	attrs := []any{
		slog.String("video_id", videoID),
		slog.Int("pages", result.Pages),
		slog.Int("comments", len(result.Comments)),
		slog.String("error", err.Error()),
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		attrs = append(attrs, slog.Int("status", apiErr.Code))
	}
	slog.Warn("[CommentSource] Comment retrieval stopped early, returning partial list", attrs...)

	metrics.CommentFetchFailures.Inc()
	metrics.CommentsFetched.Add(float64(len(result.Comments)))
	result.Warning = fmt.Errorf("comment retrieval stopped after %d pages: %w", result.Pages, err)
	return result
}

// toComment extracts the top-level comment of a thread. Items without a
// top-level snippet are malformed and rejected; an unparseable timestamp
// only drops the date.
func toComment(item *youtube.CommentThread) (models.Comment, bool) {
	if item == nil || item.Snippet == nil || item.Snippet.TopLevelComment == nil ||
		item.Snippet.TopLevelComment.Snippet == nil {
		return models.Comment{}, false
	}
	snippet := item.Snippet.TopLevelComment.Snippet

	comment := models.Comment{Text: snippet.TextDisplay}
	if snippet.PublishedAt != "" {
		if t, err := time.Parse(publishedAtLayout, snippet.PublishedAt); err == nil {
			comment.PublishedAt = &t
		} else {
			slog.Debug("[CommentSource] Unparseable publish time",
				slog.String("published_at", snippet.PublishedAt))
		}
	}
	return comment, true
}
