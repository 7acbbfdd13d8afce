package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacesedan/commentflow/config"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const commentThreadsPerPage = 100

type YouTubeClient struct {
	service *youtube.Service
}

// NewYouTubeClient authenticates with the access token when one is configured,
// otherwise with the API key. Extra options are applied last.
func NewYouTubeClient(ctx context.Context, cfg config.YouTubeConfig, extra ...option.ClientOption) (*YouTubeClient, error) {
	var opts []option.ClientOption
	switch {
	case cfg.AccessToken != "":
		httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}))
		opts = append(opts, option.WithHTTPClient(httpClient))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, errors.New("[YouTubeClient] no credentials configured")
	}
	opts = append(opts, extra...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] failed to create YouTube service: %w", err)
	}

	slog.Info("[YouTubeClient] YouTube service initialized")
	return &YouTubeClient{service: service}, nil
}

// ListCommentThreads fetches one page of top-level comments in plain text.
func (c *YouTubeClient) ListCommentThreads(ctx context.Context, videoID, pageToken string) (*youtube.CommentThreadListResponse, error) {
	call := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		TextFormat("plainText").
		MaxResults(commentThreadsPerPage)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] commentThreads.list failed: %w", err)
	}
	return resp, nil
}
