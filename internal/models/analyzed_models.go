package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownMode = errors.New("unknown analysis mode")

type Mode string

const (
	ModeTimeSeries   Mode = "timeseries"
	ModeDistribution Mode = "distribution"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeTimeSeries, nil
	case ModeTimeSeries, ModeDistribution:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

// AnalysisResult is built once per request. Only the field matching Mode is set.
type AnalysisResult struct {
	VideoID      string       `json:"video_id"`
	Mode         Mode         `json:"mode"`
	Distribution Distribution `json:"distribution,omitempty"`
	TimeSeries   *TimeSeries  `json:"time_series,omitempty"`
	CommentCount int          `json:"comment_count"`
	Partial      bool         `json:"partial"`
	Warning      string       `json:"warning,omitempty"`
	AnalyzedAt   time.Time    `json:"analyzed_at"`
}

// Payload is the response body shape of the public endpoint.
func (r AnalysisResult) Payload() any {
	if r.Mode == ModeDistribution {
		if r.Distribution == nil {
			return Distribution{}
		}
		return r.Distribution
	}
	if r.TimeSeries == nil {
		return TimeSeries{Dates: []string{}, CompoundScores: []float64{}}
	}
	return r.TimeSeries
}

// CommentSentimentRow is one persisted (comment, analyzer) classification.
type CommentSentimentRow struct {
	VideoID     string  `dynamodbav:"video_id"`
	SortKey     string  `dynamodbav:"sort_key"`
	Analyzer    string  `dynamodbav:"analyzer"`
	Index       int     `dynamodbav:"index"`
	Text        string  `dynamodbav:"text,omitempty"`
	PublishedAt string  `dynamodbav:"published_at,omitempty"`
	Label       string  `dynamodbav:"sentiment_label"`
	Confidence  float64 `dynamodbav:"confidence"`
	Compound    float64 `dynamodbav:"compound,omitempty"`
	CreatedAt   int64   `dynamodbav:"created_at"`
	TTL         int64   `dynamodbav:"ttl"`
}

// AnalysisEvent is published once per completed analysis.
type AnalysisEvent struct {
	VideoID      string    `json:"video_id"`
	Mode         Mode      `json:"mode"`
	CommentCount int       `json:"comment_count"`
	Partial      bool      `json:"partial"`
	Warning      string    `json:"warning,omitempty"`
	Result       any       `json:"result"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}
