package processing

import (
	"context"
	"fmt"

	"github.com/spacesedan/commentflow/internal/metrics"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

// Score runs every analyzer over every comment, preserving comment order.
// Any classification failure aborts the whole run.
func Score(ctx context.Context, comments []models.Comment, analyzers []sentiment.Analyzer) ([]models.ScoredComment, error) {
	scored := make([]models.ScoredComment, 0, len(comments))
	for i, comment := range comments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sc := models.ScoredComment{
			Index:           i,
			Comment:         comment,
			Classifications: make([]models.Classification, 0, len(analyzers)),
		}
		for _, an := range analyzers {
			c, err := an.Classify(ctx, comment.Text)
			if err != nil {
				return nil, fmt.Errorf("comment %d: %w", i, err)
			}
			c.Analyzer = an.Name()
			metrics.ClassificationsTotal.WithLabelValues(an.Name(), string(c.Label)).Inc()
			sc.Classifications = append(sc.Classifications, c)
		}
		scored = append(scored, sc)
	}
	return scored, nil
}

// CountDistribution tallies labels per analyzer. Every named analyzer gets an
// entry, and each entry sums to the number of scored comments.
func CountDistribution(scored []models.ScoredComment, analyzerNames []string) (models.Distribution, error) {
	dist := make(models.Distribution, len(analyzerNames))
	for _, name := range analyzerNames {
		counts := models.Counts{}
		for _, sc := range scored {
			c, ok := sc.ClassificationBy(name)
			if !ok {
				return nil, fmt.Errorf("comment %d has no classification from %s", sc.Index, name)
			}
			if err := counts.Add(c.Label); err != nil {
				return nil, fmt.Errorf("analyzer %s: %w", name, err)
			}
		}
		dist[name] = counts
	}
	return dist, nil
}

// BuildTimeSeries pairs each comment's publish date with its lexicon compound
// score, in comment order. Unknown dates are reported as "".
func BuildTimeSeries(scored []models.ScoredComment, lexiconName string) (models.TimeSeries, error) {
	ts := models.TimeSeries{
		Dates:          make([]string, 0, len(scored)),
		CompoundScores: make([]float64, 0, len(scored)),
	}
	for _, sc := range scored {
		c, ok := sc.ClassificationBy(lexiconName)
		if !ok || c.Lexicon == nil {
			return models.TimeSeries{}, fmt.Errorf("comment %d has no lexicon scores from %s", sc.Index, lexiconName)
		}
		ts.Dates = append(ts.Dates, sc.Comment.Date())
		ts.CompoundScores = append(ts.CompoundScores, c.Lexicon.Compound)
	}
	return ts, nil
}

// BuildRows flattens scored comments into one row per (comment, analyzer).
func BuildRows(videoID string, scored []models.ScoredComment) []models.CommentSentimentRow {
	rows := make([]models.CommentSentimentRow, 0, len(scored))
	for _, sc := range scored {
		for _, c := range sc.Classifications {
			row := models.CommentSentimentRow{
				VideoID:     videoID,
				SortKey:     fmt.Sprintf("%s#%06d", c.Analyzer, sc.Index),
				Analyzer:    c.Analyzer,
				Index:       sc.Index,
				Text:        sc.Comment.Text,
				PublishedAt: sc.Comment.Date(),
				Label:       string(c.Label),
				Confidence:  c.Confidence,
			}
			if c.Lexicon != nil {
				row.Compound = c.Lexicon.Compound
			}
			rows = append(rows, row)
		}
	}
	return rows
}
