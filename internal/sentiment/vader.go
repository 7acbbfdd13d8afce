package sentiment

import (
	"context"
	"math"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/commentflow/internal/models"
	"gonum.org/v1/gonum/floats"
)

// VADERAnalyzer scores text with the VADER lexicon. It is stateless and has
// no input length limit.
type VADERAnalyzer struct {
	name     string
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERAnalyzer(name string) *VADERAnalyzer {
	return &VADERAnalyzer{
		name:     name,
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

func (v *VADERAnalyzer) Name() string { return v.name }

func (v *VADERAnalyzer) MaxInputLength() int { return 0 }

func (v *VADERAnalyzer) Kind() string { return KindLexicon }

// Scores returns the polarity proportions of text, renormalized to sum to 1.
func (v *VADERAnalyzer) Scores(text string) models.LexiconScores {
	s := v.analyzer.PolarityScores(CleanText(text))

	scores := models.LexiconScores{
		Negative: math.Max(s.Negative, 0),
		Neutral:  math.Max(s.Neutral, 0),
		Positive: math.Max(s.Positive, 0),
		Compound: math.Max(-1, math.Min(1, s.Compound)),
	}

	// govader rounds each share to three decimals, and returns all zeros when
	// no token carried any weight
	sum := scores.Negative + scores.Neutral + scores.Positive
	if sum == 0 {
		scores.Neutral = 1
		return scores
	}
	scores.Negative /= sum
	scores.Neutral /= sum
	scores.Positive /= sum

	return scores
}

func (v *VADERAnalyzer) Classify(_ context.Context, text string) (models.Classification, error) {
	scores := v.Scores(text)

	// compound is a summary statistic, not a class
	shares := []float64{scores.Negative, scores.Neutral, scores.Positive}
	idx := floats.MaxIdx(shares)

	return models.Classification{
		Analyzer:   v.name,
		Label:      models.Labels[idx],
		Confidence: shares[idx],
		Lexicon:    &scores,
	}, nil
}
