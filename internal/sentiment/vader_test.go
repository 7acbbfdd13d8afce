package sentiment

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVADERAnalyzer_Classify(t *testing.T) {
	v := NewVADERAnalyzer("vader")

	tests := []struct {
		name string
		text string
		want models.Label
	}{
		{"positive", "VADER is smart, handsome, and funny!", models.LabelPositive},
		{"negative", "This is horrible, I hate it, worst video ever.", models.LabelNegative},
		{"neutral", "The video was uploaded on Tuesday.", models.LabelNeutral},
		{"empty", "", models.LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, "vader", res.Analyzer)
			assert.Equal(t, tt.want, res.Label)
			require.NotNil(t, res.Lexicon)
			assert.Nil(t, res.Probabilities)
		})
	}
}

func TestVADERAnalyzer_ScoresInvariants(t *testing.T) {
	v := NewVADERAnalyzer("vader")

	texts := []string{
		"",
		"   ",
		"The book was good.",
		"At least it isn't a horrible book.",
		"Today SUX!",
		"Make sure you :) or :D today!",
		"Not bad at all",
		"lol " + strings.Repeat("amazing ", 200),
		"1234 5678",
		"**bold** and [a link](https://example.com)",
		"I <3 this channel",
		"Love it :) <3 <3",
	}

	for _, text := range texts {
		s := v.Scores(text)
		assert.InDelta(t, 1.0, s.Negative+s.Neutral+s.Positive, 1e-9, "text %q", text)
		assert.GreaterOrEqual(t, s.Compound, -1.0)
		assert.LessOrEqual(t, s.Compound, 1.0)
	}
}

func TestVADERAnalyzer_MatchesLexiconOnPlainComments(t *testing.T) {
	v := NewVADERAnalyzer("vader")
	raw := govader.NewSentimentIntensityAnalyzer()

	tests := []struct {
		name     string
		text     string
		positive bool
	}{
		{"heart emoticon", "I <3 this channel", true},
		{"smiley and hearts", "Love it :) <3 <3", true},
		{"plain negative", "I hate this", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Scores(tt.text).Compound
			assert.InDelta(t, raw.PolarityScores(tt.text).Compound, got, 1e-9)
			if tt.positive {
				assert.Greater(t, got, 0.0)
			} else {
				assert.Less(t, got, 0.0)
			}
		})
	}
}

func TestVADERAnalyzer_LabelIgnoresCompound(t *testing.T) {
	v := NewVADERAnalyzer("vader")

	// mildly positive text is still mostly neutral by share
	res, err := v.Classify(context.Background(), "The plot was fine and the lighting was okay in most scenes of the film.")
	require.NoError(t, err)

	s := res.Lexicon
	maxShare := math.Max(s.Negative, math.Max(s.Neutral, s.Positive))
	assert.Equal(t, maxShare, res.Confidence)
	assert.Equal(t, models.LabelNeutral, res.Label)
	assert.Greater(t, s.Compound, 0.0)
}

func TestVADERAnalyzer_Metadata(t *testing.T) {
	v := NewVADERAnalyzer("lex")
	assert.Equal(t, "lex", v.Name())
	assert.Equal(t, KindLexicon, v.Kind())
	assert.Equal(t, 0, v.MaxInputLength())
}
