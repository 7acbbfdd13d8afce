package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	name   string
	kind   string
	labels map[string]models.Label
	failOn string
}

func (f *fakeAnalyzer) Name() string        { return f.name }
func (f *fakeAnalyzer) Kind() string        { return f.kind }
func (f *fakeAnalyzer) MaxInputLength() int { return 0 }

func (f *fakeAnalyzer) Classify(_ context.Context, text string) (models.Classification, error) {
	if f.failOn != "" && text == f.failOn {
		return models.Classification{}, errors.New("model exploded")
	}
	label, ok := f.labels[text]
	if !ok {
		label = models.LabelNeutral
	}
	c := models.Classification{Analyzer: f.name, Label: label, Confidence: 0.9}
	if f.kind == sentiment.KindLexicon {
		compound := 0.0
		switch label {
		case models.LabelPositive:
			compound = 0.5
		case models.LabelNegative:
			compound = -0.5
		}
		c.Lexicon = &models.LexiconScores{Neutral: 1, Compound: compound}
	}
	return c, nil
}

func date(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

var testComments = []models.Comment{
	{Text: "love it", PublishedAt: date("2024-01-01")},
	{Text: "hate it", PublishedAt: date("2024-01-02")},
	{Text: "meh"},
	{Text: "love it", PublishedAt: date("2024-01-03")},
}

func testAnalyzers() []sentiment.Analyzer {
	lex := &fakeAnalyzer{name: "lex", kind: sentiment.KindLexicon, labels: map[string]models.Label{
		"love it": models.LabelPositive,
		"hate it": models.LabelNegative,
	}}
	model := &fakeAnalyzer{name: "model", kind: sentiment.KindPretrained, labels: map[string]models.Label{
		"love it": models.LabelPositive,
		"hate it": models.LabelPositive,
		"meh":     models.LabelNegative,
	}}
	return []sentiment.Analyzer{lex, model}
}

func TestScore(t *testing.T) {
	scored, err := Score(context.Background(), testComments, testAnalyzers())
	require.NoError(t, err)
	require.Len(t, scored, len(testComments))

	for i, sc := range scored {
		assert.Equal(t, i, sc.Index)
		assert.Equal(t, testComments[i].Text, sc.Comment.Text)
		require.Len(t, sc.Classifications, 2)
		assert.Equal(t, "lex", sc.Classifications[0].Analyzer)
		assert.Equal(t, "model", sc.Classifications[1].Analyzer)
	}
}

func TestScoreAbortsOnError(t *testing.T) {
	analyzers := testAnalyzers()
	analyzers[1].(*fakeAnalyzer).failOn = "meh"

	_, err := Score(context.Background(), testComments, analyzers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comment 2")
}

func TestScoreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Score(ctx, testComments, testAnalyzers())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountDistribution(t *testing.T) {
	scored, err := Score(context.Background(), testComments, testAnalyzers())
	require.NoError(t, err)

	dist, err := CountDistribution(scored, []string{"lex", "model"})
	require.NoError(t, err)

	assert.Equal(t, models.Counts{Negative: 1, Neutral: 1, Positive: 2}, dist["lex"])
	assert.Equal(t, models.Counts{Negative: 1, Neutral: 0, Positive: 3}, dist["model"])
	for name, counts := range dist {
		assert.Equal(t, len(testComments), counts.Total(), name)
	}
}

func TestCountDistributionEmpty(t *testing.T) {
	dist, err := CountDistribution(nil, []string{"lex", "model"})
	require.NoError(t, err)

	require.Len(t, dist, 2)
	assert.Equal(t, models.Counts{}, dist["lex"])
	assert.Equal(t, models.Counts{}, dist["model"])
}

func TestCountDistributionMissingAnalyzer(t *testing.T) {
	scored, err := Score(context.Background(), testComments, testAnalyzers())
	require.NoError(t, err)

	_, err = CountDistribution(scored, []string{"other"})
	assert.Error(t, err)
}

func TestBuildTimeSeries(t *testing.T) {
	scored, err := Score(context.Background(), testComments, testAnalyzers())
	require.NoError(t, err)

	ts, err := BuildTimeSeries(scored, "lex")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "", "2024-01-03"}, ts.Dates)
	assert.Equal(t, []float64{0.5, -0.5, 0, 0.5}, ts.CompoundScores)
}

func TestBuildTimeSeriesEmpty(t *testing.T) {
	ts, err := BuildTimeSeries(nil, "lex")
	require.NoError(t, err)

	assert.NotNil(t, ts.Dates)
	assert.NotNil(t, ts.CompoundScores)
	assert.Empty(t, ts.Dates)
}

func TestBuildTimeSeriesRequiresLexicon(t *testing.T) {
	scored, err := Score(context.Background(), testComments, testAnalyzers())
	require.NoError(t, err)

	_, err = BuildTimeSeries(scored, "model")
	assert.Error(t, err)
}

func TestBuildTimeSeriesWithVADER(t *testing.T) {
	vader := sentiment.NewVADERAnalyzer("vader")
	comments := []models.Comment{
		{Text: "This is wonderful, I love it!", PublishedAt: date("2024-05-01")},
		{Text: "Terrible. Worst video ever.", PublishedAt: date("2024-05-02")},
	}

	scored, err := Score(context.Background(), comments, []sentiment.Analyzer{vader})
	require.NoError(t, err)

	ts, err := BuildTimeSeries(scored, "vader")
	require.NoError(t, err)
	require.Len(t, ts.CompoundScores, 2)
	assert.Greater(t, ts.CompoundScores[0], 0.0)
	assert.Less(t, ts.CompoundScores[1], 0.0)
	for _, s := range ts.CompoundScores {
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestBuildRows(t *testing.T) {
	scored, err := Score(context.Background(), testComments[:2], testAnalyzers())
	require.NoError(t, err)

	rows := BuildRows("vid", scored)
	require.Len(t, rows, 4)

	assert.Equal(t, "lex#000000", rows[0].SortKey)
	assert.Equal(t, 0.5, rows[0].Compound)
	assert.Equal(t, "model#000000", rows[1].SortKey)
	assert.Equal(t, "lex#000001", rows[2].SortKey)
	assert.Equal(t, "negative", rows[2].Label)
	assert.Equal(t, "2024-01-02", rows[2].PublishedAt)
}
