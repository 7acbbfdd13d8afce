package sentiment

import (
	"testing"

	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLabelMap(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []models.Label
	}{
		{
			name:   "named three class",
			labels: []string{"negative", "neutral", "positive"},
			want:   []models.Label{models.LabelNegative, models.LabelNeutral, models.LabelPositive},
		},
		{
			name:   "named out of order",
			labels: []string{"POSITIVE", "Negative"},
			want:   []models.Label{models.LabelPositive, models.LabelNegative},
		},
		{
			name:   "generic three class",
			labels: []string{"LABEL_0", "LABEL_1", "LABEL_2"},
			want:   []models.Label{models.LabelNegative, models.LabelNeutral, models.LabelPositive},
		},
		{
			name:   "generic binary",
			labels: []string{"LABEL_0", "LABEL_1"},
			want:   []models.Label{models.LabelNegative, models.LabelPositive},
		},
		{
			name:   "star ratings",
			labels: []string{"1 star", "2 stars", "3 stars", "4 stars", "5 stars"},
			want: []models.Label{
				models.LabelNegative, models.LabelNegative, models.LabelNeutral,
				models.LabelPositive, models.LabelPositive,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewLabelMap(tt.labels)
			require.NoError(t, err)
			require.Equal(t, len(tt.want), m.Len())
			for i, want := range tt.want {
				assert.Equal(t, want, m.Label(i))
				assert.Equal(t, tt.labels[i], m.ModelLabel(i))
			}
		})
	}
}

func TestNewLabelMapErrors(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
	}{
		{"single label", []string{"positive"}},
		{"unknown name", []string{"joy", "anger"}},
		{"generic index out of range", []string{"LABEL_0", "LABEL_1", "LABEL_2", "LABEL_3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLabelMap(tt.labels)
			assert.Error(t, err)
		})
	}

	_, err := NewLabelMap([]string{"joy", "anger"})
	assert.ErrorIs(t, err, ErrUnknownLabel)
}
