package sentiment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spacesedan/commentflow/internal/models"
)

var ErrUnknownLabel = errors.New("model label cannot be mapped to a sentiment class")

var (
	genericLabelPattern = regexp.MustCompile(`^label_(\d+)$`)
	starLabelPattern    = regexp.MustCompile(`^([1-5])\s*stars?$`)
)

// LabelMap translates a model's output index to a canonical sentiment label.
// Its order is the model's own id2label order.
type LabelMap struct {
	modelLabels []string
	labels      []models.Label
}

// NewLabelMap resolves each model label by name. Supported schemes are
// names containing neg/neu/pos, generic LABEL_<i> for two and three class
// models, and 1 to 5 star ratings.
func NewLabelMap(modelLabels []string) (LabelMap, error) {
	if len(modelLabels) < 2 {
		return LabelMap{}, fmt.Errorf("label map needs at least two labels, got %d", len(modelLabels))
	}

	labels := make([]models.Label, len(modelLabels))
	for i, raw := range modelLabels {
		label, err := resolveLabel(raw, len(modelLabels))
		if err != nil {
			return LabelMap{}, err
		}
		labels[i] = label
	}

	return LabelMap{
		modelLabels: append([]string(nil), modelLabels...),
		labels:      labels,
	}, nil
}

func resolveLabel(raw string, size int) (models.Label, error) {
	name := strings.ToLower(strings.TrimSpace(raw))

	if m := genericLabelPattern.FindStringSubmatch(name); m != nil {
		idx, _ := strconv.Atoi(m[1])
		switch {
		case size == 3 && idx < 3:
			return models.Labels[idx], nil
		case size == 2 && idx == 0:
			return models.LabelNegative, nil
		case size == 2 && idx == 1:
			return models.LabelPositive, nil
		}
		return "", fmt.Errorf("%w: %q in a %d-class model", ErrUnknownLabel, raw, size)
	}

	if m := starLabelPattern.FindStringSubmatch(name); m != nil {
		stars, _ := strconv.Atoi(m[1])
		switch {
		case stars <= 2:
			return models.LabelNegative, nil
		case stars == 3:
			return models.LabelNeutral, nil
		default:
			return models.LabelPositive, nil
		}
	}

	switch {
	case strings.Contains(name, "neg"):
		return models.LabelNegative, nil
	case strings.Contains(name, "neu"):
		return models.LabelNeutral, nil
	case strings.Contains(name, "pos"):
		return models.LabelPositive, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, raw)
}

func (m LabelMap) Len() int { return len(m.labels) }

func (m LabelMap) Label(idx int) models.Label { return m.labels[idx] }

func (m LabelMap) ModelLabel(idx int) string { return m.modelLabels[idx] }
