package models

import (
	"encoding/json"
	"fmt"
)

type Label string

const (
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
	LabelPositive Label = "positive"
)

// Labels lists the canonical classes in output order.
var Labels = []Label{LabelNegative, LabelNeutral, LabelPositive}

// LexiconScores are the VADER polarity proportions plus the compound summary.
type LexiconScores struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// LabelProbability is one entry of a model's output distribution, in the
// model's own label order.
type LabelProbability struct {
	ModelLabel  string  `json:"model_label"`
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
}

// Classification is the result of a single analyzer on a single text.
// Exactly one of Lexicon or Probabilities is set, depending on the analyzer kind.
type Classification struct {
	Analyzer      string             `json:"analyzer"`
	Label         Label              `json:"label"`
	Confidence    float64            `json:"confidence"`
	Lexicon       *LexiconScores     `json:"lexicon,omitempty"`
	Probabilities []LabelProbability `json:"probabilities,omitempty"`
	Windows       []Classification   `json:"windows,omitempty"`
}

// Counts is the per-class tally of one analyzer.
type Counts struct {
	Negative int
	Neutral  int
	Positive int
}

func (c *Counts) Add(label Label) error {
	switch label {
	case LabelNegative:
		c.Negative++
	case LabelNeutral:
		c.Neutral++
	case LabelPositive:
		c.Positive++
	default:
		return fmt.Errorf("unknown sentiment label %q", label)
	}
	return nil
}

func (c Counts) Total() int {
	return c.Negative + c.Neutral + c.Positive
}

// MarshalJSON encodes counts as [negative, neutral, positive].
func (c Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{c.Negative, c.Neutral, c.Positive})
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	var v [3]int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Negative, c.Neutral, c.Positive = v[0], v[1], v[2]
	return nil
}

// Distribution maps analyzer name to its class counts.
type Distribution map[string]Counts

type TimeSeries struct {
	Dates          []string  `json:"dates"`
	CompoundScores []float64 `json:"compound_scores"`
}
