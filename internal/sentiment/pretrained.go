package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/commentflow/internal/models"
	"gonum.org/v1/gonum/floats"
)

type TruncationMode string

const (
	// Truncate keeps the first MaxInputLength tokens, cut to the rune cap.
	Truncate TruncationMode = "truncate"
	// Window scores overlapping windows of MaxInputLength tokens with a stride
	// of half a window and averages their probabilities. A window over the rune
	// cap is split again into overlapping rune windows.
	Window TruncationMode = "window"
)

// DefaultMaxInputRunes caps every model input so that text without spaces,
// such as CJK or emoji runs, stays inside the model's position limit.
const DefaultMaxInputRunes = 512

// Model is a pretrained sequence classifier. Labels is the model's id2label
// in index order; Logits returns one raw score per label in the same order.
type Model interface {
	Labels() []string
	Logits(ctx context.Context, text string) ([]float64, error)
}

type PretrainedAnalyzer struct {
	name      string
	model     Model
	labelMap  LabelMap
	maxTokens int
	maxRunes  int
	mode      TruncationMode
}

type PretrainedOption func(*PretrainedAnalyzer)

// WithMaxInputRunes bounds the runes of any single model input. Values below
// one keep DefaultMaxInputRunes.
func WithMaxInputRunes(n int) PretrainedOption {
	return func(p *PretrainedAnalyzer) {
		if n > 0 {
			p.maxRunes = n
		}
	}
}

func NewPretrainedAnalyzer(name string, model Model, maxTokens int, mode TruncationMode, opts ...PretrainedOption) (*PretrainedAnalyzer, error) {
	if maxTokens < 2 {
		return nil, fmt.Errorf("analyzer %s: max input length must be at least 2, got %d", name, maxTokens)
	}
	if mode != Truncate && mode != Window {
		return nil, fmt.Errorf("analyzer %s: unknown truncation mode %q", name, mode)
	}

	labelMap, err := NewLabelMap(model.Labels())
	if err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", name, err)
	}

	p := &PretrainedAnalyzer{
		name:      name,
		model:     model,
		labelMap:  labelMap,
		maxTokens: maxTokens,
		maxRunes:  DefaultMaxInputRunes,
		mode:      mode,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxRunes < 2 {
		return nil, fmt.Errorf("analyzer %s: max input runes must be at least 2, got %d", name, p.maxRunes)
	}
	return p, nil
}

func (p *PretrainedAnalyzer) Name() string { return p.name }

func (p *PretrainedAnalyzer) MaxInputLength() int { return p.maxTokens }

func (p *PretrainedAnalyzer) Kind() string { return KindPretrained }

func (p *PretrainedAnalyzer) Classify(ctx context.Context, text string) (models.Classification, error) {
	tokens := strings.Fields(text)
	if len(tokens) <= p.maxTokens && utf8.RuneCountInString(text) <= p.maxRunes {
		return p.classifyWindow(ctx, text)
	}

	if p.mode == Truncate {
		if len(tokens) > p.maxTokens {
			tokens = tokens[:p.maxTokens]
		}
		return p.classifyWindow(ctx, TruncateRunes(strings.Join(tokens, " "), p.maxRunes))
	}

	var windows []string
	for _, window := range SplitWindows(tokens, p.maxTokens) {
		windows = append(windows, p.runeWindows(strings.Join(window, " "))...)
	}
	if len(windows) == 1 {
		return p.classifyWindow(ctx, windows[0])
	}

	results := make([]models.Classification, 0, len(windows))
	mean := make([]float64, p.labelMap.Len())

	for _, window := range windows {
		res, err := p.classifyWindow(ctx, window)
		if err != nil {
			return models.Classification{}, err
		}
		for i, lp := range res.Probabilities {
			mean[i] += lp.Probability
		}
		results = append(results, res)
	}
	floats.Scale(1/float64(len(windows)), mean)

	overall := p.fromProbabilities(mean)
	overall.Windows = results
	return overall, nil
}

// runeWindows splits text that is over the rune cap into overlapping windows
// of runes, the same way SplitWindows handles tokens.
func (p *PretrainedAnalyzer) runeWindows(text string) []string {
	if utf8.RuneCountInString(text) <= p.maxRunes {
		return []string{text}
	}

	chars := strings.Split(text, "")
	var out []string
	for _, window := range SplitWindows(chars, p.maxRunes) {
		out = append(out, strings.Join(window, ""))
	}
	return out
}

func (p *PretrainedAnalyzer) classifyWindow(ctx context.Context, text string) (models.Classification, error) {
	logits, err := p.model.Logits(ctx, text)
	if err != nil {
		return models.Classification{}, fmt.Errorf("analyzer %s: %w", p.name, err)
	}
	if len(logits) != p.labelMap.Len() {
		return models.Classification{}, fmt.Errorf("analyzer %s: model returned %d scores for %d labels",
			p.name, len(logits), p.labelMap.Len())
	}

	probs, err := Softmax(logits)
	if err != nil {
		return models.Classification{}, fmt.Errorf("analyzer %s: %w", p.name, err)
	}
	return p.fromProbabilities(probs), nil
}

func (p *PretrainedAnalyzer) fromProbabilities(probs []float64) models.Classification {
	out := make([]models.LabelProbability, len(probs))
	for i, prob := range probs {
		out[i] = models.LabelProbability{
			ModelLabel:  p.labelMap.ModelLabel(i),
			Label:       p.labelMap.Label(i),
			Probability: prob,
		}
	}

	idx := floats.MaxIdx(probs)
	return models.Classification{
		Analyzer:      p.name,
		Label:         p.labelMap.Label(idx),
		Confidence:    probs[idx],
		Probabilities: out,
	}
}

var errEmptyLogits = errors.New("softmax of empty logits")

// Softmax converts raw scores into a probability distribution.
func Softmax(logits []float64) ([]float64, error) {
	if len(logits) == 0 {
		return nil, errEmptyLogits
	}
	for _, l := range logits {
		if math.IsNaN(l) {
			return nil, errors.New("softmax of NaN logit")
		}
	}

	lse := floats.LogSumExp(logits)
	if math.IsInf(lse, 0) {
		return nil, errors.New("softmax of non-finite logits")
	}
	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = math.Exp(l - lse)
	}
	return probs, nil
}

// TruncateRunes returns the longest prefix of text holding at most n runes.
func TruncateRunes(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// SplitWindows cuts tokens into windows of size tokens overlapping by half a
// window. The last window is aligned to the end of the input.
func SplitWindows(tokens []string, size int) [][]string {
	if len(tokens) <= size {
		return [][]string{tokens}
	}

	stride := size / 2
	var windows [][]string
	for start := 0; ; start += stride {
		if start+size >= len(tokens) {
			windows = append(windows, tokens[len(tokens)-size:])
			return windows
		}
		windows = append(windows, tokens[start:start+size])
	}
}
