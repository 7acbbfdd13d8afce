package sentiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/models"
)

const (
	KindLexicon    = "lexicon"
	KindPretrained = "pretrained"
)

var ErrNoLexiconAnalyzer = errors.New("no lexicon analyzer configured")

// Analyzer classifies a single text. MaxInputLength is 0 when unlimited.
type Analyzer interface {
	Name() string
	Kind() string
	MaxInputLength() int
	Classify(ctx context.Context, text string) (models.Classification, error)
}

// ModelLoader resolves a pretrained model by name.
type ModelLoader interface {
	Load(ctx context.Context, modelName string) (Model, error)
}

// Analyzers holds every configured analyzer in configuration order. It is
// built once at startup and only read afterwards.
type Analyzers struct {
	ordered []Analyzer
	byName  map[string]Analyzer
	closers []io.Closer
}

func NewAnalyzers(analyzers ...Analyzer) (*Analyzers, error) {
	a := &Analyzers{byName: make(map[string]Analyzer, len(analyzers))}
	for _, an := range analyzers {
		if _, dup := a.byName[an.Name()]; dup {
			return nil, fmt.Errorf("duplicate analyzer name %q", an.Name())
		}
		a.byName[an.Name()] = an
		a.ordered = append(a.ordered, an)
	}
	return a, nil
}

// BuildAnalyzers constructs analyzers from configuration. The loader is only
// consulted for pretrained analyzers and may be nil when none are configured.
func BuildAnalyzers(ctx context.Context, cfgs []config.AnalyzerConfig, loader ModelLoader) (*Analyzers, error) {
	list := make([]Analyzer, 0, len(cfgs))
	for _, c := range cfgs {
		switch c.Kind {
		case config.AnalyzerKindLexicon:
			list = append(list, NewVADERAnalyzer(c.Name))
		case config.AnalyzerKindPretrained:
			if loader == nil {
				return nil, fmt.Errorf("analyzer %s: no model loader available", c.Name)
			}
			model, err := loader.Load(ctx, c.Model)
			if err != nil {
				return nil, fmt.Errorf("analyzer %s: %w", c.Name, err)
			}
			an, err := NewPretrainedAnalyzer(c.Name, model, c.MaxInputLength, TruncationMode(c.Truncation),
				WithMaxInputRunes(c.MaxInputRunes))
			if err != nil {
				return nil, err
			}
			list = append(list, an)
		default:
			return nil, fmt.Errorf("analyzer %s: unknown kind %q", c.Name, c.Kind)
		}
		slog.Info("[Analyzers] Analyzer ready",
			slog.String("name", c.Name),
			slog.String("kind", c.Kind))
	}

	analyzers, err := NewAnalyzers(list...)
	if err != nil {
		return nil, err
	}
	if closer, ok := loader.(io.Closer); ok {
		analyzers.closers = append(analyzers.closers, closer)
	}
	return analyzers, nil
}

func (a *Analyzers) All() []Analyzer {
	return append([]Analyzer(nil), a.ordered...)
}

func (a *Analyzers) Get(name string) (Analyzer, bool) {
	an, ok := a.byName[name]
	return an, ok
}

// Lexicon returns the first lexicon analyzer, used for time-series mode.
func (a *Analyzers) Lexicon() (Analyzer, error) {
	for _, an := range a.ordered {
		if an.Kind() == KindLexicon {
			return an, nil
		}
	}
	return nil, ErrNoLexiconAnalyzer
}

func (a *Analyzers) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
