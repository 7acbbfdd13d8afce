package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotLoader owns the inference session shared by every pretrained model.
// The ONNX Runtime session needs libonnxruntime and libtokenizers on the host.
type HugotLoader struct {
	modelDir string
	session  *hugot.Session
	mu       sync.Mutex
}

func NewHugotLoader(modelDir string) (*HugotLoader, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	slog.Info("[HugotLoader] Session initialized", slog.String("model_dir", modelDir))
	return &HugotLoader{modelDir: modelDir, session: session}, nil
}

// Load downloads modelName unless it is already present, then builds a text
// classification pipeline that reports every label.
func (l *HugotLoader) Load(_ context.Context, modelName string) (Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	modelPath := filepath.Join(l.modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[HugotLoader] Model not found, downloading...", slog.String("model", modelName))
		downloaded, err := hugot.DownloadModel(modelName, l.modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to download model %s: %w", modelName, err)
		}
		modelPath = downloaded
		slog.Info("[HugotLoader] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[HugotLoader] Using existing model", slog.String("path", modelPath))
	}

	labels, err := ReadModelLabels(modelPath)
	if err != nil {
		return nil, err
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      modelName,
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
			pipelines.WithMultiLabel(),
		},
	}
	pipeline, err := hugot.NewPipeline(l.session, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline for %s: %w", modelName, err)
	}

	return &HugotModel{name: modelName, pipeline: pipeline, labels: labels}, nil
}

func (l *HugotLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session == nil {
		return nil
	}
	err := l.session.Destroy()
	l.session = nil
	return err
}

type HugotModel struct {
	name     string
	pipeline *pipelines.TextClassificationPipeline
	labels   []string
}

func (m *HugotModel) Labels() []string { return m.labels }

// Logits returns log-probabilities in label order. The pipeline already
// applies softmax, and softmax of log-probabilities gives them back unchanged.
func (m *HugotModel) Logits(_ context.Context, text string) ([]float64, error) {
	output, err := m.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("model %s failed: %w", m.name, err)
	}
	if len(output.ClassificationOutputs) == 0 {
		return nil, fmt.Errorf("model %s returned no output", m.name)
	}

	byLabel := make(map[string]float64, len(m.labels))
	for _, out := range output.ClassificationOutputs[0] {
		byLabel[out.Label] = float64(out.Score)
	}

	logits := make([]float64, len(m.labels))
	for i, label := range m.labels {
		p, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("model %s gave no score for label %q", m.name, label)
		}
		logits[i] = math.Log(math.Max(p, 1e-12))
	}
	return logits, nil
}

type modelConfig struct {
	ID2Label map[string]string `json:"id2label"`
}

// ReadModelLabels reads id2label from the model's config.json, ordered by id.
func ReadModelLabels(modelPath string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(modelPath, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read model config: %w", err)
	}

	var cfg modelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}
	if len(cfg.ID2Label) == 0 {
		return nil, errors.New("model config has no id2label")
	}

	ids := make([]int, 0, len(cfg.ID2Label))
	byID := make(map[int]string, len(cfg.ID2Label))
	for key, label := range cfg.ID2Label {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid id2label key %q: %w", key, err)
		}
		ids = append(ids, id)
		byID[id] = label
	}
	sort.Ints(ids)

	labels := make([]string, len(ids))
	for i, id := range ids {
		if id != i {
			return nil, fmt.Errorf("id2label ids are not contiguous: missing %d", i)
		}
		labels[i] = byID[id]
	}
	return labels, nil
}
