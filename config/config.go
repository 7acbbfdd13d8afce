package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AnalyzerKindLexicon    = "lexicon"
	AnalyzerKindPretrained = "pretrained"

	TruncationTruncate = "truncate"
	TruncationWindow   = "window"

	defaultMaxInputLength = 384
	defaultMaxInputRunes  = 512
)

type Config struct {
	Env       string           `yaml:"env"`
	LogLevel  string           `yaml:"log_level"`
	HTTPAddr  string           `yaml:"http_addr"`
	JSONDump  string           `yaml:"json_dump"`
	ModelDir  string           `yaml:"model_dir"`
	YouTube   YouTubeConfig    `yaml:"youtube"`
	Analyzers []AnalyzerConfig `yaml:"analyzers"`
	Valkey    ValkeyConfig     `yaml:"valkey"`
	DynamoDB  DynamoDBConfig   `yaml:"dynamodb"`
	Kafka     KafkaConfig      `yaml:"kafka"`
}

type YouTubeConfig struct {
	APIKey            string  `yaml:"api_key"`
	AccessToken       string  `yaml:"access_token"`
	MaxPages          int     `yaml:"max_pages"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type AnalyzerConfig struct {
	Name           string `yaml:"name"`
	Kind           string `yaml:"kind"`
	Model          string `yaml:"model"`
	MaxInputLength int    `yaml:"max_input_length"`
	MaxInputRunes  int    `yaml:"max_input_runes"`
	Truncation     string `yaml:"truncation"`
}

type ValkeyConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	TLS      bool          `yaml:"tls"`
	TTL      time.Duration `yaml:"ttl"`
}

type DynamoDBConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Region   string        `yaml:"region"`
	Endpoint string        `yaml:"endpoint"`
	Table    string        `yaml:"table"`
	TTL      time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Enabled bool   `yaml:"enabled"`
	Broker  string `yaml:"broker"`
	Topic   string `yaml:"topic"`
}

// DefaultAnalyzers mirrors the three analyzers of the original experiments.
func DefaultAnalyzers() []AnalyzerConfig {
	return []AnalyzerConfig{
		{Name: "vader", Kind: AnalyzerKindLexicon},
		{
			Name:           "roberta",
			Kind:           AnalyzerKindPretrained,
			Model:          "cardiffnlp/twitter-roberta-base-sentiment-latest",
			MaxInputLength: defaultMaxInputLength,
			MaxInputRunes:  defaultMaxInputRunes,
			Truncation:     TruncationTruncate,
		},
		{
			Name:           "distilbert",
			Kind:           AnalyzerKindPretrained,
			Model:          "AdamCodd/distilbert-base-uncased-finetuned-sentiment-amazon",
			MaxInputLength: defaultMaxInputLength,
			MaxInputRunes:  defaultMaxInputRunes,
			Truncation:     TruncationTruncate,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// Load reads configuration from the environment, then overlays CONFIG_FILE when set.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		JSONDump: getEnv("JSON_DUMP_PATH", "json_output.txt"),
		ModelDir: getEnv("MODEL_DIR", "./models"),
		YouTube: YouTubeConfig{
			APIKey:            os.Getenv("YOUTUBE_API_KEY"),
			AccessToken:       os.Getenv("YOUTUBE_ACCESS_TOKEN"),
			MaxPages:          getEnvInt("YOUTUBE_MAX_PAGES", 0),
			RequestsPerSecond: getEnvFloat("YOUTUBE_REQUESTS_PER_SECOND", 0),
		},
		Analyzers: DefaultAnalyzers(),
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      getEnvBool("VALKEY_TLS", false),
			TTL:      getEnvDuration("VALKEY_RESULT_TTL", time.Hour),
		},
		DynamoDB: DynamoDBConfig{
			Enabled:  getEnvBool("DYNAMODB_ENABLED", false),
			Region:   getEnv("AWS_REGION", "us-west-2"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
			Table:    getEnv("DYNAMODB_TABLE", "CommentSentiments"),
			TTL:      getEnvDuration("DYNAMODB_ROW_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Broker:  getEnv("KAFKA_BROKER", "localhost:29092"),
			Topic:   getEnv("KAFKA_RESULTS_TOPIC", "comment-sentiment-results"),
		},
	}

	if names := os.Getenv("ANALYZERS"); names != "" {
		cfg.Analyzers = selectAnalyzers(cfg.Analyzers, strings.Split(names, ","))
	}

	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	cfg.applyAnalyzerDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// selectAnalyzers keeps the named analyzers in the order they were requested.
func selectAnalyzers(all []AnalyzerConfig, names []string) []AnalyzerConfig {
	byName := make(map[string]AnalyzerConfig, len(all))
	for _, a := range all {
		byName[a.Name] = a
	}

	selected := make([]AnalyzerConfig, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if a, ok := byName[name]; ok {
			selected = append(selected, a)
		}
	}
	return selected
}

func (c *Config) applyAnalyzerDefaults() {
	for i := range c.Analyzers {
		a := &c.Analyzers[i]
		if a.Kind == AnalyzerKindPretrained {
			if a.Truncation == "" {
				a.Truncation = TruncationTruncate
			}
			if a.MaxInputLength == 0 {
				a.MaxInputLength = defaultMaxInputLength
			}
			if a.MaxInputRunes == 0 {
				a.MaxInputRunes = defaultMaxInputRunes
			}
		}
	}
}

func (c *Config) validate() error {
	if c.YouTube.APIKey == "" && c.YouTube.AccessToken == "" {
		return errors.New("YouTube credentials are required (set YOUTUBE_API_KEY or YOUTUBE_ACCESS_TOKEN)")
	}
	if len(c.Analyzers) == 0 {
		return errors.New("at least one analyzer must be configured")
	}

	seen := make(map[string]bool, len(c.Analyzers))
	hasLexicon := false
	for _, a := range c.Analyzers {
		if a.Name == "" {
			return errors.New("analyzer name is required")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate analyzer name %q", a.Name)
		}
		seen[a.Name] = true

		switch a.Kind {
		case AnalyzerKindLexicon:
			hasLexicon = true
		case AnalyzerKindPretrained:
			if a.Model == "" {
				return fmt.Errorf("analyzer %q: model is required", a.Name)
			}
			if a.Truncation != TruncationTruncate && a.Truncation != TruncationWindow {
				return fmt.Errorf("analyzer %q: unknown truncation mode %q", a.Name, a.Truncation)
			}
			if a.MaxInputLength < 2 {
				return fmt.Errorf("analyzer %q: max_input_length must be at least 2", a.Name)
			}
			if a.MaxInputRunes < 2 {
				return fmt.Errorf("analyzer %q: max_input_runes must be at least 2", a.Name)
			}
		default:
			return fmt.Errorf("analyzer %q: unknown kind %q", a.Name, a.Kind)
		}
	}
	if !hasLexicon {
		return errors.New("a lexicon analyzer is required for time-series mode")
	}
	if c.DynamoDB.Enabled && c.DynamoDB.Table == "" {
		return errors.New("DynamoDB table is required when DynamoDB is enabled")
	}
	if c.Kafka.Enabled && (c.Kafka.Broker == "" || c.Kafka.Topic == "") {
		return errors.New("Kafka broker and topic are required when Kafka is enabled")
	}
	return nil
}
