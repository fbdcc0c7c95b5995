package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"product-normalizer/internal/normalize/service"
	"product-normalizer/internal/storage"
)

type Config struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	LogLevel     string   `mapstructure:"log_level"`
	LogFile      string   `mapstructure:"log_file"`
	MaxUploadMB  int      `mapstructure:"max_upload_mb"`

	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Translation TranslationConfig `mapstructure:"translation"`
	Semantic    SemanticConfig    `mapstructure:"semantic"`
	Match       MatchConfig       `mapstructure:"match"`
}

// RateLimitConfig: rps <= 0 выключает ограничение.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // json | sqlite
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Watch      bool   `mapstructure:"watch"` // перечитывать json при внешней правке
}

type TranslationConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Glossary string `mapstructure:"glossary"` // пусто — встроенный глоссарий
}

type SemanticConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MatchConfig — константы каскада, см. service.Policy.
type MatchConfig struct {
	EditWeight             float64           `mapstructure:"edit_weight"`
	TokenWeight            float64           `mapstructure:"token_weight"`
	TranslationConfidence  float64           `mapstructure:"translation_confidence"`
	VariantConfidence      float64           `mapstructure:"variant_confidence"`
	AbbreviationConfidence float64           `mapstructure:"abbreviation_confidence"`
	SemanticWeight         float64           `mapstructure:"semantic_weight"`
	SemanticCutoff         float64           `mapstructure:"semantic_cutoff"`
	AcceptThreshold        float64           `mapstructure:"accept_threshold"`
	ReviewThreshold        float64           `mapstructure:"review_threshold"`
	SuggestionFloor        float64           `mapstructure:"suggestion_floor"`
	MaxSuggestions         int               `mapstructure:"max_suggestions"`
	SearchFloor            float64           `mapstructure:"search_floor"`
	SearchLimit            int               `mapstructure:"search_limit"`
	PivotLanguage          string            `mapstructure:"pivot_language"`
	CollaboratorTimeout    time.Duration     `mapstructure:"collaborator_timeout"`
	BatchWorkers           int               `mapstructure:"batch_workers"`
	Abbreviations          map[string]string `mapstructure:"abbreviations"`
}

// Load: значения по умолчанию, затем config.yaml (если есть), затем
// переменные окружения NORMALIZER_* (NORMALIZER_STORAGE_DRIVER и т.п.).
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	return load(v)
}

// LoadFile читает конфиг из явно указанного файла.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("NORMALIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	p := service.DefaultPolicy()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8082)
	v.SetDefault("allow_origins", []string{"*"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/product-normalizer.log")
	v.SetDefault("max_upload_mb", 64)

	v.SetDefault("rate_limit.rps", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("storage.driver", storage.DriverJSON)
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.sqlite_path", "data/normalizer.db")
	v.SetDefault("storage.watch", true)

	v.SetDefault("translation.enabled", true)
	v.SetDefault("translation.glossary", "")
	v.SetDefault("semantic.enabled", true)

	v.SetDefault("match.edit_weight", p.Weights.Edit)
	v.SetDefault("match.token_weight", p.Weights.Token)
	v.SetDefault("match.translation_confidence", p.TranslationConfidence)
	v.SetDefault("match.variant_confidence", p.VariantConfidence)
	v.SetDefault("match.abbreviation_confidence", p.AbbreviationConfidence)
	v.SetDefault("match.semantic_weight", p.SemanticWeight)
	v.SetDefault("match.semantic_cutoff", p.SemanticCutoff)
	v.SetDefault("match.accept_threshold", p.AcceptThreshold)
	v.SetDefault("match.review_threshold", p.ReviewThreshold)
	v.SetDefault("match.suggestion_floor", p.SuggestionFloor)
	v.SetDefault("match.max_suggestions", p.MaxSuggestions)
	v.SetDefault("match.search_floor", p.SearchFloor)
	v.SetDefault("match.search_limit", p.SearchLimit)
	v.SetDefault("match.pivot_language", p.PivotLanguage)
	v.SetDefault("match.collaborator_timeout", "2s")
	v.SetDefault("match.batch_workers", p.BatchWorkers)
	v.SetDefault("match.abbreviations", map[string]string{})
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	switch c.Storage.Driver {
	case storage.DriverJSON:
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the json driver")
		}
	case storage.DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver must be 'json' or 'sqlite', got: %s", c.Storage.Driver)
	}
	switch c.Match.PivotLanguage {
	case "en", "fr":
	default:
		return fmt.Errorf("match.pivot_language must be 'en' or 'fr', got: %s", c.Match.PivotLanguage)
	}
	if c.Match.BatchWorkers <= 0 {
		return fmt.Errorf("match.batch_workers must be positive, got %d", c.Match.BatchWorkers)
	}
	return c.Policy().Validate()
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// MaxUploadBytes — лимит тела запроса.
func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func (c Config) Policy() service.Policy {
	m := c.Match
	return service.Policy{
		Weights:                service.Weights{Edit: m.EditWeight, Token: m.TokenWeight},
		TranslationConfidence:  m.TranslationConfidence,
		VariantConfidence:      m.VariantConfidence,
		AbbreviationConfidence: m.AbbreviationConfidence,
		SemanticWeight:         m.SemanticWeight,
		SemanticCutoff:         m.SemanticCutoff,
		AcceptThreshold:        m.AcceptThreshold,
		ReviewThreshold:        m.ReviewThreshold,
		SuggestionFloor:        m.SuggestionFloor,
		MaxSuggestions:         m.MaxSuggestions,
		SearchFloor:            m.SearchFloor,
		SearchLimit:            m.SearchLimit,
		PivotLanguage:          m.PivotLanguage,
		CollaboratorTimeout:    m.CollaboratorTimeout,
		BatchWorkers:           m.BatchWorkers,
	}
}

func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:     c.Storage.Driver,
		Dir:        c.Storage.Dir,
		SQLitePath: c.Storage.SQLitePath,
	}
}
