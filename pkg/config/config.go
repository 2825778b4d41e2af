// Package config loads run settings from defaults, an optional YAML file and
// KNN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/eval"
	"knnlab/pkg/logging"
	"knnlab/pkg/model"
	"knnlab/pkg/normalize"
)

type Config struct {
	Data DataConfig `koanf:"data"`
	Eval EvalConfig `koanf:"eval"`
	Log  LogConfig  `koanf:"log"`
}

type DataConfig struct {
	Path        string `koanf:"path"`   // labeled CSV, label in the last column
	Header      bool   `koanf:"header"` // first CSV row holds column names
	Comma       string `koanf:"comma" validate:"len=1"`
	SQLitePath  string `koanf:"sqlite_path"`  // read the table from SQLite instead of CSV
	SQLiteQuery string `koanf:"sqlite_query"` // D feature columns then the label
}

type EvalConfig struct {
	K                int     `koanf:"k" validate:"min=1"`
	TestRatio        float64 `koanf:"test_ratio" validate:"gte=0,lt=1"`
	Strategy         string  `koanf:"strategy" validate:"oneof=unweighted weighted inverse-distance-weighted"`
	Smoothing        float64 `koanf:"smoothing" validate:"gt=0"`
	Trials           int     `koanf:"trials" validate:"min=1"`
	Seed             uint64  `koanf:"seed"` // 0 picks a seed from the clock
	Normalize        bool    `koanf:"normalize"`
	DegeneratePolicy string  `koanf:"degenerate_policy" validate:"oneof=zero strict"`
	Workers          int     `koanf:"workers" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DefaultConfigPaths are tried in order when no path is given.
var DefaultConfigPaths = []string{"knn.yaml", "configs/knn.yaml"}

const (
	// PathEnvVar overrides the config file location.
	PathEnvVar = "KNN_CONFIG"
	envPrefix  = "KNN_"
)

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Header: true,
			Comma:  ",",
		},
		Eval: EvalConfig{
			K:                3,
			TestRatio:        0.2,
			Strategy:         string(model.StrategyUnweighted),
			Smoothing:        model.DefaultSmoothing,
			Trials:           10,
			Normalize:        true,
			DegeneratePolicy: "zero",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config. An explicit path that does not exist is an error; with
// an empty path the KNN_CONFIG variable and then DefaultConfigPaths are tried,
// and defaults are used if none exists.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		logging.Debug().Str("path", path).Msg("config file loaded")
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps KNN_EVAL_TEST_RATIO to eval.test_ratio: the first underscore
// separates the section, the rest belong to the field name.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks field ranges. Failures wrap common.ErrInvalidArgument.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s fails %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
			}
			return common.InvalidArgumentf("config: %s", strings.Join(msgs, "; "))
		}
		return common.InvalidArgumentf("config: %v", err)
	}
	return nil
}

// EvalParams converts the eval section into evaluator parameters.
func (c *Config) EvalParams() (eval.Params, error) {
	strategy, err := model.ParseStrategy(c.Eval.Strategy)
	if err != nil {
		return eval.Params{}, err
	}
	policy, err := normalize.ParsePolicy(c.Eval.DegeneratePolicy)
	if err != nil {
		return eval.Params{}, err
	}
	p := eval.Params{
		K:         c.Eval.K,
		TestRatio: c.Eval.TestRatio,
		Strategy:  strategy,
		Smoothing: c.Eval.Smoothing,
		Trials:    c.Eval.Trials,
		Normalize: c.Eval.Normalize,
		Policy:    policy,
		Workers:   c.Eval.Workers,
	}
	return p, p.Validate()
}

// CSVOptions returns reader options for the data section.
func (c *Config) CSVOptions() dataset.CSVOptions {
	opts := dataset.CSVOptions{Header: c.Data.Header, Comma: ','}
	if r := []rune(c.Data.Comma); len(r) == 1 {
		opts.Comma = r[0]
	}
	return opts
}

// LoggingConfig returns settings for logging.Init.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	cfg.Caller = c.Log.Caller
	return cfg
}
