package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"knnlab/pkg/config"
	"knnlab/pkg/dataset"
	"knnlab/pkg/eval"
	"knnlab/pkg/logging"
	"knnlab/pkg/monitor"
	"knnlab/pkg/report"
	"knnlab/pkg/storage"
)

// options holds the flags shared by the table-reading subcommands. A flag only
// overrides the config file when it was given on the command line.
type options struct {
	configPath  string
	data        string
	sqlite      string
	query       string
	k           int
	ratio       float64
	strategy    string
	smoothing   float64
	trials      int
	seed        uint64
	workers     int
	noNormalize bool
	format      string
	verbose     bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "YAML config file (default: knn.yaml, configs/knn.yaml or $KNN_CONFIG)")
	fs.StringVar(&o.data, "data", "", "labeled CSV file, label in the last column")
	fs.StringVar(&o.sqlite, "sqlite", "", "read the labeled table from this SQLite database instead of CSV")
	fs.StringVar(&o.query, "query", "", "SQLite query returning feature columns then the label (default "+storage.DefaultQuery+")")
	fs.IntVar(&o.k, "k", 3, "number of neighbours")
	fs.Float64Var(&o.ratio, "ratio", 0.2, "fraction of rows held out for testing")
	fs.StringVar(&o.strategy, "strategy", "unweighted", "voting strategy: unweighted | weighted")
	fs.Float64Var(&o.smoothing, "smoothing", 1.0, "b in 1/(distance+b) for weighted voting")
	fs.IntVar(&o.trials, "trials", 10, "number of repeated trials")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed; 0 picks one from the clock")
	fs.IntVar(&o.workers, "workers", 0, "parallel trials; 0 = GOMAXPROCS")
	fs.BoolVar(&o.noNormalize, "raw", false, "skip min-max normalization")
	fs.StringVar(&o.format, "format", "text", "output format: text | json | yaml")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
}

// load merges the config file, environment and explicit flags, then sets up
// logging.
func (o *options) load(cmd *commander.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	cmd.Flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Data.Path = o.data
		case "sqlite":
			cfg.Data.SQLitePath = o.sqlite
		case "query":
			cfg.Data.SQLiteQuery = o.query
		case "k":
			cfg.Eval.K = o.k
		case "ratio":
			cfg.Eval.TestRatio = o.ratio
		case "strategy":
			cfg.Eval.Strategy = o.strategy
		case "smoothing":
			cfg.Eval.Smoothing = o.smoothing
		case "trials":
			cfg.Eval.Trials = o.trials
		case "seed":
			cfg.Eval.Seed = o.seed
		case "workers":
			cfg.Eval.Workers = o.workers
		case "raw":
			cfg.Eval.Normalize = !o.noNormalize
		case "v":
			if o.verbose {
				cfg.Log.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(cfg.LoggingConfig())
	return cfg, nil
}

func (o *options) reportFormat() (report.Format, error) {
	return report.ParseFormat(o.format)
}

// seed returns the configured seed, or a clock-derived one when it is zero.
func seed(cfg *config.Config) uint64 {
	if cfg.Eval.Seed != 0 {
		return cfg.Eval.Seed
	}
	s := uint64(time.Now().UnixNano())
	logging.Info().Uint64("seed", s).Msg("no seed given, using clock")
	return s
}

func loadTable(ctx context.Context, cfg *config.Config) (*dataset.Table, error) {
	if cfg.Data.SQLitePath != "" {
		src, err := storage.OpenSQLite(cfg.Data.SQLitePath, cfg.Data.SQLiteQuery)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.LoadTable(ctx)
	}
	if cfg.Data.Path == "" {
		return nil, fmt.Errorf("no data source: pass -data or -sqlite")
	}
	return dataset.LoadCSV(cfg.Data.Path, cfg.CSVOptions())
}

func newEvaluator(cfg *config.Config) (*eval.Evaluator, error) {
	p, err := cfg.EvalParams()
	if err != nil {
		return nil, err
	}
	e, err := eval.New(p)
	if err != nil {
		return nil, err
	}
	e.Stats = monitor.NewEvalStats()
	return e, nil
}

func logStats(e *eval.Evaluator) {
	s := e.Stats.Snapshot()
	logging.Debug().
		Uint64("trials", s.Trials).
		Uint64("classifications", s.Classifications).
		Uint64("mismatches", s.Mismatches).
		Uint64("failures", s.Failures).
		Msg("evaluation counters")
}
