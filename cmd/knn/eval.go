package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"knnlab/pkg/dataset"
	"knnlab/pkg/eval"
	"knnlab/pkg/logging"
	"knnlab/pkg/report"
)

func evalCmd() *commander.Command {
	var (
		o     options
		folds int
	)
	cmd := &commander.Command{
		UsageLine: "eval [options]",
		Short:     "estimate the error rate with repeated random train/test splits",
		Long: `
estimate the error rate with repeated random train/test splits

	$ knn eval -data iris.csv -k 3 -ratio 0.2 -strategy weighted -trials 10 -seed 42

With -folds N the rows are dealt into N folds instead and each fold is scored
once against the rest; -ratio and -trials are ignored.

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	o.register(&cmd.Flag)
	cmd.Flag.IntVar(&folds, "folds", 0, "k-fold cross-validation with this many folds")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		return runEval(cmd, &o, folds)
	}
	return cmd
}

func runEval(cmd *commander.Command, o *options, folds int) error {
	format, err := o.reportFormat()
	if err != nil {
		return err
	}
	cfg, err := o.load(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tbl, err := loadTable(ctx, cfg)
	if err != nil {
		return err
	}
	logTable(tbl)

	e, err := newEvaluator(cfg)
	if err != nil {
		return err
	}
	var agg *eval.Aggregate
	if folds > 0 {
		agg, err = e.CrossValidate(ctx, tbl, folds, eval.NewRand(seed(cfg)))
	} else {
		agg, err = e.RunRepeated(ctx, tbl, eval.NewRand(seed(cfg)))
	}
	if err != nil {
		return err
	}
	logStats(e)
	return report.WriteAggregate(os.Stdout, agg, format)
}

func logTable(t *dataset.Table) {
	logging.Info().Int("rows", t.Len()).Int("dim", t.Dim()).Strs("features", t.Names()).Msg("table loaded")
}
