package main

import (
	"context"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/report"
)

func classifyCmd() *commander.Command {
	var (
		o       options
		queries string
		idCol   bool
	)
	cmd := &commander.Command{
		UsageLine: "classify [options]",
		Short:     "label unlabeled rows against a training table",
		Long: `
label unlabeled rows against a training table

	$ knn classify -data train.csv -queries new.csv -k 3 -id

Queries are raw feature values; they are scaled with bounds fit on the whole
training table unless -raw is given. Output is one "ID<TAB>Label" line per
query, in input order.

`,
		Flag: *flag.NewFlagSet("classify", flag.ExitOnError),
	}
	o.register(&cmd.Flag)
	cmd.Flag.StringVar(&queries, "queries", "", "CSV of unlabeled feature rows")
	cmd.Flag.BoolVar(&idCol, "id", false, "first column of the queries file is a row ID")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		if queries == "" {
			return common.InvalidArgumentf("-queries is required")
		}
		return runClassify(cmd, &o, queries, idCol)
	}
	return cmd
}

func runClassify(cmd *commander.Command, o *options, queriesPath string, idCol bool) error {
	format, err := o.reportFormat()
	if err != nil {
		return err
	}
	cfg, err := o.load(cmd)
	if err != nil {
		return err
	}
	train, err := loadTable(context.Background(), cfg)
	if err != nil {
		return err
	}
	logTable(train)

	f, err := os.Open(queriesPath)
	if err != nil {
		return err
	}
	defer f.Close()
	opts := cfg.CSVOptions()
	opts.IDColumn = idCol
	rows, err := dataset.ReadUnlabeledCSV(f, opts)
	if err != nil {
		return err
	}

	e, err := newEvaluator(cfg)
	if err != nil {
		return err
	}
	batch, err := e.ApplyToUnlabeledBatch(train, rows)
	if err != nil {
		return err
	}
	return report.WriteBatch(os.Stdout, batch, format)
}
