package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"knnlab/pkg/common"
	"knnlab/pkg/report"
)

func sweepCmd() *commander.Command {
	var (
		o  options
		ks string
	)
	cmd := &commander.Command{
		UsageLine: "sweep [options]",
		Short:     "compare error rates across several k on identical splits",
		Long: `
compare error rates across several k on identical splits

	$ knn sweep -data iris.csv -ks 1,3,5,7,9 -strategy weighted

`,
		Flag: *flag.NewFlagSet("sweep", flag.ExitOnError),
	}
	o.register(&cmd.Flag)
	cmd.Flag.StringVar(&ks, "ks", "1,3,5,7,9", "comma separated k values")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		values, err := parseKs(ks)
		if err != nil {
			return err
		}
		return runSweep(cmd, &o, values)
	}
	return cmd
}

func parseKs(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := strconv.Atoi(part)
		if err != nil || k < 1 {
			return nil, common.InvalidArgumentf("bad k %q in -ks", part)
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, common.InvalidArgumentf("-ks is empty")
	}
	return out, nil
}

func runSweep(cmd *commander.Command, o *options, ks []int) error {
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
	aggs, err := e.SweepK(ctx, tbl, ks, seed(cfg))
	if err != nil {
		return err
	}
	logStats(e)
	return report.WriteSweep(os.Stdout, aggs, format)
}
