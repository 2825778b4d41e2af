package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"knnlab/pkg/dataset"
	"knnlab/pkg/eval"
	"knnlab/pkg/logging"
)

func generateCmd() *commander.Command {
	var (
		out   string
		total int
		sigma float64
		seed  uint64
	)
	def := dataset.DefaultGeneratorConfig()
	cmd := &commander.Command{
		UsageLine: "generate [options]",
		Short:     "write a synthetic iris-like sample file",
		Long: `
write a synthetic iris-like sample file

	$ knn generate -out sim.csv -total 30 -sigma 0.1 -seed 1

Samples are drawn around one prototype per species with Gaussian noise on every
feature. Without -out the CSV goes to stdout.

`,
		Flag: *flag.NewFlagSet("generate", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&out, "out", "", "output CSV path")
	cmd.Flag.IntVar(&total, "total", def.Total, "number of samples, split evenly across species")
	cmd.Flag.Float64Var(&sigma, "sigma", def.Sigma, "standard deviation of the per-feature noise")
	cmd.Flag.Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		tbl, err := dataset.Generate(dataset.IrisPrototypes(), dataset.GeneratorConfig{Total: total, Sigma: sigma}, eval.NewRand(seed))
		if err != nil {
			return err
		}
		if tbl.Len() > 0 {
			if tbl, err = tbl.WithNames(dataset.IrisNames); err != nil {
				return err
			}
		}

		if out == "" {
			return dataset.WriteCSV(os.Stdout, tbl)
		}
		if err := writeSamples(out, tbl); err != nil {
			return err
		}
		logging.Info().Str("path", out).Int("rows", tbl.Len()).Msg("samples written")
		return nil
	}
	return cmd
}

// writeSamples writes tbl to path. A failed close is reported.
func writeSamples(path string, tbl *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(f, tbl); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
