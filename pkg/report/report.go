// Package report renders evaluation aggregates, k sweeps and batch predictions
// as aligned text, JSON or YAML.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"knnlab/pkg/common"
	"knnlab/pkg/eval"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", common.InvalidArgumentf("unknown report format %q", s)
	}
}

// sweepRow is the structured form of one k in a sweep.
type sweepRow struct {
	K               int     `json:"k" yaml:"k"`
	RunID           string  `json:"run_id" yaml:"run_id"`
	MeanErrorRate   float64 `json:"mean_error_rate" yaml:"mean_error_rate"`
	StdDevErrorRate float64 `json:"stddev_error_rate" yaml:"stddev_error_rate"`
	Accuracy        float64 `json:"accuracy" yaml:"accuracy"`
}

// WriteAggregate renders one repeated-trial run. Text output lists each trial
// and then the summary line.
func WriteAggregate(w io.Writer, agg *eval.Aggregate, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, agg)
	case FormatYAML:
		return writeYAML(w, agg)
	case FormatText:
	default:
		return common.InvalidArgumentf("unknown report format %q", f)
	}

	p := agg.Params
	fmt.Fprintf(w, "run %s\n", agg.RunID)
	fmt.Fprintf(w, "k=%d strategy=%s smoothing=%g test_ratio=%g normalize=%t trials=%d\n\n",
		p.K, p.Strategy, p.Smoothing, p.TestRatio, p.Normalize, p.Trials)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "trial\ttrain\ttest\terrors\terror rate\t")
	for _, r := range agg.Trials {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.4f\t\n", r.Trial, r.TrainCount, r.TestCount, r.Errors, r.ErrorRate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nerrors %d/%d  mean error rate %.4f  stddev %.4f  accuracy %.2f%%\n",
		agg.TotalErrors, agg.TotalTested, agg.MeanErrorRate, agg.StdDevErrorRate, 100*agg.Accuracy())
	return err
}

// WriteSweep renders the runs of a k sweep, one line per k.
func WriteSweep(w io.Writer, aggs []*eval.Aggregate, f Format) error {
	rows := make([]sweepRow, len(aggs))
	for i, a := range aggs {
		rows[i] = sweepRow{
			K:               a.Params.K,
			RunID:           a.RunID,
			MeanErrorRate:   a.MeanErrorRate,
			StdDevErrorRate: a.StdDevErrorRate,
			Accuracy:        a.Accuracy(),
		}
	}
	switch f {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	case FormatText:
	default:
		return common.InvalidArgumentf("unknown report format %q", f)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "k\tmean error\tstddev\taccuracy\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.2f%%\t\n", r.K, r.MeanErrorRate, r.StdDevErrorRate, 100*r.Accuracy)
	}
	return tw.Flush()
}

// WriteBatch renders predictions in input order. Text output is one
// "ID<TAB>Label" line per query.
func WriteBatch(w io.Writer, b eval.Batch, f Format) error {
	preds := make([]eval.Prediction, 0, b.Len())
	for _, p := range b.All() {
		preds = append(preds, p)
	}
	switch f {
	case FormatJSON:
		return writeJSON(w, preds)
	case FormatYAML:
		return writeYAML(w, preds)
	case FormatText:
	default:
		return common.InvalidArgumentf("unknown report format %q", f)
	}
	for _, p := range preds {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Label); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
