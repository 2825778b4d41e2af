package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gonuts/flag"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/logging"
	"knnlab/pkg/model"
	"knnlab/pkg/normalize"
)

const Prompt = "knn> "

// session is the state of one interactive run: the raw training table, its
// scaled copy and the bounds used to scale queries.
type session struct {
	raw       *dataset.Table
	scaled    *dataset.Table
	bounds    normalize.Bounds
	k         int
	strategy  model.Strategy
	smoothing float64
}

func main() {
	data := flag.String("data", "", "training CSV, label in the last column")
	k := flag.Int("k", 3, "number of neighbours")
	strategy := flag.String("strategy", "unweighted", "voting strategy: unweighted | weighted")
	flag.Parse()

	cfg := logging.DefaultConfig()
	cfg.Format = "console"
	cfg.Level = "warn"
	logging.Init(cfg)

	s := &session{k: *k, smoothing: model.DefaultSmoothing}
	st, err := model.ParseStrategy(*strategy)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	s.strategy = st

	fmt.Println("knn interactive classifier. Type 'help' for commands.")
	if *data != "" {
		s.handleLoad([]string{"load", *data})
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(strings.ReplaceAll(line, ",", " "))
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "load":
			s.handleLoad(parts)
		case "k":
			s.handleK(parts)
		case "strategy", "vote":
			s.handleStrategy(parts)
		case "classify", "c":
			s.handleClassify(parts[1:])
		case "neighbors", "nn":
			s.handleNeighbors(parts)
		case "info":
			s.handleInfo()
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			// a bare row of numbers is a query
			if _, err := strconv.ParseFloat(parts[0], 64); err == nil {
				s.handleClassify(parts)
				continue
			}
			fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
		}
	}
}

func (s *session) handleLoad(parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: load <csv_path>")
		return
	}
	start := time.Now()
	raw, err := dataset.LoadCSV(parts[1], dataset.DefaultCSVOptions())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	scaled, bounds, err := normalize.Normalizer{}.FitApply(raw)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	s.raw, s.scaled, s.bounds = raw, scaled, bounds
	fmt.Printf("Loaded %d rows x %d features (%v)\n", raw.Len(), raw.Dim(), time.Since(start))
}

func (s *session) handleK(parts []string) {
	if len(parts) < 2 {
		fmt.Printf("k = %d\n", s.k)
		return
	}
	k, err := strconv.Atoi(parts[1])
	if err != nil || k < 1 {
		fmt.Println("Error: k must be a positive integer")
		return
	}
	s.k = k
	fmt.Printf("k = %d\n", s.k)
}

func (s *session) handleStrategy(parts []string) {
	if len(parts) < 2 {
		fmt.Printf("strategy = %s\n", s.strategy)
		return
	}
	st, err := model.ParseStrategy(parts[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	s.strategy = st
	if len(parts) > 2 {
		b, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			fmt.Println("Error: smoothing must be a number")
			return
		}
		s.smoothing = b
	}
	fmt.Printf("strategy = %s\n", s.strategy)
}

// query parses and scales a typed feature row.
func (s *session) query(fields []string) (common.FeatureVector, bool) {
	if s.raw == nil {
		fmt.Println("Error: no training data, use 'load <csv_path>' first")
		return nil, false
	}
	q := make(common.FeatureVector, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			fmt.Printf("Error: feature %d (%q) is not a number\n", i, f)
			return nil, false
		}
		q[i] = v
	}
	scaled, err := normalize.Apply(q, s.bounds)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil, false
	}
	return scaled, true
}

func (s *session) handleClassify(fields []string) {
	if len(fields) == 0 {
		fmt.Println("Usage: classify <f1> <f2> ...")
		return
	}
	q, ok := s.query(fields)
	if !ok {
		return
	}
	v, err := model.NewVoter(s.strategy, s.smoothing)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	start := time.Now()
	label, err := model.Classify(q, s.scaled, s.k, v)
	duration := time.Since(start)

	if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Printf("%s (%v)\n", label, duration)
	}
}

func (s *session) handleNeighbors(parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: neighbors <f1> <f2> ...")
		return
	}
	q, ok := s.query(parts[1:])
	if !ok {
		return
	}
	nbrs, err := model.Neighbors(q, s.scaled, s.k)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, n := range nbrs {
		fmt.Printf("  row %-5d d=%.4f  %-12s %s\n", n.Row, n.Distance, s.raw.Label(n.Row), s.raw.Row(n.Row))
	}
}

func (s *session) handleInfo() {
	if s.raw == nil {
		fmt.Println("No training data loaded")
		return
	}
	counts := map[common.Label]int{}
	var order []common.Label
	for _, l := range s.raw.Labels() {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	fmt.Printf("%d rows, %d features %v, k=%d, strategy=%s\n", s.raw.Len(), s.raw.Dim(), s.raw.Names(), s.k, s.strategy)
	for _, l := range order {
		fmt.Printf("  %-12s %d\n", l, counts[l])
	}
	for _, d := range s.bounds.Degenerate() {
		fmt.Printf("  feature %d is constant in the training data\n", d)
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  load <csv>                    load a labeled training table")
	fmt.Println("  k [n]                         show or set k")
	fmt.Println("  strategy [name] [smoothing]   show or set the vote (unweighted | weighted)")
	fmt.Println("  classify <f1> <f2> ...        predict a label; a bare row of numbers works too")
	fmt.Println("  neighbors <f1> <f2> ...       list the k nearest training rows")
	fmt.Println("  info                          describe the loaded table")
	fmt.Println("  exit                          quit")
}
