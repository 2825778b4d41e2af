// Command knn evaluates and applies a brute-force k-nearest-neighbour
// classifier on CSV or SQLite feature tables.
package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func root() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0],
		Short:     "k-nearest-neighbour classification toolkit",
		Subcommands: []*commander.Command{
			evalCmd(),
			classifyCmd(),
			sweepCmd(),
			generateCmd(),
		},
		Flag: *flag.NewFlagSet("knn", flag.ExitOnError),
	}
}

func main() {
	if err := root().Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		os.Exit(1)
	}
}
