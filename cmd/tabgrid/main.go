// tabgrid is an interactive in-memory spreadsheet: a grid of cells holding
// literal text or formulas referring to other cells by position, evaluated
// lazily with automatic dependency tracking.
//
// Usage:
//
//	tabgrid [flags]
//
// Options:
//
//	-c, --config       Path to an explicit JSONC config file
//	--no-history       Disable REPL history persistence
//
// Commands (in REPL):
//
//	set <cell> <text>    Set a cell's content (no text clears it)
//	get <cell>           Show a cell's evaluated value
//	text <cell>          Show a cell's raw stored text
//	clear <cell>         Clear a cell
//	print                Print evaluated values as a tab-separated grid
//	print text           Print raw stored text as a tab-separated grid
//	size                 Show the printable grid size
//	help                 Show this help
//	exit / quit          Exit
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/tabgrid/tabgrid/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tabgrid:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tabgrid", flag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to an explicit JSONC config file")
	noHistory := fs.Bool("no-history", false, "Disable REPL history persistence")

	if err := fs.Parse(args); err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(workDir, *configPath)
	if err != nil {
		return err
	}

	if *noHistory {
		cfg.HistoryFile = ""
	}

	repl := NewREPL(cfg)
	return repl.Run()
}
