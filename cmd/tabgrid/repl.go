package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/tabgrid/tabgrid/exprformula"
	"github.com/tabgrid/tabgrid/internal/config"
	"github.com/tabgrid/tabgrid/position"
	"github.com/tabgrid/tabgrid/sheet"
)

// commandNames drives both dispatch and tab completion.
var commandNames = []string{"set", "get", "text", "clear", "print", "size", "help", "exit", "quit"}

// REPL is tabgrid's interactive command loop, built on a single in-memory
// Sheet. Structured on sloty's REPL in the teacher pack's companion repo:
// a liner.State prompt loop, a switch over the first whitespace-separated
// token, and best-effort history persistence.
type REPL struct {
	cfg   config.Config
	sheet *sheet.Sheet
	liner *liner.State
}

// NewREPL returns a REPL over a fresh, empty Sheet.
func NewREPL(cfg config.Config) *REPL {
	return &REPL{
		cfg:   cfg,
		sheet: sheet.New(exprformula.New()),
	}
}

// Run starts the prompt loop. It returns nil on a clean "exit"/"quit" or
// EOF, and a non-nil error only for a failure reading input.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if r.cfg.HistoryFile != "" {
		if f, err := os.Open(r.cfg.HistoryFile); err == nil {
			r.liner.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("tabgrid - in-memory spreadsheet")
	fmt.Println("Type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt(r.cfg.Prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println()
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		if r.dispatch(line) {
			break
		}
	}

	r.saveHistory()
	return nil
}

// dispatch executes one command line and reports whether the REPL should
// stop.
func (r *REPL) dispatch(line string) (stop bool) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help", "?":
		r.printHelp()
	case "set":
		r.cmdSet(args)
	case "get":
		r.cmdGet(args)
	case "text":
		r.cmdText(args)
	case "clear":
		r.cmdClear(args)
	case "print":
		r.cmdPrint(args)
	case "size":
		r.cmdSize()
	default:
		fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (r *REPL) saveHistory() {
	if r.cfg.HistoryFile == "" {
		return
	}
	if f, err := os.Create(r.cfg.HistoryFile); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) completer(line string) []string {
	var matches []string
	for _, name := range commandNames {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			matches = append(matches, name)
		}
	}
	return matches
}

// cmdSet handles "set <cell> [text...]"; the words after the cell address,
// joined with single spaces, are the text. Runs of whitespace between words
// collapse to one space; no text clears the cell.
func (r *REPL) cmdSet(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: set <cell> <text>")
		return
	}

	pos, err := position.Parse(args[0])
	if err != nil || !pos.Valid() {
		fmt.Printf("invalid cell: %s\n", args[0])
		return
	}

	text := strings.Join(args[1:], " ")
	if err := r.sheet.SetCell(pos, text); err != nil {
		fmt.Println("error:", err)
	}
}

func (r *REPL) cmdGet(args []string) {
	cell, ok := r.resolveCell(args, "get")
	if !ok {
		return
	}
	if cell == nil {
		fmt.Println()
		return
	}
	fmt.Println(cell.GetValue().Text())
}

func (r *REPL) cmdText(args []string) {
	cell, ok := r.resolveCell(args, "text")
	if !ok {
		return
	}
	if cell == nil {
		fmt.Println()
		return
	}
	fmt.Println(cell.GetText())
}

func (r *REPL) cmdClear(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: clear <cell>")
		return
	}
	pos, err := position.Parse(args[0])
	if err != nil || !pos.Valid() {
		fmt.Printf("invalid cell: %s\n", args[0])
		return
	}
	if err := r.sheet.ClearCell(pos); err != nil {
		fmt.Println("error:", err)
	}
}

func (r *REPL) cmdPrint(args []string) {
	var err error
	if len(args) > 0 && args[0] == "text" {
		err = r.sheet.PrintTexts(os.Stdout)
	} else {
		err = r.sheet.PrintValues(os.Stdout)
	}
	if err != nil {
		fmt.Println("error:", err)
	}
}

func (r *REPL) cmdSize() {
	rows, cols := r.sheet.GetPrintableSize()
	fmt.Println(strconv.Itoa(rows) + "x" + strconv.Itoa(cols))
}

func (r *REPL) resolveCell(args []string, usage string) (*sheet.Cell, bool) {
	if len(args) != 1 {
		fmt.Printf("usage: %s <cell>\n", usage)
		return nil, false
	}
	pos, err := position.Parse(args[0])
	if err != nil || !pos.Valid() {
		fmt.Printf("invalid cell: %s\n", args[0])
		return nil, false
	}
	cell, err := r.sheet.GetCell(pos)
	if err != nil {
		fmt.Println("error:", err)
		return nil, false
	}
	return cell, true
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  set <cell> <text>    Set a cell's content (no text clears it)
  get <cell>           Show a cell's evaluated value
  text <cell>          Show a cell's raw stored text
  clear <cell>         Clear a cell
  print                Print evaluated values as a tab-separated grid
  print text           Print raw stored text as a tab-separated grid
  size                 Show the printable grid size
  help                 Show this help
  exit / quit          Exit`)
}
