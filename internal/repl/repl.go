// Package repl implements an interactive, liner+color read-solve-print
// loop, grounded on the teacher's internal/repl/repl.go (liner.NewLiner
// history, fatih/color SprintFuncs) and cmd/ailang/main.go's command
// dispatch.
//
// Since parsing is out of scope for this module (spec.md §1), the REPL
// cannot read and elaborate arbitrary hubris source text typed at the
// prompt. Instead it runs one of the named, Go-constructed scenarios in
// internal/scenarios end to end and prints each solved core item or every
// accumulated error — the same shape of feedback a text-driven REPL
// would give ("here is what your definition elaborated and solved to"),
// just selecting the definition by name instead of by parsing it.
package repl

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/hubris-lang/hubris/internal/config"
	"github.com/hubris-lang/hubris/internal/errors"
	"github.com/hubris-lang/hubris/internal/scenarios"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config holds REPL presentation options, sourced from a project's
// hubris.yaml (internal/config) through FromManifest.
type Config struct {
	Color   bool
	Verbose bool
}

// FromManifest derives a Config from a loaded manifest.
func FromManifest(m *config.Manifest) Config {
	return Config{Color: m.Repl.Color, Verbose: m.Repl.Trace}
}

// REPL is the interactive loop: a liner line editor with history and the
// scenarios.Options every :run drives the pipeline with. Solved results
// are printed by each :run and not kept afterwards.
type REPL struct {
	cfg     Config
	opts    scenarios.Options
	liner   *liner.State
	out     io.Writer
	history []string
}

// New constructs a REPL writing to stdout with a fresh liner history,
// running every scenario against opts (a project manifest's unfold_depth
// and search_paths, or the zero value for the defaults).
func New(cfg Config, opts scenarios.Options) *REPL {
	if !cfg.Color {
		color.NoColor = true
	}
	return &REPL{cfg: cfg, opts: opts, liner: liner.NewLiner(), out: os.Stdout}
}

// Close releases the underlying line editor.
func (r *REPL) Close() error { return r.liner.Close() }

const prompt = "hubris> "

// Run drives the read-eval-print loop until EOF or :quit.
func (r *REPL) Run() error {
	r.liner.SetCtrlCAborts(true)
	fmt.Fprintln(r.out, bold("hubris")+" — elaborator/unifier REPL. Type "+cyan(":help")+" for commands.")

	for {
		line, err := r.liner.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)
		r.history = append(r.history, line)

		if strings.HasPrefix(line, ":") {
			if done := r.command(line); done {
				return nil
			}
			continue
		}

		fmt.Fprintln(r.out, yellow("unrecognized input; type :help or :list"))
	}
}

// command handles a `:`-prefixed REPL command, returning true if the loop
// should exit.
func (r *REPL) command(line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		r.printHelp()
	case ":list", ":ls":
		r.printScenarios()
	case ":run", ":r":
		if len(args) != 1 {
			fmt.Fprintln(r.out, red("usage: :run <scenario>"))
			return false
		}
		r.runScenario(args[0])
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(r.out, "%4d  %s\n", i+1, h)
		}
	default:
		fmt.Fprintf(r.out, "%s unknown command %s (try :help)\n", red("error:"), cmd)
	}
	return false
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, bold("Commands:"))
	fmt.Fprintln(r.out, "  :list              list available scenarios")
	fmt.Fprintln(r.out, "  :run <name>        elaborate, type-check, and solve a scenario")
	fmt.Fprintln(r.out, "  :history           show command history")
	fmt.Fprintln(r.out, "  :help              show this message")
	fmt.Fprintln(r.out, "  :quit              exit the REPL")
}

func (r *REPL) printScenarios() {
	names := scenarios.Names()
	sort.Strings(names)
	for _, n := range names {
		s, _ := scenarios.Get(n)
		fmt.Fprintf(r.out, "  %s  %s\n", cyan(s.Name), dim(s.Description))
	}
}

func (r *REPL) runScenario(name string) {
	res := scenarios.RunWithOptions(name, r.opts)
	if r.cfg.Verbose && res.Module != nil {
		for _, item := range res.Module.Decls {
			fmt.Fprintf(r.out, "%s %s\n", dim("trace:"), dim(scenarios.Describe(item)))
		}
	}
	if res.Err != nil {
		r.printError(res.Err)
		return
	}

	names := make([]string, 0, len(res.Solved))
	for n := range res.Solved {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		item := res.Solved[n]
		fmt.Fprintf(r.out, "%s %s\n", green("✓"), scenarios.Describe(item))
	}
}

func (r *REPL) printError(err error) {
	reports, ok := errors.AsReports(err)
	if !ok {
		fmt.Fprintf(r.out, "%s %s\n", red("error:"), err)
		return
	}
	for _, rep := range reports {
		fmt.Fprintf(r.out, "%s [%s] %s\n", red("error:"), rep.Code, rep.Message)
	}
}
