// Command hubris drives the elaborator/unifier core over the scenarios in
// internal/scenarios: `list`, `run`, `check`, `build`, and `repl`.
//
// Grounded on the teacher's cmd/ailang/main.go: flag-based command
// dispatch, color-coded diagnostics, and version/help flags.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/hubris-lang/hubris/internal/config"
	"github.com/hubris-lang/hubris/internal/errors"
	"github.com/hubris-lang/hubris/internal/repl"
	"github.com/hubris-lang/hubris/internal/scenarios"
)

var (
	// Version is set by ldflags during release builds.
	Version = "dev"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag  = flag.Bool("version", false, "print version information")
		helpFlag     = flag.Bool("help", false, "show help")
		manifestPath = flag.String("manifest", "hubris.yaml", "path to the project manifest")
		jsonFlag     = flag.Bool("json", false, "print errors as structured JSON reports")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	manifest, err := config.LoadOrDefault(*manifestPath)
	if err != nil {
		reportErr(err, *jsonFlag)
		os.Exit(1)
	}

	opts := scenarios.OptionsFromManifest(manifest)

	command := flag.Arg(0)
	switch command {
	case "list":
		listScenarios()
	case "run":
		requireArg(command, 1)
		runScenario(flag.Arg(1), opts, *jsonFlag)
	case "check":
		requireArg(command, 1)
		checkScenario(flag.Arg(1), opts, *jsonFlag)
	case "build":
		requireArg(command, 2)
		buildScenario(flag.Arg(1), flag.Arg(2), opts, *jsonFlag)
	case "repl":
		runREPL(manifest, opts)
	default:
		fmt.Fprintf(os.Stderr, "%s unknown command %q\n", red("error:"), command)
		printHelp()
		os.Exit(1)
	}
}

func requireArg(command string, n int) {
	if flag.NArg() <= n {
		fmt.Fprintf(os.Stderr, "%s %q requires %d argument(s)\n", red("error:"), command, n)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("hubris %s\n", bold(Version))
	fmt.Println("An elaborator and constraint-based unifier for a dependently typed core language.")
}

func printHelp() {
	fmt.Println(bold("hubris — dependently typed elaborator/unifier"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hubris <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                  list the available scenarios")
	fmt.Println("  run <scenario>        elaborate, type-check, and solve a scenario")
	fmt.Println("  check <scenario>      like run, but only report success/failure")
	fmt.Println("  build <scenario> <fn> run, then erase the named function (backend handoff)")
	fmt.Println("  repl                  start the interactive REPL")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func listScenarios() {
	names := scenarios.Names()
	sort.Strings(names)
	for _, n := range names {
		s, _ := scenarios.Get(n)
		fmt.Printf("%s\n  %s\n", cyan(s.Name), s.Description)
	}
}

func runScenario(name string, opts scenarios.Options, asJSON bool) {
	res := scenarios.RunWithOptions(name, opts)
	if res.Err != nil {
		reportErr(res.Err, asJSON)
		os.Exit(1)
	}

	names := make([]string, 0, len(res.Solved))
	for n := range res.Solved {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("%s %s\n", green("✓"), scenarios.Describe(res.Solved[n]))
	}
}

func checkScenario(name string, opts scenarios.Options, asJSON bool) {
	res := scenarios.RunWithOptions(name, opts)
	if res.Err != nil {
		reportErr(res.Err, asJSON)
		os.Exit(1)
	}
	fmt.Printf("%s %s elaborated and solved with no remaining errors\n", green("ok:"), name)
}

func buildScenario(name, entryPoint string, opts scenarios.Options, asJSON bool) {
	fn, err := scenarios.EraseWithOptions(name, entryPoint, opts)
	if err != nil {
		reportErr(err, asJSON)
		os.Exit(1)
	}
	fmt.Printf("%s erased %s.%s (%d runtime parameter(s))\n", green("ok:"), name, entryPoint, len(fn.Params))
}

func runREPL(manifest *config.Manifest, opts scenarios.Options) {
	r := repl.New(repl.FromManifest(manifest), opts)
	defer r.Close()
	if err := r.Run(); err != nil {
		reportErr(err, false)
		os.Exit(1)
	}
}

func reportErr(err error, asJSON bool) {
	reports, ok := errors.AsReports(err)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), err)
		return
	}
	for _, rep := range reports {
		if asJSON {
			if out, jsonErr := rep.ToJSON(false); jsonErr == nil {
				fmt.Println(out)
				continue
			}
		}
		fmt.Fprintf(os.Stderr, "%s [%s] %s\n", red("error:"), rep.Code, rep.Message)
	}
}
