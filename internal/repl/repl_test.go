package repl

import (
	"bytes"
	"testing"

	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/scenarios"
)

func TestDescribeItemFunction(t *testing.T) {
	fn := &core.Function{
		Name:  core.Qualified("Identity", "id"),
		RetTy: &core.TypeTerm{},
		Body:  &core.TypeTerm{},
	}
	got := scenarios.Describe(fn)
	want := "Identity.id : Type := Type"
	if got != want {
		t.Errorf("scenarios.Describe = %q, want %q", got, want)
	}
}

func TestRunScenarioPrintsSolvedItems(t *testing.T) {
	r := &REPL{cfg: Config{Color: false}, out: &bytes.Buffer{}}
	r.runScenario("identity")
	buf := r.out.(*bytes.Buffer)
	if buf.Len() == 0 {
		t.Fatal("expected runScenario to print something for a successful scenario")
	}
}

func TestRunScenarioPrintsErrorForUnknownName(t *testing.T) {
	r := &REPL{cfg: Config{Color: false}, out: &bytes.Buffer{}}
	r.runScenario("does-not-exist")
	buf := r.out.(*bytes.Buffer)
	if buf.Len() == 0 {
		t.Fatal("expected runScenario to print an error for an unknown scenario")
	}
}
