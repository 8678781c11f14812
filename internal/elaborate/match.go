package elaborate

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/errors"
)

// elaborateMatch desugars a surface `match` into a direct application of
// the scrutinee's datatype recursor, synthesizing one λ-abstracted method
// per constructor (inserting an induction-hypothesis binder after every
// self-recursive field, matching the recursor's own synthesized shape)
// and checking every declared clause is used exactly once.
//
// The scrutinee is first let-bound to a fresh local so a catch-all clause
// (`x => ...` or `_ => ...`) can refer to "the matched value" — every
// constructor's method closes over that same local rather than each
// method reconstructing `Ctor field1 ... fieldN` itself.
//
// Grounded on spec.md §4.3/§4.5 (dependent recursor synthesis, shallow
// pattern matching) using internal/tyctxt's exported CtorFields/
// DataRecursorOf accessors to reuse the recursor's own field telescope.
func (lcx *LocalElabCx) elaborateMatch(m *ast.Match) (core.Term, error) {
	scrutCore, err := lcx.elaborateTerm(m.Scrutinee)
	if err != nil {
		return nil, err
	}

	tc := lcx.cx.tc
	scrutTy := lcx.cx.meta(tc.Meta(&core.TypeTerm{}).ToTerm())
	scrutLocal := tc.LocalWithRepr("_scrut", scrutTy)

	var anchor core.Name
	found := false
	for _, c := range m.Cases {
		if pc, ok := c.Pattern.(*ast.PatCtor); ok {
			resolved, err := lcx.cx.resolveCtorName(pc.Ctor)
			if err != nil {
				return nil, err
			}
			anchor, found = resolved, true
			break
		}
	}
	if !found {
		return nil, errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.ELB006,
			Phase:   "elaborate",
			Message: "match has no constructor pattern to identify a datatype",
		})
	}

	recName, ctorOrder, numParams, ok := tc.DataRecursorOf(anchor)
	if !ok {
		return nil, fmt.Errorf("elaborate: %s is not a declared constructor", anchor)
	}

	used := make([]bool, len(m.Cases))
	var defaultIdx = -1

	params := make([]core.Term, numParams)
	for i := range params {
		params[i] = lcx.cx.meta(tc.Meta(&core.TypeTerm{}).ToTerm())
	}
	motive := lcx.cx.meta(tc.Meta(&core.TypeTerm{}).ToTerm())

	methods := make([]core.Term, len(ctorOrder))
	for i, ctorName := range ctorOrder {
		fields, recMask, ok := tc.CtorFields(ctorName)
		if !ok {
			return nil, fmt.Errorf("elaborate: missing field telescope for %s", ctorName)
		}

		clauseIdx := -1
		for ci, c := range m.Cases {
			if used[ci] {
				continue
			}
			pc, ok := c.Pattern.(*ast.PatCtor)
			if !ok {
				continue
			}
			resolved, err := lcx.cx.resolveCtorName(pc.Ctor)
			if err != nil {
				return nil, err
			}
			if resolved.Equal(ctorName) {
				clauseIdx = ci
				break
			}
		}

		isDefault := false
		if clauseIdx == -1 {
			if defaultIdx == -1 {
				for ci, c := range m.Cases {
					if used[ci] {
						continue
					}
					switch c.Pattern.(type) {
					case *ast.PatVar, *ast.PatWildcard:
						defaultIdx = ci
					}
				}
			}
			if defaultIdx == -1 {
				return nil, errors.WrapReport(&errors.Report{
					Schema:  errors.Schema,
					Code:    errors.ELB006,
					Phase:   "elaborate",
					Message: fmt.Sprintf("match is missing a case for constructor `%s`", ctorName),
				})
			}
			clauseIdx = defaultIdx
			isDefault = true
		}
		used[clauseIdx] = true

		method, err := lcx.buildMethod(fields, recMask, &m.Cases[clauseIdx], isDefault, scrutLocal)
		if err != nil {
			return nil, err
		}
		methods[i] = method
	}

	for ci, u := range used {
		if !u {
			return nil, errors.WrapReport(&errors.Report{
				Schema:  errors.Schema,
				Code:    errors.ELB006,
				Phase:   "elaborate",
				Message: fmt.Sprintf("redundant match case %s", m.Cases[ci].Pattern),
			})
		}
	}

	args := append(append([]core.Term{}, params...), motive)
	args = append(args, methods...)
	args = append(args, scrutLocal.ToTerm())
	recApp := core.ApplyAll(recName.ToTerm(), args)

	outer := &core.Lambda{NodeSpan: m.Pos, Binder: core.Binder{Name: scrutLocal, Ty: scrutTy}, Body: recApp}
	return &core.App{NodeSpan: m.Pos, Fun: outer, Arg: scrutCore}, nil
}

// buildMethod λ-abstracts the clause's body over ctor's field telescope
// (inserting an unused induction-hypothesis binder after every
// self-recursive field), binding each shallow PatVar field argument (or,
// for a default clause, binding the pattern's single name to scrutLocal
// itself).
func (lcx *LocalElabCx) buildMethod(fields []core.Binder, recMask []bool, clause *ast.CaseClause, isDefault bool, scrutLocal core.Name) (core.Term, error) {
	return lcx.buildMethodField(0, fields, recMask, clause, isDefault, scrutLocal)
}

func (lcx *LocalElabCx) buildMethodField(idx int, fields []core.Binder, recMask []bool, clause *ast.CaseClause, isDefault bool, scrutLocal core.Name) (core.Term, error) {
	tc := lcx.cx.tc

	if idx == len(fields) {
		return lcx.elaborateClauseBody(clause, isDefault, scrutLocal)
	}

	fb := fields[idx]
	local := tc.LocalWithRepr(fb.Name.Repr, fb.Ty)

	var argName *ast.Name
	if !isDefault {
		pc, ok := clause.Pattern.(*ast.PatCtor)
		if !ok {
			return nil, fmt.Errorf("elaborate: expected a constructor pattern")
		}
		if idx >= len(pc.Args) {
			return nil, errors.WrapReport(&errors.Report{
				Schema:  errors.Schema,
				Code:    errors.ELB006,
				Phase:   "elaborate",
				Message: fmt.Sprintf("constructor pattern `%s` has too few arguments", pc.Ctor),
			})
		}
		switch p := pc.Args[idx].(type) {
		case *ast.PatVar:
			n := p.Name
			argName = &n
		case *ast.PatWildcard:
			// no binding
		default:
			return nil, errors.WrapReport(&errors.Report{
				Schema:  errors.Schema,
				Code:    errors.ELB006,
				Phase:   "elaborate",
				Message: "nested constructor patterns are not supported",
			})
		}
	}

	build := func() (core.Term, error) {
		return lcx.buildMethodField(idx+1, fields, recMask, clause, isDefault, scrutLocal)
	}

	var inner core.Term
	var err error
	if argName != nil {
		err = lcx.withLocal(*argName, local, func() error {
			var e error
			inner, e = build()
			return e
		})
	} else {
		inner, err = build()
	}
	if err != nil {
		return nil, err
	}

	if recMask[idx] {
		ihTy := lcx.cx.meta(tc.Meta(&core.TypeTerm{}).ToTerm())
		ihLocal := tc.LocalWithRepr("_ih", ihTy)
		inner = &core.Lambda{Binder: core.Binder{Name: ihLocal, Ty: ihTy}, Body: inner}
	}
	return &core.Lambda{Binder: core.Binder{Name: local, Ty: fb.Ty}, Body: inner}, nil
}

func (lcx *LocalElabCx) elaborateClauseBody(clause *ast.CaseClause, isDefault bool, scrutLocal core.Name) (core.Term, error) {
	if isDefault {
		if pv, ok := clause.Pattern.(*ast.PatVar); ok {
			var body core.Term
			err := lcx.withLocal(pv.Name, scrutLocal, func() error {
				var e error
				body, e = lcx.elaborateTerm(clause.Body)
				return e
			})
			return body, err
		}
	}
	return lcx.elaborateTerm(clause.Body)
}
