package tyctxt

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/core"
)

// recursorInfo is the computed T.rec axiom for a declared datatype, plus
// enough bookkeeping (per-constructor field arity and which fields are
// self-recursive) for Eval's iota-reduction.
type recursorInfo struct {
	DataName core.Name
	RecName  core.Name
	Params   []core.Name
	Ty       core.Term
	Ctors    []ctorRecInfo
}

type ctorRecInfo struct {
	Name          core.Name
	NumArgs       int
	RecursiveArgs []bool // parallel to field index: true if the field's type is the datatype itself
}

// buildRecursor synthesizes the dependent eliminator for d:
//
//	T.rec : Π params.
//	        Π (C : T params -> Type).
//	        Π (method_1 : ...) ... Π (method_k : ...).
//	        Π (n : T params). C n
//
// where each method_i's type takes ctor_i's fields in order, inserting an
// induction hypothesis `Π (ih : C field). ...` immediately after every
// field whose type is T itself (structural, non-mutual recursion — the
// only shape this model's constructors can express). Grounded on
// elaborate/mod.rs's `elaborate_data` (which pre-registers `T.rec` before
// elaborating constructors) and spec.md §3.4/§4.3.
func buildRecursor(tc *TyCtxt, d *core.Data) (*recursorInfo, error) {
	recName := d.Name.InScope("rec")

	paramVars := make([]core.Term, len(d.Parameters))
	for i, p := range d.Parameters {
		paramVars[i] = p.ToTerm()
	}
	tApplied := core.ApplyAll(d.Name.ToTerm(), paramVars)

	motiveName := tc.LocalWithRepr("C", &core.Forall{
		Binder: core.Binder{Name: tc.LocalWithRepr("_", tApplied), Ty: tApplied},
		Body:   &core.TypeTerm{},
	})

	ctorInfos := make([]ctorRecInfo, len(d.Ctors))
	methodBinders := make([]core.Binder, len(d.Ctors))

	for i, ctor := range d.Ctors {
		fields, _, err := peelCtorFields(ctor.Ty, d.Parameters)
		if err != nil {
			return nil, fmt.Errorf("constructor %s: %w", ctor.Name, err)
		}

		recMask := make([]bool, len(fields))
		for j, f := range fields {
			recMask[j] = fieldIsSelfRecursive(f.Ty, d.Name)
		}
		ctorInfos[i] = ctorRecInfo{Name: ctor.Name, NumArgs: len(fields), RecursiveArgs: recMask}

		fieldArgs := make([]core.Term, len(fields))
		for j, f := range fields {
			fieldArgs[j] = f.Name.ToTerm()
		}
		motiveApp := core.ApplyAll(motiveName.ToTerm(), []core.Term{core.ApplyAll(ctor.Name.ToTerm(), fieldArgs)})

		acc := motiveApp
		for j := len(fields) - 1; j >= 0; j-- {
			f := fields[j]
			if recMask[j] {
				ihTy := core.ApplyAll(motiveName.ToTerm(), []core.Term{f.Name.ToTerm()})
				ihName := tc.LocalWithRepr("ih", ihTy)
				acc = &core.Forall{Binder: core.Binder{Name: ihName, Ty: ihTy}, Body: acc}
			}
			acc = &core.Forall{Binder: core.Binder{Name: f.Name, Ty: f.Ty}, Body: acc}
		}

		methodBinders[i] = core.Binder{Name: tc.LocalWithRepr(ctorMethodRepr(ctor.Name), acc), Ty: acc}
	}

	scrutinee := tc.LocalWithRepr("n", tApplied)
	full := core.Term(&core.Forall{
		Binder: core.Binder{Name: scrutinee, Ty: tApplied},
		Body:   core.ApplyAll(motiveName.ToTerm(), []core.Term{scrutinee.ToTerm()}),
	})
	for i := len(methodBinders) - 1; i >= 0; i-- {
		full = &core.Forall{Binder: methodBinders[i], Body: full}
	}
	full = &core.Forall{Binder: core.Binder{Name: motiveName, Ty: motiveName.Ty}, Body: full}
	full = core.AbstractPi(d.Parameters, full)

	return &recursorInfo{
		DataName: d.Name,
		RecName:  recName,
		Params:   d.Parameters,
		Ty:       full,
		Ctors:    ctorInfos,
	}, nil
}

func ctorMethodRepr(ctorName core.Name) string {
	if len(ctorName.Components) == 0 {
		return "m"
	}
	return ctorName.Components[len(ctorName.Components)-1]
}

// peelCtorFields strips params's leading Π-binders (the constructor's own
// type is abstracted over the datatype's parameters, in the same order),
// then peels every remaining leading Π as a constructor field, stopping at
// the first non-Forall term (the `T params` result).
func peelCtorFields(ctorTy core.Term, params []core.Name) ([]core.Binder, core.Term, error) {
	cur := ctorTy
	for range params {
		f, ok := cur.(*core.Forall)
		if !ok {
			return nil, nil, fmt.Errorf("expected a parameter binder, found %s", cur)
		}
		cur = f.Body
	}

	var fields []core.Binder
	for {
		f, ok := cur.(*core.Forall)
		if !ok {
			break
		}
		fields = append(fields, f.Binder)
		cur = f.Body
	}
	return fields, cur, nil
}

// fieldIsSelfRecursive reports whether ty's spine head is dataName, i.e.
// this field recurses into the datatype being defined.
func fieldIsSelfRecursive(ty core.Term, dataName core.Name) bool {
	head := core.Head(ty)
	v, ok := head.(*core.Var)
	return ok && v.Name.Equal(dataName)
}

// DataRecursorOf returns the recursor name, the constructors in
// declaration order, and the parameter count for the datatype that owns
// ctorName. Used by the pattern-match desugarer to anchor a surface match
// expression on the datatype one of its clauses references.
func (tc *TyCtxt) DataRecursorOf(ctorName core.Name) (recName core.Name, ctorOrder []core.Name, numParams int, ok bool) {
	for _, k := range tc.order {
		d, isData := tc.items[k].(*core.Data)
		if !isData {
			continue
		}
		for _, c := range d.Ctors {
			if c.Name.Equal(ctorName) {
				ri := tc.recursors[k]
				order := make([]core.Name, len(ri.Ctors))
				for i, ci := range ri.Ctors {
					order[i] = ci.Name
				}
				return ri.RecName, order, len(ri.Params), true
			}
		}
	}
	return core.Name{}, nil, 0, false
}

// CtorFields returns ctorName's field telescope (binder types reused
// structurally from the constructor's declared type, exactly as the
// recursor synthesis itself uses them) and which fields are self-recursive.
func (tc *TyCtxt) CtorFields(ctorName core.Name) ([]core.Binder, []bool, bool) {
	for _, k := range tc.order {
		d, isData := tc.items[k].(*core.Data)
		if !isData {
			continue
		}
		for _, c := range d.Ctors {
			if !c.Name.Equal(ctorName) {
				continue
			}
			fields, _, err := peelCtorFields(c.Ty, d.Parameters)
			if err != nil {
				return nil, nil, false
			}
			recMask := make([]bool, len(fields))
			for i, f := range fields {
				recMask[i] = fieldIsSelfRecursive(f.Ty, d.Name)
			}
			return fields, recMask, true
		}
	}
	return nil, nil, false
}

// recursorScrutinee evaluates a recursor application's scrutinee argument
// to weak-head normal form, if ri has accumulated enough arguments (params,
// motive, one method per constructor, and a scrutinee) for iota-reduction
// to potentially fire. has is false if ri isn't fully applied yet; it says
// nothing about whether the resulting whnf is actually constructor-headed
// (recursorCtorHeaded checks that) — shared by iotaReduce, IsBiReducible,
// and IsStuck so the three agree on exactly what "enough arguments" means.
func (tc *TyCtxt) recursorScrutinee(ri *recursorInfo, args []core.Term) (whnf core.Term, has bool, err error) {
	want := len(ri.Params) + 1 + len(ri.Ctors) + 1
	if len(args) < want {
		return nil, false, nil
	}
	scrutineeIdx := len(ri.Params) + 1 + len(ri.Ctors)
	whnf, err = tc.evalDepth(args[scrutineeIdx], tc.UnfoldDepth)
	if err != nil {
		return nil, false, err
	}
	return whnf, true, nil
}

// recursorCtorHeaded reports whether scrutinee (already reduced to whnf)
// is headed by one of ri's constructors, fully applied to that
// constructor's declared field count.
func recursorCtorHeaded(ri *recursorInfo, scrutinee core.Term) bool {
	sHead, sArgs := core.Uncurry(scrutinee)
	sVar, ok := sHead.(*core.Var)
	if !ok || sVar.Name.Kind != core.NQualified {
		return false
	}
	for _, c := range ri.Ctors {
		if c.Name.Equal(sVar.Name) {
			return len(sArgs) == c.NumArgs
		}
	}
	return false
}
