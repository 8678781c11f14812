package core

// AbstractPi Π-abstracts body over locals left-to-right, so the first
// local becomes the outermost binder: AbstractPi([l1,l2], b) produces
// Π(l1:ty1). Π(l2:ty2). b. Because locals carry fresh identities and
// already occur (as Var{NLocal}) inside b wherever they're used, no
// substitution is needed — wrapping is the whole operation.
func AbstractPi(locals []Name, body Term) Term {
	result := body
	for i := len(locals) - 1; i >= 0; i-- {
		l := locals[i]
		result = &Forall{NodeSpan: body.Span(), Binder: Binder{Name: l, Ty: l.Ty}, Body: result}
	}
	return result
}

// AbstractLambda λ-abstracts body over locals, analogous to AbstractPi.
func AbstractLambda(locals []Name, body Term) Term {
	result := body
	for i := len(locals) - 1; i >= 0; i-- {
		l := locals[i]
		result = &Lambda{NodeSpan: body.Span(), Binder: Binder{Name: l, Ty: l.Ty}, Body: result}
	}
	return result
}

// ApplyAll builds a left-associative application spine f(args[0])(args[1])...
func ApplyAll(f Term, args []Term) Term {
	result := f
	for _, a := range args {
		result = &App{NodeSpan: f.Span(), Fun: result, Arg: a}
	}
	return result
}

// Instantiate removes the outermost binder of a λ or Π term and
// substitutes arg for its bound variable throughout the body. Because
// every local carries a globally-fresh identity, substitution can never
// capture: no inner binder shares the outer binder's identity.
func Instantiate(t Term, arg Term) Term {
	switch n := t.(type) {
	case *Lambda:
		return substLocal(n.Body, n.Binder.Name, arg)
	case *Forall:
		return substLocal(n.Body, n.Binder.Name, arg)
	default:
		panic("core: Instantiate called on a non-binder term")
	}
}

func substLocal(t Term, name Name, arg Term) Term {
	switch n := t.(type) {
	case *TypeTerm:
		return n
	case *Literal:
		return n
	case *Var:
		if n.Name.Kind == NLocal && n.Name.Equal(name) {
			return arg
		}
		return n
	case *App:
		return &App{NodeSpan: n.NodeSpan, Fun: substLocal(n.Fun, name, arg), Arg: substLocal(n.Arg, name, arg)}
	case *Lambda:
		return &Lambda{
			NodeSpan: n.NodeSpan,
			Binder:   Binder{Name: n.Binder.Name, Ty: substLocal(n.Binder.Ty, name, arg)},
			Body:     substLocal(n.Body, name, arg),
		}
	case *Forall:
		return &Forall{
			NodeSpan: n.NodeSpan,
			Binder:   Binder{Name: n.Binder.Name, Ty: substLocal(n.Binder.Ty, name, arg)},
			Body:     substLocal(n.Body, name, arg),
		}
	default:
		panic("core: substLocal: unhandled term")
	}
}

// InstantiateMeta replaces every Var(Meta) occurrence matching name with t.
func InstantiateMeta(term Term, name Name, t Term) Term {
	switch n := term.(type) {
	case *TypeTerm:
		return n
	case *Literal:
		return n
	case *Var:
		if n.Name.Kind == NMeta && n.Name.Equal(name) {
			return t
		}
		return n
	case *App:
		return &App{NodeSpan: n.NodeSpan, Fun: InstantiateMeta(n.Fun, name, t), Arg: InstantiateMeta(n.Arg, name, t)}
	case *Lambda:
		return &Lambda{
			NodeSpan: n.NodeSpan,
			Binder:   Binder{Name: n.Binder.Name, Ty: InstantiateMeta(n.Binder.Ty, name, t)},
			Body:     InstantiateMeta(n.Body, name, t),
		}
	case *Forall:
		return &Forall{
			NodeSpan: n.NodeSpan,
			Binder:   Binder{Name: n.Binder.Name, Ty: InstantiateMeta(n.Binder.Ty, name, t)},
			Body:     InstantiateMeta(n.Body, name, t),
		}
	default:
		panic("core: InstantiateMeta: unhandled term")
	}
}

// Head returns the leftmost head of an application spine.
func Head(t Term) Term {
	for {
		app, ok := t.(*App)
		if !ok {
			return t
		}
		t = app.Fun
	}
}

// Args returns the spine of an application, outermost argument last.
func Args(t Term) []Term {
	var args []Term
	for {
		app, ok := t.(*App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		t = app.Fun
	}
	// args were collected outermost-first (last argument first); reverse.
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return args
}

// Uncurry returns (head, args) for a term, equivalent to calling Head and
// Args separately.
func Uncurry(t Term) (Term, []Term) {
	return Head(t), Args(t)
}

// HeadIsLocal reports whether t's spine head is a local variable.
func HeadIsLocal(t Term) bool {
	v, ok := Head(t).(*Var)
	return ok && v.Name.IsLocal()
}

// HeadIsGlobal reports whether t's spine head is a qualified (global) name.
func HeadIsGlobal(t Term) bool {
	v, ok := Head(t).(*Var)
	return ok && v.Name.Kind == NQualified
}

// HeadIsMeta reports whether t's spine head is a metavariable.
func HeadIsMeta(t Term) bool {
	v, ok := Head(t).(*Var)
	return ok && v.Name.IsMeta()
}

// IsStuck returns the metavariable blocking reduction, if any. A term is
// stuck exactly when its spine head is itself a meta — reduction cannot
// proceed until that meta is solved.
func IsStuck(t Term) (Name, bool) {
	v, ok := Head(t).(*Var)
	if !ok || !v.Name.IsMeta() {
		return Name{}, false
	}
	return v.Name, true
}

// IsForall, IsLambda are variant predicates.
func IsForall(t Term) bool { _, ok := t.(*Forall); return ok }
func IsLambda(t Term) bool { _, ok := t.(*Lambda); return ok }
