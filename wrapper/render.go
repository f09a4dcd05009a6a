package wrapper

import (
	"go/token"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator/resolver/guess"
	"github.com/fnwrap/fnwrap/internal/codegen"
)

// Render produces the wrapped function declaration. The declaration is modified in place and returned:
// only its body is replaced, the signature and decorations are kept.
//
//   - pre and post code: pre code, the body in a closure, the call capturing its results, post code, return
//   - pre code only: pre code followed by the original statements
//   - post code only: the body in a closure, the call capturing its results, post code, return
//   - neither: the declaration is returned untouched
//
// Render may only be called once.
func (w *WrappedFunc) Render() (*dst.FuncDecl, error) {
	if w.rendered {
		return nil, &SyntaxError{Kind: ErrAlreadyRendered, Msg: w.function.Name()}
	}
	w.rendered = true

	decl := w.function.Decl()
	if w.preCode == nil && w.postCode == nil {
		return decl, nil
	}

	if !w.function.HasBody() {
		return nil, renderFailure("function %s has no body", w.function.Name())
	}
	if err := w.checkPackages(); err != nil {
		return nil, err
	}

	var body *dst.BlockStmt
	switch {
	case w.preCode != nil && w.postCode != nil:
		if err := w.checkIdents(); err != nil {
			return nil, err
		}
		body = &dst.BlockStmt{List: w.renderPreAndPost()}
	case w.preCode != nil:
		body = w.renderPre()
	default:
		if err := w.checkIdents(); err != nil {
			return nil, err
		}
		body = &dst.BlockStmt{List: w.renderPost()}
	}

	original := decl.Body
	decl.Body = body
	if err := validate(decl); err != nil {
		decl.Body = original
		return nil, err
	}

	return decl, nil
}

func (w *WrappedFunc) renderPreAndPost() []dst.Stmt {
	pre := codegen.CloneStatements(w.preCode)
	codegen.SeparateBlock(pre)
	return append(pre, w.renderPost()...)
}

// renderPre keeps the decorations of the original block, so comments after the opening brace
// or inside an empty body stay where they were.
func (w *WrappedFunc) renderPre() *dst.BlockStmt {
	original := w.function.Decl().Body
	pre := codegen.CloneStatements(w.preCode)
	if len(original.List) > 0 {
		codegen.SeparateBlock(pre)
	}
	return &dst.BlockStmt{
		List:           append(pre, original.List...),
		RbraceHasNoPos: original.RbraceHasNoPos,
		Decs:           original.Decs,
	}
}

func (w *WrappedFunc) renderPost() []dst.Stmt {
	decl := w.function.Decl()
	resultIdents := w.ResultIdents()

	closure := codegen.WrapperClosure(w.wrapperIdent, decl.Type.Results, decl.Body)
	call := codegen.CallWrapper(w.wrapperIdent, resultIdents)
	codegen.CreateStatementBlock(false, closure, call)

	post := codegen.CloneStatements(w.postCode)
	body := append([]dst.Stmt{closure, call}, post...)
	if len(resultIdents) > 0 {
		codegen.SeparateBlock(post)
		body = append(body, codegen.ReturnResults(resultIdents))
	}

	codegen.TrimTrailingSpace(body)
	return body
}

// checkIdents verifies that the closure and result names can be declared in the function scope.
func (w *WrappedFunc) checkIdents() error {
	declared := w.function.declaredNames()

	names := append([]string{w.wrapperIdent}, w.ResultIdents()...)
	seen := map[string]bool{}
	for _, name := range names {
		if !token.IsIdentifier(name) || name == "_" {
			return renderFailure("%q is not a valid identifier", name)
		}
		if declared[name] {
			return renderFailure("identifier %q is already declared by the signature of %s", name, w.function.Name())
		}
		if seen[name] {
			return renderFailure("identifier %q is used for both the wrapper closure and its result", name)
		}
		seen[name] = true
	}
	return nil
}

// checkPackages verifies that the packages referenced by the inserted code are not shadowed by names
// declared in the signature. Post code is also checked against the closure and result names.
func (w *WrappedFunc) checkPackages() error {
	declared := w.function.declaredNames()
	if err := w.checkFragmentPackages(w.preCode, declared); err != nil {
		return err
	}

	if w.postCode == nil {
		return nil
	}
	declared[w.wrapperIdent] = true
	for _, name := range w.ResultIdents() {
		declared[name] = true
	}
	return w.checkFragmentPackages(w.postCode, declared)
}

func (w *WrappedFunc) checkFragmentPackages(stmts []dst.Stmt, declared map[string]bool) error {
	resolver := guess.New()
	var err error
	for _, stmt := range stmts {
		dst.Inspect(stmt, func(n dst.Node) bool {
			if err != nil {
				return false
			}
			id, ok := n.(*dst.Ident)
			if !ok || id.Path == "" {
				return true
			}
			pkg, resolveErr := resolver.ResolvePackage(id.Path)
			if resolveErr != nil {
				return true
			}
			if declared[pkg] {
				err = renderFailure("package %s used by the inserted code is shadowed by %q in %s", id.Path, pkg, w.function.Name())
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
