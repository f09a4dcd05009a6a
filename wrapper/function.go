package wrapper

import (
	"bytes"
	"go/parser"
	"go/scanner"
	"go/token"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/goast"
	"github.com/dave/dst/decorator/resolver/guess"
)

const (
	// the package clause added to bare function sources so they can be parsed as a file
	syntheticPackage = "package fnwrap\n"
	sourceFileName   = "function.go"
)

// ReturnKind describes whether a function declares results.
type ReturnKind uint8

const (
	// NoReturn is a function with an empty result list.
	NoReturn ReturnKind = iota
	// Explicit is a function that declares one or more results.
	Explicit
)

func (k ReturnKind) String() string {
	switch k {
	case NoReturn:
		return "NoReturn"
	case Explicit:
		return "Explicit"
	default:
		return "Unknown"
	}
}

// Returns describes the results of a function signature. It is derived once when
// a Function is created and is not updated afterwards.
type Returns struct {
	Kind   ReturnKind
	Fields []*dst.Field
}

func newReturns(results *dst.FieldList) Returns {
	if results == nil || len(results.List) == 0 {
		return Returns{Kind: NoReturn}
	}
	return Returns{Kind: Explicit, Fields: results.List}
}

// Count returns the number of values the function returns.
func (r Returns) Count() int {
	n := 0
	for _, field := range r.Fields {
		if len(field.Names) == 0 {
			n++
			continue
		}
		n += len(field.Names)
	}
	return n
}

// Named reports whether the results are named.
func (r Returns) Named() bool {
	return len(r.Fields) > 0 && len(r.Fields[0].Names) > 0
}

// Function is a parsed function declaration. The signature of a Function is never
// modified; rendering only replaces its body.
type Function struct {
	decl    *dst.FuncDecl
	returns Returns
}

// Parse parses the source of exactly one Go function declaration. The source may start with
// a package clause and import declarations; if the package clause is missing, one is added.
// Selectors on imported packages are resolved, so Format prints the imports again.
func Parse(src []byte) (*Function, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, &SyntaxError{Kind: ErrEmptyInput}
	}

	synthetic := false
	if !hasPackageClause(src) {
		src = append([]byte(syntheticPackage), src...)
		synthetic = true
	}

	fset := token.NewFileSet()
	d := decorator.NewDecoratorWithImports(fset, formatPackage, goast.WithResolver(guess.New()))
	file, err := d.ParseFile(sourceFileName, src, parser.ParseComments)
	if err != nil {
		return nil, malformed(err, synthetic)
	}

	var decl *dst.FuncDecl
	for _, d := range file.Decls {
		switch v := d.(type) {
		case *dst.GenDecl:
			if v.Tok == token.IMPORT {
				continue
			}
			return nil, &SyntaxError{Kind: ErrMalformedFunction, Msg: "unexpected " + v.Tok.String() + " declaration"}
		case *dst.FuncDecl:
			if decl != nil {
				return nil, &SyntaxError{Kind: ErrMalformedFunction, Msg: "more than one function declaration"}
			}
			decl = v
		}
	}

	if decl == nil {
		return nil, &SyntaxError{Kind: ErrMalformedFunction, Msg: ErrEmptyInput.Error()}
	}

	return FromDecl(decl)
}

// FromDecl creates a Function from a declaration that has already been parsed,
// such as one loaded as part of a package.
func FromDecl(decl *dst.FuncDecl) (*Function, error) {
	if decl == nil || decl.Name == nil || decl.Type == nil {
		return nil, &SyntaxError{Kind: ErrEmptyInput}
	}

	return &Function{
		decl:    decl,
		returns: newReturns(decl.Type.Results),
	}, nil
}

// Decl returns the underlying declaration.
func (f *Function) Decl() *dst.FuncDecl {
	return f.decl
}

// Name returns the name of the function. Methods are prefixed with their receiver type, e.g. "T.Method".
func (f *Function) Name() string {
	if f.decl.Recv == nil || len(f.decl.Recv.List) == 0 {
		return f.decl.Name.Name
	}
	return receiverTypeName(f.decl.Recv.List[0].Type) + "." + f.decl.Name.Name
}

// Returns describes the results declared by the function.
func (f *Function) Returns() Returns {
	return f.returns
}

// Attributes returns the comments and directives attached above the function declaration.
func (f *Function) Attributes() []string {
	return f.decl.Decs.Start.All()
}

// HasBody reports whether the function has a body. Functions implemented in assembly do not.
func (f *Function) HasBody() bool {
	return f.decl.Body != nil
}

// declaredNames returns every identifier that the signature binds in the function scope.
func (f *Function) declaredNames() map[string]bool {
	names := map[string]bool{}
	for _, list := range []*dst.FieldList{f.decl.Recv, f.decl.Type.TypeParams, f.decl.Type.Params, f.decl.Type.Results} {
		if list == nil {
			continue
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				if name.Name != "_" {
					names[name.Name] = true
				}
			}
		}
	}
	return names
}

func receiverTypeName(expr dst.Expr) string {
	switch v := expr.(type) {
	case *dst.Ident:
		return v.Name
	case *dst.StarExpr:
		return receiverTypeName(v.X)
	case *dst.ParenExpr:
		return receiverTypeName(v.X)
	case *dst.IndexExpr:
		return receiverTypeName(v.X)
	case *dst.IndexListExpr:
		return receiverTypeName(v.X)
	default:
		return ""
	}
}

func hasPackageClause(src []byte) bool {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, src, nil, 0)
	_, tok, _ := s.Scan()
	return tok == token.PACKAGE
}

// malformed converts a go/parser error into a SyntaxError. Positions are moved back by the
// synthetic package clause, if one was added.
func malformed(err error, synthetic bool) error {
	list, ok := err.(scanner.ErrorList)
	if !ok || len(list) == 0 {
		return &SyntaxError{Kind: ErrMalformedFunction, Err: err}
	}

	if synthetic {
		for _, e := range list {
			e.Pos.Offset = max(e.Pos.Offset-len(syntheticPackage), 0)
			e.Pos.Line = max(e.Pos.Line-1, 1)
		}
	}

	return &SyntaxError{
		Kind: ErrMalformedFunction,
		Pos:  list[0].Pos,
		Msg:  list[0].Msg,
		Err:  list,
	}
}
