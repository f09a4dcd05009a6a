package wrapper

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/guess"
)

const formatPackage = "fnwrap"

// Format prints a function declaration as Go source. Any packages referenced by the
// declaration are printed as import declarations above it. The package clause is omitted,
// so the output can be passed back to Parse.
func Format(decl *dst.FuncDecl) (string, error) {
	src, err := printDecl(decl)
	if err != nil {
		return "", err
	}

	clause := "package " + formatPackage + "\n"
	return strings.TrimLeft(strings.TrimPrefix(src, clause), "\n"), nil
}

func printDecl(decl *dst.FuncDecl) (src string, err error) {
	// the restorer panics when a node appears twice in a tree
	defer func() {
		if r := recover(); r != nil {
			err = renderFailure("%v", r)
		}
	}()

	file := &dst.File{
		Name:  dst.NewIdent(formatPackage),
		Decls: []dst.Decl{decl},
	}

	buf := bytes.NewBuffer([]byte{})
	restorer := decorator.NewRestorerWithImports(formatPackage, guess.New())
	if err := restorer.Fprint(buf, file); err != nil {
		return "", &SyntaxError{Kind: ErrRenderFailure, Err: err}
	}

	return buf.String(), nil
}

// validate checks that the rendered declaration can be printed and parsed again as Go source.
func validate(decl *dst.FuncDecl) error {
	src, err := printDecl(decl)
	if err != nil {
		return err
	}

	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, sourceFileName, src, parser.AllErrors); err != nil {
		return &SyntaxError{
			Kind: ErrRenderFailure,
			Msg:  fmt.Sprintf("%s does not parse", decl.Name.Name),
			Err:  err,
		}
	}
	return nil
}
