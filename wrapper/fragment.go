package wrapper

import (
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/goast"
	"github.com/dave/dst/decorator/resolver/guess"
)

const fragmentPackagePath = "fnwrap/fragment"

// ErrMalformedFragment is returned by ParseFragment when the source is not a list of Go statements.
var ErrMalformedFragment = errors.New("malformed code fragment")

// Import is a package that a code fragment may reference.
type Import struct {
	Name string // optional local name
	Path string
}

func (i Import) String() string {
	if i.Name == "" {
		return strconv.Quote(i.Path)
	}
	return i.Name + " " + strconv.Quote(i.Path)
}

// ParseFragment parses Go statements so they can be used as pre or post code.
//
// Package selectors such as fmt.Println are resolved against the given imports, which lets
// an import aware restorer add the packages a fragment uses to the file it is inserted into.
func ParseFragment(src string, imports ...Import) ([]dst.Stmt, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}

	header := strings.Builder{}
	header.WriteString("package fragment\n")
	for _, imp := range imports {
		fmt.Fprintf(&header, "import %s\n", imp)
	}
	header.WriteString("func _() {\n")
	headerLines := strings.Count(header.String(), "\n")

	source := header.String() + src + "\n}\n"

	fset := token.NewFileSet()
	d := decorator.NewDecoratorWithImports(fset, fragmentPackagePath, goast.WithResolver(guess.New()))
	file, err := d.ParseFile("fragment.go", source, parser.ParseComments)
	if err != nil {
		return nil, malformedFragment(err, headerLines)
	}

	for _, decl := range file.Decls {
		if fn, ok := decl.(*dst.FuncDecl); ok && fn.Body != nil {
			stmts := fn.Body.List
			fn.Body.List = nil
			return stmts, nil
		}
	}

	return nil, &SyntaxError{Kind: ErrMalformedFragment, Msg: "no statements found"}
}

// MustParseFragment is like ParseFragment but panics if the source can not be parsed.
// It is intended for fragments written as constants.
func MustParseFragment(src string, imports ...Import) []dst.Stmt {
	stmts, err := ParseFragment(src, imports...)
	if err != nil {
		panic(err)
	}
	return stmts
}

func malformedFragment(err error, headerLines int) error {
	list, ok := err.(scanner.ErrorList)
	if !ok || len(list) == 0 {
		return &SyntaxError{Kind: ErrMalformedFragment, Err: err}
	}

	for _, e := range list {
		e.Pos.Filename = ""
		e.Pos.Line -= headerLines
	}

	return &SyntaxError{
		Kind: ErrMalformedFragment,
		Pos:  list[0].Pos,
		Msg:  list[0].Msg,
		Err:  list,
	}
}
