package util

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// TypeOf returns the types.Type of an expression according to go types info.
// It returns nil when the package has no type information or the expression was not part of the original source.
func TypeOf(expr dst.Expr, pkg *decorator.Package) types.Type {
	if expr == nil || pkg == nil || pkg.Decorator == nil || pkg.TypesInfo == nil {
		return nil
	}

	astNode := pkg.Decorator.Ast.Nodes[expr]
	if astNode == nil {
		return nil
	}
	astExpr, ok := astNode.(ast.Expr)
	if !ok {
		return nil
	}
	return pkg.TypesInfo.TypeOf(astExpr)
}

// Position returns the position of a node in the original source of its package.
func Position(node dst.Node, pkg *decorator.Package) *token.Position {
	if node == nil || pkg == nil || pkg.Decorator == nil || pkg.Package == nil || pkg.Fset == nil {
		return nil
	}

	astNode := pkg.Decorator.Ast.Nodes[node]
	if astNode == nil {
		return nil
	}

	pos := pkg.Fset.Position(astNode.Pos())
	return &pos
}

// PrintNode returns the original source of a node.
func PrintNode(pkg *decorator.Package, node dst.Node) string {
	if node == nil || pkg == nil || pkg.Decorator == nil {
		return ""
	}

	astNode := pkg.Decorator.Ast.Nodes[node]
	if astNode == nil {
		return fmt.Sprintf("%+v", node)
	}

	buf := &bytes.Buffer{}
	err := printer.Fprint(buf, pkg.Fset, astNode)
	if err != nil {
		return fmt.Sprintf("%+v", astNode)
	}

	return buf.String()
}
