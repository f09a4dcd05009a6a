package util

import (
	"reflect"

	"github.com/dave/dst"
)

// AssertExpressionEqual reports whether two expressions are structurally identical.
// Decorations are ignored. Only the expression kinds that appear in function signatures
// and simple statements are supported; anything else is reported as not equal.
func AssertExpressionEqual(a dst.Expr, b dst.Expr) bool {
	return compareExpr(a, b)
}

// AssertFieldListEqual reports whether two field lists declare the same names and types.
func AssertFieldListEqual(a, b *dst.FieldList) bool {
	if a == nil || b == nil {
		return (a == nil || len(a.List) == 0) && (b == nil || len(b.List) == 0)
	}
	if len(a.List) != len(b.List) {
		return false
	}
	for i := range a.List {
		if len(a.List[i].Names) != len(b.List[i].Names) {
			return false
		}
		for j := range a.List[i].Names {
			if a.List[i].Names[j].Name != b.List[i].Names[j].Name {
				return false
			}
		}
		if !compareExpr(a.List[i].Type, b.List[i].Type) {
			return false
		}
	}
	return true
}

func compareExpr(a dst.Expr, b dst.Expr) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	switch a := a.(type) {
	case *dst.BasicLit:
		b := b.(*dst.BasicLit)
		return a.Kind == b.Kind && a.Value == b.Value
	case *dst.Ident:
		b := b.(*dst.Ident)
		return a.Name == b.Name && a.Path == b.Path
	case *dst.BinaryExpr:
		b := b.(*dst.BinaryExpr)
		return compareExpr(a.X, b.X) && compareExpr(a.Y, b.Y) && a.Op == b.Op
	case *dst.CallExpr:
		b := b.(*dst.CallExpr)
		if !compareExpr(a.Fun, b.Fun) {
			return false
		}
		return compareExprList(a.Args, b.Args)
	case *dst.ParenExpr:
		b := b.(*dst.ParenExpr)
		return compareExpr(a.X, b.X)
	case *dst.SelectorExpr:
		b := b.(*dst.SelectorExpr)
		return compareExpr(a.X, b.X) && compareExpr(a.Sel, b.Sel)
	case *dst.StarExpr:
		b := b.(*dst.StarExpr)
		return compareExpr(a.X, b.X)
	case *dst.UnaryExpr:
		b := b.(*dst.UnaryExpr)
		return a.Op == b.Op && compareExpr(a.X, b.X)
	case *dst.ArrayType:
		b := b.(*dst.ArrayType)
		return compareExpr(a.Len, b.Len) && compareExpr(a.Elt, b.Elt)
	case *dst.MapType:
		b := b.(*dst.MapType)
		return compareExpr(a.Key, b.Key) && compareExpr(a.Value, b.Value)
	case *dst.ChanType:
		b := b.(*dst.ChanType)
		return a.Dir == b.Dir && compareExpr(a.Value, b.Value)
	case *dst.Ellipsis:
		b := b.(*dst.Ellipsis)
		return compareExpr(a.Elt, b.Elt)
	case *dst.FuncType:
		b := b.(*dst.FuncType)
		return AssertFieldListEqual(a.Params, b.Params) && AssertFieldListEqual(a.Results, b.Results)
	case *dst.IndexExpr:
		b := b.(*dst.IndexExpr)
		return compareExpr(a.X, b.X) && compareExpr(a.Index, b.Index)
	case *dst.IndexListExpr:
		b := b.(*dst.IndexListExpr)
		return compareExpr(a.X, b.X) && compareExprList(a.Indices, b.Indices)
	default:
		return false
	}
}

func compareExprList(a, b []dst.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !compareExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}
