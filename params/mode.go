package params

import (
	"go/types"

	"github.com/dave/dst"
)

// predeclared interface types that can be recognized without type information
var predeclaredInterfaces = map[string]bool{
	"any":   true,
	"error": true,
}

// ModeOf classifies a type expression by its syntax alone.
//
//	*T, []T, map[K]V, ...T            ByMutableReference
//	chan T, func(...), interface{...} ByReference
//	everything else                   ByValue
//
// Named types are ByValue unless they are one of the predeclared interfaces; use TypeMode
// with type checked information to classify them by their underlying type.
func ModeOf(expr dst.Expr) PassMode {
	switch v := expr.(type) {
	case *dst.StarExpr:
		return ByMutableReference
	case *dst.ArrayType:
		if v.Len == nil {
			return ByMutableReference
		}
		return ByValue
	case *dst.MapType:
		return ByMutableReference
	case *dst.Ellipsis:
		return ByMutableReference
	case *dst.ChanType:
		return ByReference
	case *dst.FuncType:
		return ByReference
	case *dst.InterfaceType:
		return ByReference
	case *dst.ParenExpr:
		return ModeOf(v.X)
	case *dst.Ident:
		if v.Path == "" && predeclaredInterfaces[v.Name] {
			return ByReference
		}
		return ByValue
	case *dst.StructType, *dst.SelectorExpr, *dst.IndexExpr, *dst.IndexListExpr:
		return ByValue
	default:
		return ByValue
	}
}

// TypeMode classifies a type checked type by its underlying type, using the same rules as ModeOf.
// Type parameters are ByValue since the types they will be instantiated with are unknown.
func TypeMode(t types.Type) PassMode {
	if t == nil {
		return ByValue
	}

	t = types.Unalias(t)
	if _, ok := t.(*types.TypeParam); ok {
		return ByValue
	}

	switch t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map:
		return ByMutableReference
	case *types.Chan, *types.Signature, *types.Interface:
		return ByReference
	default:
		return ByValue
	}
}
