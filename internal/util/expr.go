package util

import (
	"path"
	"strings"

	"github.com/dave/dst"
)

// ExprString returns a short, human readable form of a type or simple expression.
// Identifiers from other packages are qualified with the last element of their import path.
// It is meant for messages and reports, not for generating code.
func ExprString(expr dst.Expr) string {
	b := strings.Builder{}
	writeExpr(&b, expr)
	return b.String()
}

func writeExpr(b *strings.Builder, expr dst.Expr) {
	switch v := expr.(type) {
	case nil:
	case *dst.Ident:
		if v.Path != "" {
			b.WriteString(path.Base(v.Path))
			b.WriteByte('.')
		}
		b.WriteString(v.Name)
	case *dst.BasicLit:
		b.WriteString(v.Value)
	case *dst.SelectorExpr:
		writeExpr(b, v.X)
		b.WriteByte('.')
		b.WriteString(v.Sel.Name)
	case *dst.StarExpr:
		b.WriteByte('*')
		writeExpr(b, v.X)
	case *dst.ParenExpr:
		b.WriteByte('(')
		writeExpr(b, v.X)
		b.WriteByte(')')
	case *dst.ArrayType:
		b.WriteByte('[')
		writeExpr(b, v.Len)
		b.WriteByte(']')
		writeExpr(b, v.Elt)
	case *dst.Ellipsis:
		b.WriteString("...")
		writeExpr(b, v.Elt)
	case *dst.MapType:
		b.WriteString("map[")
		writeExpr(b, v.Key)
		b.WriteByte(']')
		writeExpr(b, v.Value)
	case *dst.ChanType:
		switch v.Dir {
		case dst.SEND:
			b.WriteString("chan<- ")
		case dst.RECV:
			b.WriteString("<-chan ")
		default:
			b.WriteString("chan ")
		}
		writeExpr(b, v.Value)
	case *dst.FuncType:
		b.WriteString("func")
		writeFields(b, v.Params)
		if v.Results != nil && len(v.Results.List) > 0 {
			b.WriteByte(' ')
			if len(v.Results.List) == 1 && len(v.Results.List[0].Names) == 0 {
				writeExpr(b, v.Results.List[0].Type)
			} else {
				writeFields(b, v.Results)
			}
		}
	case *dst.InterfaceType:
		if v.Methods == nil || len(v.Methods.List) == 0 {
			b.WriteString("interface{}")
		} else {
			b.WriteString("interface{...}")
		}
	case *dst.StructType:
		if v.Fields == nil || len(v.Fields.List) == 0 {
			b.WriteString("struct{}")
		} else {
			b.WriteString("struct{...}")
		}
	case *dst.IndexExpr:
		writeExpr(b, v.X)
		b.WriteByte('[')
		writeExpr(b, v.Index)
		b.WriteByte(']')
	case *dst.IndexListExpr:
		writeExpr(b, v.X)
		b.WriteByte('[')
		for i, index := range v.Indices {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, index)
		}
		b.WriteByte(']')
	case *dst.UnaryExpr:
		b.WriteString(v.Op.String())
		writeExpr(b, v.X)
	case *dst.BinaryExpr:
		writeExpr(b, v.X)
		b.WriteByte(' ')
		b.WriteString(v.Op.String())
		b.WriteByte(' ')
		writeExpr(b, v.Y)
	default:
		b.WriteString("?")
	}
}

func writeFields(b *strings.Builder, list *dst.FieldList) {
	b.WriteByte('(')
	if list != nil {
		for i, field := range list.List {
			if i > 0 {
				b.WriteString(", ")
			}
			for j, name := range field.Names {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(name.Name)
			}
			if len(field.Names) > 0 {
				b.WriteByte(' ')
			}
			writeExpr(b, field.Type)
		}
	}
	b.WriteByte(')')
}
