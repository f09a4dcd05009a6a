// Package params lists the parameters of a function declaration and classifies how each one is passed.
//
// A Parameter is reported for every name a parameter list binds, so a grouped field such as
// `x, y int` produces two Parameters. The receiver of a method comes first.
package params

import (
	"fmt"
	"go/types"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/fnwrap/fnwrap/internal/util"
)

// PassMode describes what a function can do to the value its caller passed in.
type PassMode uint8

const (
	// ByValue parameters are copies; changes are not visible to the caller.
	ByValue PassMode = iota
	// ByReference parameters share state with the caller without being able to write to the caller's storage directly.
	ByReference
	// ByMutableReference parameters allow writes that the caller observes.
	ByMutableReference
)

func (m PassMode) String() string {
	switch m {
	case ByValue:
		return "ByValue"
	case ByReference:
		return "ByReference"
	case ByMutableReference:
		return "ByMutableReference"
	default:
		return "Unknown"
	}
}

// upgrade never lowers a pass mode.
func (m PassMode) upgrade(to PassMode) PassMode {
	if to > m {
		return to
	}
	return m
}

// Parameter is a single binding from a function's receiver or parameter list.
type Parameter struct {
	// Name is empty for unnamed and blank (_) parameters.
	Name string
	// Type is the declared type expression.
	Type dst.Expr
	// Resolved is the type checked type, or nil when type information is not available.
	Resolved types.Type
	Mode     PassMode
	Receiver bool
	Variadic bool
	// Field is the position of the declaring field in the parameter list; the receiver is -1.
	Field int
}

// Bound reports whether the parameter binds a name that the function body can use.
func (p Parameter) Bound() bool {
	return p.Name != ""
}

func (p Parameter) String() string {
	name := p.Name
	if name == "" {
		name = "_"
	}
	typ := util.ExprString(p.Type)
	if p.Resolved != nil {
		typ = p.Resolved.String()
	}
	return fmt.Sprintf("%s: %s %s", name, p.Mode, typ)
}

// TypeResolver looks up type information for nodes of a declaration.
type TypeResolver interface {
	TypeOf(node dst.Expr) types.Type
}

// PackageResolver resolves types using the type information of a loaded package.
type PackageResolver struct {
	Pkg *decorator.Package
}

func (r PackageResolver) TypeOf(node dst.Expr) types.Type {
	return util.TypeOf(node, r.Pkg)
}

// Classify returns the parameters of a function declaration in declaration order, starting with the receiver.
// The resolver may be nil, in which case only the syntax of each type is used.
func Classify(decl *dst.FuncDecl, resolver TypeResolver) []Parameter {
	if decl == nil || decl.Type == nil {
		return nil
	}

	parameters := []Parameter{}
	if decl.Recv != nil {
		parameters = append(parameters, classifyFields(decl.Recv, resolver, true)...)
	}
	return append(parameters, classifyFields(decl.Type.Params, resolver, false)...)
}

// ClassifyFields returns the parameters bound by a parameter list.
func ClassifyFields(list *dst.FieldList, resolver TypeResolver) []Parameter {
	return classifyFields(list, resolver, false)
}

func classifyFields(list *dst.FieldList, resolver TypeResolver, receiver bool) []Parameter {
	if list == nil {
		return nil
	}

	parameters := []Parameter{}
	for i, field := range list.List {
		index := i
		if receiver {
			index = -1
		}
		_, variadic := field.Type.(*dst.Ellipsis)

		if len(field.Names) == 0 {
			parameters = append(parameters, classify(nil, field.Type, resolver, index, receiver, variadic))
			continue
		}
		for _, name := range field.Names {
			parameters = append(parameters, classify(name, field.Type, resolver, index, receiver, variadic))
		}
	}
	return parameters
}

func classify(name *dst.Ident, typ dst.Expr, resolver TypeResolver, field int, receiver, variadic bool) Parameter {
	p := Parameter{
		Type:     typ,
		Mode:     ByValue,
		Receiver: receiver,
		Variadic: variadic,
		Field:    field,
	}
	if name != nil && name.Name != "_" {
		p.Name = name.Name
	}

	p.Mode = p.Mode.upgrade(ModeOf(typ))

	if resolver != nil {
		// the type of a named parameter is found through its definition, which also covers variadic parameters
		if name != nil {
			p.Resolved = resolver.TypeOf(name)
		}
		if p.Resolved == nil {
			p.Resolved = resolver.TypeOf(typ)
		}
		if p.Resolved != nil {
			p.Mode = p.Mode.upgrade(TypeMode(p.Resolved))
		}
	}

	return p
}
