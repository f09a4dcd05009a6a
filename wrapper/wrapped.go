// Package wrapper inserts code before and after the body of a Go function declaration.
//
// A WrappedFunc owns a parsed Function along with optional pre and post code. Rendering it
// produces a declaration with the same signature and doc comments whose body runs the pre code,
// then the original body, then the post code, and finally returns what the original body returned:
//
//	func hello() bool {
//		fmt.Println("Hi at the start :)")
//		wrapper := func() bool {
//			fmt.Println("Hello there!")
//			return true
//		}
//		result := wrapper()
//		fmt.Println("Hi at the end :)")
//		return result
//	}
//
// The original body is only moved into a closure when post code is set. With pre code alone it is
// inlined, so its return statements still leave the function itself.
package wrapper

import (
	"github.com/dave/dst"
	"github.com/fnwrap/fnwrap/internal/codegen"
)

const (
	// DefaultWrapperIdent names the closure that holds the original function body.
	DefaultWrapperIdent = "wrapper"
	// DefaultResultIdent names the variable that holds the value returned by the closure.
	DefaultResultIdent = "result"
)

// WrappedFunc is a function that can have code inserted before and after its original body.
// It is rendered exactly once; after Render the original Function must not be used again.
type WrappedFunc struct {
	function     *Function
	preCode      []dst.Stmt
	postCode     []dst.Stmt
	wrapperIdent string
	resultIdent  string
	rendered     bool
}

// New creates a WrappedFunc with no pre or post code and the default identifiers.
func New(function *Function) *WrappedFunc {
	return &WrappedFunc{
		function:     function,
		wrapperIdent: DefaultWrapperIdent,
		resultIdent:  DefaultResultIdent,
	}
}

// ParseWrapped parses the source of a function declaration into a WrappedFunc.
func ParseWrapped(src []byte) (*WrappedFunc, error) {
	function, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return New(function), nil
}

// Function returns the function being wrapped.
func (w *WrappedFunc) Function() *Function {
	return w.function
}

// SetPreCode sets the code that runs before the rest of the function.
// Passing no statements is the same as ClearPreCode.
func (w *WrappedFunc) SetPreCode(stmts ...dst.Stmt) {
	if len(stmts) == 0 {
		w.preCode = nil
		return
	}
	w.preCode = stmts
}

// SetPostCode sets the code that runs after the rest of the function.
// Passing no statements is the same as ClearPostCode.
func (w *WrappedFunc) SetPostCode(stmts ...dst.Stmt) {
	if len(stmts) == 0 {
		w.postCode = nil
		return
	}
	w.postCode = stmts
}

// ClearPreCode removes any code set to run before the function.
func (w *WrappedFunc) ClearPreCode() {
	w.preCode = nil
}

// ClearPostCode removes any code set to run after the function.
func (w *WrappedFunc) ClearPostCode() {
	w.postCode = nil
}

// PreCode returns the code that runs before the function.
func (w *WrappedFunc) PreCode() []dst.Stmt {
	return w.preCode
}

// PostCode returns the code that runs after the function.
func (w *WrappedFunc) PostCode() []dst.Stmt {
	return w.postCode
}

// SetWrapperIdent sets the name of the closure that holds the original body.
func (w *WrappedFunc) SetWrapperIdent(name string) {
	w.wrapperIdent = name
}

// SetResultIdent sets the name of the variable that holds the value returned by the original body.
func (w *WrappedFunc) SetResultIdent(name string) {
	w.resultIdent = name
}

// WrapperIdent returns the name of the closure that holds the original body.
func (w *WrappedFunc) WrapperIdent() string {
	return w.wrapperIdent
}

// ResultIdent returns the configured result variable name.
func (w *WrappedFunc) ResultIdent() string {
	return w.resultIdent
}

// ResultIdents returns the variables that hold the values returned by the original body once it
// is wrapped in a closure. Post code can refer to these names. A function with a single result uses
// ResultIdent; a function with several results uses ResultIdent followed by the index of each result.
// A function without results has none.
func (w *WrappedFunc) ResultIdents() []string {
	return codegen.ResultIdents(w.resultIdent, w.function.Returns().Count())
}
