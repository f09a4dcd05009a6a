package codegen

import (
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"
)

const (
	// LogImportPath is the package used by generated trace statements.
	LogImportPath = "log"

	ValueVerb   = "%v"
	PointerVerb = "%p"
)

// TraceArg is a value that is printed by a trace statement.
type TraceArg struct {
	Name string
	Verb string
}

// LogParameters returns a statement that logs the entry into a function along with its arguments:
//
//	log.Printf("enter Name(a=%v, b=%p)", a, b)
func LogParameters(funcName string, args []TraceArg) *dst.ExprStmt {
	format := strings.Builder{}
	format.WriteString("enter ")
	format.WriteString(funcName)
	format.WriteByte('(')

	exprs := []dst.Expr{}
	for i, arg := range args {
		if i > 0 {
			format.WriteString(", ")
		}
		verb := arg.Verb
		if verb == "" {
			verb = ValueVerb
		}
		format.WriteString(arg.Name)
		format.WriteByte('=')
		format.WriteString(verb)
		exprs = append(exprs, dst.NewIdent(arg.Name))
	}
	format.WriteByte(')')

	return logPrintf(format.String(), exprs)
}

// LogResults returns a statement that logs the exit from a function along with the values it returns:
//
//	log.Printf("exit Name -> %v, %v", result0, result1)
func LogResults(funcName string, resultIdents []string) *dst.ExprStmt {
	format := "exit " + funcName
	exprs := []dst.Expr{}
	if len(resultIdents) > 0 {
		verbs := make([]string, len(resultIdents))
		for i, ident := range resultIdents {
			verbs[i] = ValueVerb
			exprs = append(exprs, dst.NewIdent(ident))
		}
		format += " -> " + strings.Join(verbs, ", ")
	}

	return logPrintf(format, exprs)
}

func logPrintf(format string, args []dst.Expr) *dst.ExprStmt {
	return &dst.ExprStmt{
		X: &dst.CallExpr{
			Fun: &dst.Ident{
				Name: "Printf",
				Path: LogImportPath,
			},
			Args: append([]dst.Expr{
				&dst.BasicLit{
					Kind:  token.STRING,
					Value: strconv.Quote(format),
				},
			}, args...),
		},
	}
}
