package codegen

import (
	"go/token"
	"strconv"

	"github.com/dave/dst"
)

// WrapperClosure returns the statement `<wrapperIdent> := func() <results> <body>`.
//
// The results are cloned so that named results stay in scope for the body. The body is not cloned:
// the closure takes ownership of it, and it must not be referenced anywhere else in the tree.
func WrapperClosure(wrapperIdent string, results *dst.FieldList, body *dst.BlockStmt) *dst.AssignStmt {
	var closureResults *dst.FieldList
	if results != nil && len(results.List) > 0 {
		closureResults = dst.Clone(results).(*dst.FieldList)
	}

	return &dst.AssignStmt{
		Lhs: []dst.Expr{
			dst.NewIdent(wrapperIdent),
		},
		Tok: token.DEFINE,
		Rhs: []dst.Expr{
			&dst.FuncLit{
				Type: &dst.FuncType{
					Func:    true,
					Params:  &dst.FieldList{},
					Results: closureResults,
				},
				Body: body,
			},
		},
	}
}

// CallWrapper returns a call to the wrapper closure. If resultIdents is empty, the call
// is an expression statement, otherwise its results are assigned to new variables:
// `<result0>, <result1> := <wrapperIdent>()`.
func CallWrapper(wrapperIdent string, resultIdents []string) dst.Stmt {
	call := &dst.CallExpr{
		Fun: dst.NewIdent(wrapperIdent),
	}

	if len(resultIdents) == 0 {
		return &dst.ExprStmt{
			X: call,
		}
	}

	return &dst.AssignStmt{
		Lhs: identList(resultIdents),
		Tok: token.DEFINE,
		Rhs: []dst.Expr{call},
	}
}

// ReturnResults returns the statement `return <result0>, <result1>...`.
func ReturnResults(resultIdents []string) *dst.ReturnStmt {
	return &dst.ReturnStmt{
		Results: identList(resultIdents),
	}
}

// ResultIdents returns the names used to hold the results of a wrapper closure.
// A single result uses resultIdent as is; several results are numbered from zero.
func ResultIdents(resultIdent string, count int) []string {
	switch count {
	case 0:
		return nil
	case 1:
		return []string{resultIdent}
	}

	idents := make([]string, count)
	for i := range idents {
		idents[i] = resultIdent + strconv.Itoa(i)
	}
	return idents
}

// CloneStatements deep copies a list of statements so the copies can be inserted into a tree.
func CloneStatements(stmts []dst.Stmt) []dst.Stmt {
	clones := make([]dst.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}
		clones = append(clones, dst.Clone(stmt).(dst.Stmt))
	}
	return clones
}

func identList(names []string) []dst.Expr {
	exprs := make([]dst.Expr, len(names))
	for i, name := range names {
		exprs[i] = dst.NewIdent(name)
	}
	return exprs
}
