package codegen

import (
	"go/token"
	"reflect"
	"testing"

	"github.com/dave/dst"
	"github.com/fnwrap/fnwrap/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestWrapperClosure(t *testing.T) {
	body := &dst.BlockStmt{
		List: []dst.Stmt{
			&dst.ReturnStmt{Results: []dst.Expr{dst.NewIdent("true")}},
		},
	}
	results := &dst.FieldList{
		List: []*dst.Field{{Type: dst.NewIdent("bool")}},
	}

	got := WrapperClosure("wrapper", results, body)
	want := &dst.AssignStmt{
		Lhs: []dst.Expr{dst.NewIdent("wrapper")},
		Tok: token.DEFINE,
		Rhs: []dst.Expr{
			&dst.FuncLit{
				Type: &dst.FuncType{
					Func:    true,
					Params:  &dst.FieldList{},
					Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("bool")}}},
				},
				Body: body,
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WrapperClosure() = %s, want %s", util.DebugPrint(got), util.DebugPrint(want))
	}

	lit := got.Rhs[0].(*dst.FuncLit)
	assert.Same(t, body, lit.Body, "the closure should take the body as is")
	assert.NotSame(t, results, lit.Type.Results, "the results should be copied")
}

func TestWrapperClosureNamedResults(t *testing.T) {
	results := &dst.FieldList{
		List: []*dst.Field{
			{Names: []*dst.Ident{dst.NewIdent("n"), dst.NewIdent("m")}, Type: dst.NewIdent("int")},
			{Names: []*dst.Ident{dst.NewIdent("err")}, Type: dst.NewIdent("error")},
		},
	}

	got := WrapperClosure("w", results, &dst.BlockStmt{})
	lit := got.Rhs[0].(*dst.FuncLit)
	assert.True(t, util.AssertFieldListEqual(results, lit.Type.Results), util.DebugPrint(lit.Type))
	assert.NotSame(t, results.List[0].Names[0], lit.Type.Results.List[0].Names[0])
}

func TestWrapperClosureNoResults(t *testing.T) {
	for _, results := range []*dst.FieldList{nil, {}} {
		got := WrapperClosure("wrapper", results, &dst.BlockStmt{})
		lit := got.Rhs[0].(*dst.FuncLit)
		assert.Nil(t, lit.Type.Results)
		assert.True(t, lit.Type.Func)
	}
}

func TestCallWrapper(t *testing.T) {
	tests := []struct {
		name         string
		resultIdents []string
		want         dst.Stmt
	}{
		{
			name: "no results",
			want: &dst.ExprStmt{
				X: &dst.CallExpr{Fun: dst.NewIdent("wrapper")},
			},
		},
		{
			name:         "one result",
			resultIdents: []string{"result"},
			want: &dst.AssignStmt{
				Lhs: []dst.Expr{dst.NewIdent("result")},
				Tok: token.DEFINE,
				Rhs: []dst.Expr{&dst.CallExpr{Fun: dst.NewIdent("wrapper")}},
			},
		},
		{
			name:         "several results",
			resultIdents: []string{"result0", "result1"},
			want: &dst.AssignStmt{
				Lhs: []dst.Expr{dst.NewIdent("result0"), dst.NewIdent("result1")},
				Tok: token.DEFINE,
				Rhs: []dst.Expr{&dst.CallExpr{Fun: dst.NewIdent("wrapper")}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CallWrapper("wrapper", tt.resultIdents); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CallWrapper() = %s, want %s", util.DebugPrint(got), util.DebugPrint(tt.want))
			}
		})
	}
}

func TestReturnResults(t *testing.T) {
	got := ReturnResults([]string{"a", "b"})
	want := &dst.ReturnStmt{Results: []dst.Expr{dst.NewIdent("a"), dst.NewIdent("b")}}
	assert.Equal(t, want, got)
}

func TestResultIdents(t *testing.T) {
	tests := []struct {
		count int
		want  []string
	}{
		{count: 0, want: nil},
		{count: 1, want: []string{"result"}},
		{count: 3, want: []string{"result0", "result1", "result2"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResultIdents("result", tt.count))
	}
}

func TestCloneStatements(t *testing.T) {
	stmts := []dst.Stmt{
		CallWrapper("wrapper", nil),
		nil,
		ReturnResults([]string{"result"}),
	}

	clones := CloneStatements(stmts)
	assert.Len(t, clones, 2)
	assert.NotSame(t, stmts[0], clones[0])
	assert.Equal(t, stmts[0], clones[0])
	assert.Equal(t, stmts[2], clones[1])
}
