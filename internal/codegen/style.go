package codegen

import (
	"github.com/dave/dst"
)

// CreateStatementBlock modifies the formatting of a set of statements to
// all be on separate lines, without any additional spacing between them.
//
// White space is always added after the block.
//
// If spacingBefore == true, an emptyline is added before the block.
func CreateStatementBlock(spacingBefore bool, stmts ...dst.Stmt) {
	for i, stmt := range stmts {
		stmtDecs := stmt.Decorations()
		stmtDecs.Before = dst.NewLine
		stmtDecs.After = dst.NewLine

		if i == len(stmts)-1 {
			stmtDecs.After = dst.EmptyLine
		}
		if spacingBefore && i == 0 {
			stmtDecs.Before = dst.EmptyLine
		}
	}
}

// SeparateBlock adds an empty line after the last statement of a block of
// statements that is followed by other code. Other spacing is left untouched.
func SeparateBlock(stmts []dst.Stmt) {
	if len(stmts) == 0 {
		return
	}
	stmts[len(stmts)-1].Decorations().After = dst.EmptyLine
}

// TrimTrailingSpace removes the spacing after the final statement of a block
// so that it sits directly above the closing brace.
func TrimTrailingSpace(stmts []dst.Stmt) {
	if len(stmts) == 0 {
		return
	}
	decs := stmts[len(stmts)-1].Decorations()
	if decs.After == dst.EmptyLine {
		decs.After = dst.NewLine
	}
}
