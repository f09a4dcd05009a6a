package comment

import (
	"fmt"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

const (
	InfoHeader string = "FNWRAP INFO"
	WarnHeader string = "FNWRAP WARN"
)

// Info appends an fnwrap info comment to the node.
// This function is used to add comments that will be written to the generated code.
// The message is the main comment, and additionalInfo is a list of optional
// comments that will be printed on new lines below the main comment.
func Info(pkg *decorator.Package, node dst.Node, message string, additionalInfo ...string) {
	annotate(node, InfoHeader, message, additionalInfo...)
	printer.Add(pkg, node, InfoHeader, message, additionalInfo...)
}

// Console records a message for the console without changing the generated code.
func Console(pkg *decorator.Package, node dst.Node, header, message string, additionalInfo ...string) {
	printer.Add(pkg, node, header, message, additionalInfo...)
}

func annotate(node dst.Node, header, message string, additionalInfo ...string) {
	comments := []string{
		fmt.Sprintf("// %s: %s", header, message),
	}
	for _, info := range additionalInfo {
		comments = append(comments, fmt.Sprintf("// %s", info))
	}

	decs := node.Decorations()
	if len(decs.Start) > 0 {
		comments = append(comments, "//")
	}

	decs.Start.Prepend(comments...)
}
