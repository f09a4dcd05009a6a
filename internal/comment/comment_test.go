package comment

import (
	"testing"

	"github.com/dave/dst"
	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	DisableConsolePrinter()

	node := &dst.Ident{Name: "hi"}
	Info(nil, node, "message", "additionalInfo")

	assert.Equal(t, []string{
		"// FNWRAP INFO: message",
		"// additionalInfo",
	}, node.Decorations().Start.All())

	nodeWithComments := &dst.Ident{Name: "hi", Decs: dst.IdentDecorations{NodeDecs: dst.NodeDecs{Start: []string{"// existing comment"}}}}
	Info(nil, nodeWithComments, "message", "additionalInfo")

	assert.Equal(t, []string{
		"// FNWRAP INFO: message",
		"// additionalInfo",
		"//",
		"// existing comment",
	}, nodeWithComments.Decorations().Start.All())
}

func TestConsoleDoesNotAnnotate(t *testing.T) {
	DisableConsolePrinter()

	node := &dst.Ident{Name: "hi"}
	Console(nil, node, InfoHeader, "message")
	Console(nil, node, WarnHeader, "message")
	assert.Empty(t, node.Decorations().Start)
}
