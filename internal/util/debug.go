package util

import (
	"strings"

	"github.com/dave/dst"
)

// DebugPrint returns the structure of a node in human readable form, skipping nil fields.
// It is meant for test failure messages and debug logging.
func DebugPrint(node dst.Node) string {
	if node == nil {
		return "<nil>"
	}

	b := strings.Builder{}
	if err := dst.Fprint(&b, node, dst.NotNilFilter); err != nil {
		return err.Error()
	}
	return b.String()
}
