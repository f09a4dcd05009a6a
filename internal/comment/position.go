package comment

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/fnwrap/fnwrap/internal/util"
)

// nodePosition formats the position of a node as "file line:column". Files inside the application
// are shown relative to the directory that contains the application root, e.g. "app/main.go 3:1".
// An empty string is returned when the node has no known position.
func nodePosition(pkg *decorator.Package, node dst.Node, appRoot string) string {
	pos := util.Position(node, pkg)
	if pos == nil || !pos.IsValid() {
		return ""
	}

	name := trimToRoot(pos.Filename, appRoot)
	if pos.Column > 0 {
		return fmt.Sprintf("%s %d:%d", name, pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s %d", name, pos.Line)
}

func trimToRoot(filename, appRoot string) string {
	segments := strings.Split(filepath.ToSlash(filename), "/")
	for i := len(segments) - 2; i >= 0; i-- {
		if segments[i] == appRoot {
			return filepath.Join(segments[i:]...)
		}
	}
	return filepath.Base(filename)
}
