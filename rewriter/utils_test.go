// Test Utils contains tools and building blocks that can be generically used for unit tests

package rewriter

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/gopackages"
	"github.com/fnwrap/fnwrap/internal/config"
	"golang.org/x/tools/go/packages"
)

const testModule = "example.com/app"

// createTestApp creates a module in a temporary directory with the given file name and contents and loads it.
// loading packages is expensive, so this will be skipped in short mode
func createTestApp(t *testing.T, fileName, contents string) (string, []*decorator.Package) {
	t.Helper()

	// integration tests are slow, so we skip them in short mode
	if testing.Short() {
		t.Skip("Skipping rewriter integration tests in short mode")
	}

	testAppDir := t.TempDir()
	goMod := "module " + testModule + "\n\ngo 1.22\n"
	if err := os.WriteFile(filepath.Join(testAppDir, "go.mod"), []byte(goMod), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(testAppDir, fileName), []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	pkgs, err := decorator.Load(&packages.Config{Dir: testAppDir, Mode: packages.LoadSyntax}, "./...")
	if err != nil {
		t.Fatal(err)
	}
	return testAppDir, pkgs
}

func testManager(t *testing.T, code string, cfg *config.Config) (*Manager, string) {
	t.Helper()
	dir, pkgs := createTestApp(t, "app.go", code)
	return NewManager(pkgs, cfg, filepath.Join(dir, "fnwrap.diff"), dir, nil), dir
}

func panicRecovery(t *testing.T) {
	err := recover()
	if err != nil {
		t.Fatalf("%s recovered from panic: %+v\n\n%s", t.Name(), err, debug.Stack())
	}
}

// restoreFile prints the first file of the only package held by the manager.
func restoreFile(t *testing.T, m *Manager) string {
	t.Helper()
	if len(m.packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(m.packages))
	}

	for _, state := range m.packages {
		restorer := decorator.NewRestorerWithImports(state.pkg.PkgPath, gopackages.New(state.pkg.Dir))
		buf := bytes.NewBuffer([]byte{})
		if err := restorer.Fprint(buf, state.pkg.Syntax[0]); err != nil {
			t.Fatalf("Failed to restore the file: %v", err)
		}
		return buf.String()
	}
	return ""
}

func findDecl(t *testing.T, m *Manager, name string) (*decorator.Package, *dst.File, *dst.FuncDecl) {
	t.Helper()
	for _, state := range m.packages {
		for _, file := range state.pkg.Syntax {
			for _, decl := range file.Decls {
				if fn, ok := decl.(*dst.FuncDecl); ok && fn.Name.Name == name {
					return state.pkg, file, fn
				}
			}
		}
	}
	t.Fatalf("function %s not found", name)
	return nil, nil, nil
}
