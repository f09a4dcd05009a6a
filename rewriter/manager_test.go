package rewriter

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/fnwrap/fnwrap/internal/comment"
	"github.com/fnwrap/fnwrap/internal/config"
	"github.com/fnwrap/fnwrap/params"
	"github.com/fnwrap/fnwrap/wrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const directiveApp = `package main

import "fmt"

//fnwrap:pre fmt.Println("start")
//fnwrap:post fmt.Println("end", result)
func add(a, b int) int {
	return a + b
}

//fnwrap:pre fmt.Println("checking", n)
func check(n int) error {
	if n < 0 {
		return fmt.Errorf("negative: %d", n)
	}
	return nil
}

func main() {
	fmt.Println(add(1, 2), check(3))
}
`

func assertParses(t *testing.T, src string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "app.go", src, parser.AllErrors)
	require.NoError(t, err, src)
}

func TestWrapApplicationDirectives(t *testing.T) {
	defer panicRecovery(t)
	m, _ := testManager(t, directiveApp, nil)

	require.NoError(t, m.WrapApplication())
	assert.ElementsMatch(t, []string{testModule + ".add", testModule + ".check"}, m.Wrapped())

	got := restoreFile(t, m)
	assertParses(t, got)

	assert.Contains(t, got, "//fnwrap:pre fmt.Println(\"start\")\n//fnwrap:post fmt.Println(\"end\", result)\nfunc add(a, b int) int {")
	assert.Contains(t, got, "wrapper := func() int {\n\t\treturn a + b\n\t}")
	assert.Contains(t, got, "result := wrapper()")
	assert.Contains(t, got, "fmt.Println(\"end\", result)")
	assert.Contains(t, got, "return result\n}")

	// pre code alone keeps the original returns in the function itself
	assert.Contains(t, got, "func check(n int) error {\n\tfmt.Println(\"checking\", n)\n")
	assert.Contains(t, got, "\t\treturn fmt.Errorf(\"negative: %d\", n)")
	assert.NotContains(t, got, "wrapper := func() error")

	// main has no directives
	assert.Contains(t, got, "func main() {\n\tfmt.Println(add(1, 2), check(3))\n}")
}

func TestWrapApplicationRules(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

type Store struct{ items map[string]int }

func (s *Store) Get(key string) (int, bool) {
	v, ok := s.items[key]
	return v, ok
}

func HandleIndex() {
	println("index")
}

func main() {
	s := &Store{}
	s.Get("a")
	HandleIndex()
}
`
	cfg := config.DefaultConfig()
	cfg.Annotate = true
	cfg.Rules = []config.Rule{
		{Match: "Handle*", Pre: `log.Println("handling")`, Imports: []string{"log"}},
		{Match: "Store.Get", Post: `log.Println("found", out0, out1)`, Imports: []string{"log"}, Result: "out"},
	}
	m, _ := testManager(t, code, cfg)

	require.NoError(t, m.WrapApplication())

	got := restoreFile(t, m)
	assertParses(t, got)

	assert.Contains(t, got, `"log"`)
	assert.Contains(t, got, "func HandleIndex() {\n\tlog.Println(\"handling\")\n")
	assert.Contains(t, got, "wrapper := func() (int, bool) {")
	assert.Contains(t, got, "out0, out1 := wrapper()")
	assert.Contains(t, got, "return out0, out1")
	assert.Contains(t, got, "// FNWRAP INFO: Store.Get wrapped with post code")
	assert.Contains(t, got, "// FNWRAP INFO: HandleIndex wrapped with pre code")
}

func TestWrapApplicationTrace(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

type Vec struct{ X, Y float64 }

//fnwrap:trace
func scale(v *Vec, f float64) *Vec {
	return &Vec{v.X * f, v.Y * f}
}

//fnwrap:trace
func reset(v *Vec) {
	v.X, v.Y = 0, 0
}

func main() {
	reset(scale(&Vec{1, 2}, 2))
}
`
	m, _ := testManager(t, code, nil)
	require.NoError(t, m.WrapApplication())

	got := restoreFile(t, m)
	assertParses(t, got)

	assert.Contains(t, got, `log.Printf("enter scale(v=%p, f=%v)", v, f)`)
	assert.Contains(t, got, `log.Printf("exit scale -> %v", result)`)
	assert.Contains(t, got, `log.Printf("enter reset(v=%p)", v)`)
	assert.Contains(t, got, `log.Printf("exit reset")`)
	assert.Contains(t, got, "\twrapper()\n")
}

func TestWrapApplicationErrors(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

//fnwrap:post println(result)
func collide(result int) int {
	return result
}

//fnwrap:bogus
func unknown() {}

//fnwrap:pre this is not go
func broken() {}

//fnwrap:pre println("ok")
func fine() {}

func main() {
	collide(1)
	unknown()
	broken()
	fine()
}
`
	m, _ := testManager(t, code, nil)

	err := m.WrapApplication()
	require.Error(t, err)
	assert.ErrorIs(t, err, wrapper.ErrRenderFailure)
	assert.ErrorIs(t, err, wrapper.ErrMalformedFragment)
	assert.Contains(t, err.Error(), "collide")
	assert.Contains(t, err.Error(), "unknown directive //fnwrap:bogus")

	// the failing functions are left alone and the rest are still wrapped
	assert.Equal(t, []string{testModule + ".fine"}, m.Wrapped())
	got := restoreFile(t, m)
	assert.Contains(t, got, "func collide(result int) int {\n\treturn result\n}")
}

func TestWrapApplicationShadowedLog(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

//fnwrap:trace
func shadow(log string) int {
	return len(log)
}

func main() {
	shadow("x")
}
`
	dir, pkgs := createTestApp(t, "app.go", code)
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewManager(pkgs, nil, filepath.Join(dir, "fnwrap.diff"), dir, zap.New(core))

	err := m.WrapApplication()
	require.Error(t, err)
	assert.ErrorIs(t, err, wrapper.ErrRenderFailure)
	assert.Contains(t, err.Error(), `"log"`)
	assert.Empty(t, m.Wrapped())

	got := restoreFile(t, m)
	assertParses(t, got)
	assert.Contains(t, got, "func shadow(log string) int {\n\treturn len(log)\n}")
	assert.NotContains(t, got, "log.Printf")

	failures := logs.FilterMessage("failed to wrap function").AllUntimed()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	assert.Equal(t, testModule+".shadow", fields["function"])
	assert.Contains(t, fields["source"], "func shadow(log string) int {")
}

func TestWrapApplicationKeepsBodyComments(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

//fnwrap:pre println("start")
func answer() int { // always the same
	return 42
}

//fnwrap:pre println("idle")
func idle() { // nothing to do
}

func main() {
	answer()
	idle()
}
`
	m, _ := testManager(t, code, nil)
	require.NoError(t, m.WrapApplication())
	assert.ElementsMatch(t, []string{testModule + ".answer", testModule + ".idle"}, m.Wrapped())

	got := restoreFile(t, m)
	assertParses(t, got)
	assert.Contains(t, got, "// always the same")
	assert.Contains(t, got, "// nothing to do")
	assert.Contains(t, got, `println("start")`)
	assert.Contains(t, got, `println("idle")`)
}

func TestWriteDiff(t *testing.T) {
	defer panicRecovery(t)
	m, dir := testManager(t, directiveApp, nil)

	require.NoError(t, m.CreateDiffFile())
	require.NoError(t, m.WrapApplication())
	require.NoError(t, m.WriteDiff())

	diff, err := os.ReadFile(filepath.Join(dir, "fnwrap.diff"))
	require.NoError(t, err)
	assert.Contains(t, string(diff), "app.go")
	assert.Contains(t, string(diff), "+\twrapper := func() int {")
	assert.Contains(t, string(diff), "+\treturn result")
}

func TestWriteDiffNoChanges(t *testing.T) {
	defer panicRecovery(t)
	m, dir := testManager(t, "package main\n\nfunc main() {}\n", nil)

	require.NoError(t, m.CreateDiffFile())
	require.NoError(t, m.WrapApplication())
	require.NoError(t, m.WriteDiff())

	diff, err := os.ReadFile(filepath.Join(dir, "fnwrap.diff"))
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestClassify(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

type Buffer []byte

func fill(dst Buffer, n int, opts map[string]bool, done chan struct{}, rest ...string) {}

func main() {}
`
	m, _ := testManager(t, code, nil)

	found := m.Classify("fill")
	require.Contains(t, found, testModule+".fill")

	got := found[testModule+".fill"]
	require.Len(t, got, 5)
	modes := []params.PassMode{}
	for _, p := range got {
		modes = append(modes, p.Mode)
	}
	assert.Equal(t, []params.PassMode{
		params.ByMutableReference, // named slice type, resolved through type information
		params.ByValue,
		params.ByMutableReference,
		params.ByReference,
		params.ByMutableReference,
	}, modes)
	assert.True(t, got[4].Variadic)
	assert.Equal(t, "[]string", got[4].Resolved.String())
}

func TestWrapFunctionSingle(t *testing.T) {
	defer panicRecovery(t)
	m, _ := testManager(t, directiveApp, nil)

	pkg, file, decl := findDecl(t, m, "main")
	changed, err := m.WrapFunction(pkg, file, decl)
	require.NoError(t, err)
	assert.False(t, changed)

	pkg, file, decl = findDecl(t, m, "add")
	changed, err = m.WrapFunction(pkg, file, decl)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, decl.Body.List, 5)
}

func TestWrapFunctionWithoutCode(t *testing.T) {
	defer panicRecovery(t)
	code := `package main

//fnwrap:wrapper inner
func idle() {}

func main() { idle() }
`
	m, dir := testManager(t, code, nil)

	core, logs := observer.New(zapcore.InfoLevel)
	comment.EnableConsolePrinter(dir, zap.New(core))
	defer comment.DisableConsolePrinter()

	require.NoError(t, m.WrapApplication())
	assert.Empty(t, m.Wrapped())

	comment.WriteAll()
	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "idle has fnwrap directives but no code to insert")
}
