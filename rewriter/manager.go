package rewriter

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/gopackages"
	"github.com/fnwrap/fnwrap/internal/codegen"
	"github.com/fnwrap/fnwrap/internal/comment"
	"github.com/fnwrap/fnwrap/internal/config"
	"github.com/fnwrap/fnwrap/internal/util"
	"github.com/fnwrap/fnwrap/params"
	"github.com/fnwrap/fnwrap/wrapper"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
	"go.uber.org/zap"
)

// Manager rewrites the functions of a set of loaded packages.
type Manager struct {
	cfg         *config.Config
	logger      *zap.Logger
	userAppPath string // path to the user's application as provided by the user
	diffFile    string
	packages    map[string]*PackageState // stores state on packages by ID
	wrapped     []string
}

// PackageState contains the state of rewriting a single package.
type PackageState struct {
	pkg      *decorator.Package  // the package being rewritten
	modified map[*dst.File]bool // files with at least one rewritten function
}

// NewManager creates a Manager for the given packages. A nil config uses the defaults, and a nil logger discards output.
func NewManager(pkgs []*decorator.Package, cfg *config.Config, diffFile, userAppPath string, logger *zap.Logger) *Manager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	manager := &Manager{
		cfg:         cfg,
		logger:      logger,
		userAppPath: userAppPath,
		diffFile:    diffFile,
		packages:    map[string]*PackageState{},
	}

	for _, pkg := range pkgs {
		manager.packages[pkg.ID] = &PackageState{
			pkg:      pkg,
			modified: map[*dst.File]bool{},
		}
	}

	return manager
}

// CreateDiffFile creates or truncates the diff file.
func (m *Manager) CreateDiffFile() error {
	f, err := os.Create(m.diffFile)
	if err != nil {
		return err
	}
	return f.Close()
}

// Wrapped returns the names of the functions that have been rewritten, qualified by package path.
func (m *Manager) Wrapped() []string {
	return m.wrapped
}

// WrapApplication rewrites every function that carries fnwrap directives or matches a configured rule.
// The rewritten functions only exist in the syntax trees held by the Manager until WriteDiff is called.
// A function that fails to rewrite is left unchanged; all failures are returned together.
func (m *Manager) WrapApplication() error {
	var errs []error

	for _, id := range slices.Sorted(maps.Keys(m.packages)) {
		state := m.packages[id]
		for _, file := range state.pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*dst.FuncDecl)
				if !ok {
					continue
				}
				changed, err := m.WrapFunction(state.pkg, file, fn)
				if err != nil {
					errs = append(errs, m.positioned(state.pkg, fn, err))
					continue
				}
				if changed {
					state.modified[file] = true
				}
			}
		}
	}

	m.logger.Debug("wrapped functions", zap.Int("count", len(m.wrapped)), zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}

// WrapFunction rewrites a single function declaration of a file in pkg. It returns false if
// the function has no directives and matches no rule.
func (m *Manager) WrapFunction(pkg *decorator.Package, file *dst.File, decl *dst.FuncDecl) (bool, error) {
	directives, found, err := ParseDirectives(decl.Decs.Start.All())
	if err != nil {
		return false, err
	}

	function, err := wrapper.FromDecl(decl)
	if err != nil {
		return false, err
	}

	rules := m.cfg.Matching(pkg.PkgPath, function.Name())
	if (!found || directives.Empty()) && len(rules) == 0 {
		if found {
			comment.Console(pkg, decl, comment.WarnHeader, function.Name()+" has fnwrap directives but no code to insert")
		}
		return false, nil
	}

	w := wrapper.New(function)
	w.SetWrapperIdent(m.cfg.Wrapper)
	w.SetResultIdent(m.cfg.Result)
	trace := directives.Trace
	for _, rule := range rules {
		if rule.Wrapper != "" {
			w.SetWrapperIdent(rule.Wrapper)
		}
		if rule.Result != "" {
			w.SetResultIdent(rule.Result)
		}
		trace = trace || rule.Trace
	}
	if directives.Wrapper != "" {
		w.SetWrapperIdent(directives.Wrapper)
	}
	if directives.Result != "" {
		w.SetResultIdent(directives.Result)
	}

	pre, post, err := m.fragments(pkg, file, w, rules, directives, trace)
	if err != nil {
		return false, err
	}
	w.SetPreCode(pre...)
	w.SetPostCode(post...)

	name := pkg.PkgPath + "." + function.Name()
	if _, err := w.Render(); err != nil {
		m.logger.Debug("failed to wrap function", zap.String("function", name), zap.String("source", util.PrintNode(pkg, decl)), zap.Error(err))
		return false, err
	}

	m.wrapped = append(m.wrapped, name)
	m.logger.Debug("wrapped function", zap.String("function", name), zap.Int("pre", len(pre)), zap.Int("post", len(post)))

	message := fmt.Sprintf("%s wrapped with %s", function.Name(), describe(len(pre) > 0, len(post) > 0))
	if m.cfg.Annotate {
		comment.Info(pkg, decl, message)
	} else {
		comment.Console(pkg, decl, comment.InfoHeader, message)
	}
	return true, nil
}

// fragments collects the pre and post code for a function. Traces come first in the pre code
// and last in the post code; rule code comes before directive code.
func (m *Manager) fragments(pkg *decorator.Package, file *dst.File, w *wrapper.WrappedFunc, rules []config.Rule, directives Directives, trace bool) ([]dst.Stmt, []dst.Stmt, error) {
	pre := []dst.Stmt{}
	post := []dst.Stmt{}
	name := w.Function().Name()

	if trace {
		pre = append(pre, codegen.LogParameters(name, traceArgs(pkg, w.Function().Decl())))
	}

	for _, rule := range rules {
		imports := append(fileImports(file), ruleImports(rule.Imports)...)
		stmts, err := wrapper.ParseFragment(rule.Pre, imports...)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %q pre: %w", rule.Match, err)
		}
		pre = append(pre, stmts...)

		stmts, err = wrapper.ParseFragment(rule.Post, imports...)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %q post: %w", rule.Match, err)
		}
		post = append(post, stmts...)
	}

	imports := fileImports(file)
	for _, src := range directives.Pre {
		stmts, err := wrapper.ParseFragment(src, imports...)
		if err != nil {
			return nil, nil, fmt.Errorf("%s%s %s: %w", DirectivePrefix, directivePre, src, err)
		}
		pre = append(pre, stmts...)
	}
	for _, src := range directives.Post {
		stmts, err := wrapper.ParseFragment(src, imports...)
		if err != nil {
			return nil, nil, fmt.Errorf("%s%s %s: %w", DirectivePrefix, directivePost, src, err)
		}
		post = append(post, stmts...)
	}

	if trace {
		post = append(post, codegen.LogResults(name, w.ResultIdents()))
	}

	return pre, post, nil
}

// traceArgs lists the named parameters of a function. Parameters that the function can modify
// for its caller are printed as pointers.
func traceArgs(pkg *decorator.Package, decl *dst.FuncDecl) []codegen.TraceArg {
	args := []codegen.TraceArg{}
	for _, p := range params.Classify(decl, params.PackageResolver{Pkg: pkg}) {
		if !p.Bound() {
			continue
		}
		verb := codegen.ValueVerb
		if p.Mode == params.ByMutableReference && !p.Variadic {
			verb = codegen.PointerVerb
		}
		args = append(args, codegen.TraceArg{Name: p.Name, Verb: verb})
	}
	return args
}

// Classify returns the classified parameters of every function with the given name, keyed by package path.
func (m *Manager) Classify(funcName string) map[string][]params.Parameter {
	found := map[string][]params.Parameter{}
	for _, state := range m.packages {
		for _, file := range state.pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*dst.FuncDecl)
				if !ok {
					continue
				}
				function, err := wrapper.FromDecl(fn)
				if err != nil || function.Name() != funcName {
					continue
				}
				key := state.pkg.PkgPath + "." + funcName
				found[key] = params.Classify(fn, params.PackageResolver{Pkg: state.pkg})
			}
		}
	}
	return found
}

// WriteDiff writes the changes made to every modified file to the diff file.
func (m *Manager) WriteDiff() error {
	absAppPath, err := filepath.Abs(m.userAppPath)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(m.diffFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	files := 0
	for _, id := range slices.Sorted(maps.Keys(m.packages)) {
		state := m.packages[id]
		r := decorator.NewRestorerWithImports(state.pkg.PkgPath, gopackages.New(state.pkg.Dir))

		for _, file := range state.pkg.Syntax {
			if !state.modified[file] {
				continue
			}

			path := state.pkg.Decorator.Filenames[file]
			originalFile, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			// what this file will be named in the diff file
			diffFileName, err := filepath.Rel(absAppPath, path)
			if err != nil {
				return err
			}

			modifiedFile := bytes.NewBuffer([]byte{})
			if err := r.Fprint(modifiedFile, file); err != nil {
				return fmt.Errorf("failed to print %s: %w", diffFileName, err)
			}

			patch := godiffpatch.GeneratePatch(diffFileName, string(originalFile), modifiedFile.String())
			if _, err := f.WriteString(patch); err != nil {
				return err
			}
			files++
		}
	}

	m.logger.Info("changes written", zap.String("diff", m.diffFile), zap.Int("files", files))
	return nil
}

func (m *Manager) positioned(pkg *decorator.Package, decl *dst.FuncDecl, err error) error {
	pos := util.Position(decl, pkg)
	if pos == nil || !pos.IsValid() {
		return fmt.Errorf("%s.%s: %w", pkg.PkgPath, decl.Name.Name, err)
	}
	return fmt.Errorf("%s: %s: %w", pos, decl.Name.Name, err)
}

// fileImports returns the imports of a file that fragments can refer to.
func fileImports(file *dst.File) []wrapper.Import {
	imports := []wrapper.Import{}
	if file == nil {
		return imports
	}
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := wrapper.Import{Path: path}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}

func ruleImports(paths []string) []wrapper.Import {
	imports := make([]wrapper.Import, 0, len(paths))
	for _, path := range paths {
		name, importPath, aliased := strings.Cut(path, " ")
		if aliased {
			imports = append(imports, wrapper.Import{Name: name, Path: strings.TrimSpace(importPath)})
			continue
		}
		imports = append(imports, wrapper.Import{Path: path})
	}
	return imports
}

func describe(pre, post bool) string {
	switch {
	case pre && post:
		return "pre and post code"
	case pre:
		return "pre code"
	case post:
		return "post code"
	default:
		return "no code"
	}
}
