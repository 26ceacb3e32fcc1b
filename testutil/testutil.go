package testutil

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/cs-au-dk/gocpa/pkgutil"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
)

// Program is a loaded program in SSA form.
type Program struct {
	Prog  *ssa.Program
	Mains []*ssa.Package
}

// Func looks up a function of the program, failing the test if it is missing.
func (p Program) Func(t *testing.T, name string) *ssa.Function {
	t.Helper()
	fun, err := pkgutil.FindFunction(p.Prog, p.Mains, name)
	if err != nil {
		t.Fatal(err)
	}
	return fun
}

func build(t *testing.T, pkgs []*packages.Package) (p Program) {
	t.Helper()
	var err error
	if p.Prog, p.Mains, err = pkgutil.BuildSSA(pkgs); err != nil {
		t.Fatal(err)
	}
	return
}

// LoadExamplePackage loads the package examples/src/<pkg> found below root.
// Single-file packages without imports are type checked in process.
func LoadExamplePackage(t *testing.T, root string, pkg string) Program {
	t.Helper()
	gopath := filepath.Join(root, "examples")

	if src, err := os.ReadFile(filepath.Join(gopath, "src", pkg, "main.go")); err == nil {
		if entries, _ := os.ReadDir(filepath.Join(gopath, "src", pkg)); len(entries) == 1 {
			if pkgs := checkStandalone(t, pkg, string(src)); pkgs != nil {
				return build(t, pkgs)
			}
		}
	}

	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{GoPath: gopath}, pkg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pkgs) != 1 {
		t.Fatalf("%s loaded as %d packages", pkg, len(pkgs))
	}
	return build(t, pkgs)
}

// LoadPackageFromSource loads a main package from source code.
func LoadPackageFromSource(t *testing.T, importPath string, src string) Program {
	t.Helper()
	if pkgs := checkStandalone(t, importPath, src); pkgs != nil {
		return build(t, pkgs)
	}

	// Imports need the go tool to resolve dependencies.
	pkgs, err := pkgutil.LoadPackagesFromSource(src)
	if err != nil {
		t.Fatal(err)
	}
	return build(t, pkgs)
}

// checkStandalone type checks a single file. It returns nil if the file
// has imports.
func checkStandalone(t *testing.T, importPath string, src string) []*packages.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Imports) != 0 {
		return nil
	}

	info := &types.Info{
		Types:      map[ast.Expr]types.TypeAndValue{},
		Defs:       map[*ast.Ident]types.Object{},
		Uses:       map[*ast.Ident]types.Object{},
		Implicits:  map[ast.Node]types.Object{},
		Instances:  map[*ast.Ident]types.Instance{},
		Scopes:     map[ast.Node]*types.Scope{},
		Selections: map[*ast.SelectorExpr]*types.Selection{},
	}
	files := []*ast.File{file}
	conf := &types.Config{Importer: importer.Default()}
	pkg, err := conf.Check(importPath, fset, files, info)
	if err != nil {
		t.Fatal(err)
	}

	return []*packages.Package{{
		ID:        importPath,
		Name:      pkg.Name(),
		PkgPath:   pkg.Path(),
		Types:     pkg,
		Fset:      fset,
		Syntax:    files,
		TypesInfo: info,
	}}
}
