package pkgutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// ErrFunctionNotFound is returned by FindFunction if no function matches.
var ErrFunctionNotFound = errors.New("function not found")

// BuildSSA constructs the SSA representation of the loaded packages and
// returns the program together with its main packages.
func BuildSSA(pkgs []*packages.Package) (*ssa.Program, []*ssa.Package, error) {
	prog, spkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	for i, spkg := range spkgs {
		if spkg == nil {
			return nil, nil, fmt.Errorf("package %s is ill-typed", pkgs[i].PkgPath)
		}
	}
	prog.Build()

	return prog, ssautil.MainPackages(prog.AllPackages()), nil
}

func isTestMain(pkg *ssa.Package) bool {
	return strings.HasSuffix(pkg.Pkg.Path(), ".test")
}

// mainPackage picks the main package with the most members, skipping the
// generated test mains. It is nil if there are only test mains.
func mainPackage(mains []*ssa.Package) (main *ssa.Package) {
	for _, pkg := range mains {
		if !isTestMain(pkg) && (main == nil || len(pkg.Members) > len(main.Members)) {
			main = pkg
		}
	}
	return
}

// inGoroot checks whether a function belongs to a package of the standard
// library.
func inGoroot(fun *ssa.Function) bool {
	if fun.Pkg == nil {
		return false
	}
	fi, err := os.Stat(filepath.Join(runtime.GOROOT(), "src", fun.Pkg.Pkg.Path()))
	return err == nil && fi.IsDir()
}

// userPackages lists the packages of the program except test mains.
func userPackages(prog *ssa.Program) (res []*ssa.Package) {
	for _, pkg := range prog.AllPackages() {
		if !isTestMain(pkg) {
			res = append(res, pkg)
		}
	}
	return
}

// FindFunction looks up a function by name. Names need not be fully
// qualified: a simple name is first looked up in the main package, after
// which every function outside GOROOT whose name or qualified name ends
// with the given name is a candidate. Functions in local packages take
// precedence, and ties are broken by the qualified name.
func FindFunction(prog *ssa.Program, mains []*ssa.Package, name string) (*ssa.Function, error) {
	if main := mainPackage(mains); main != nil {
		if fun := main.Func(name); fun != nil {
			return fun, nil
		}
	}

	local, _ := GetLocalPackages(mains, userPackages(prog))

	var candidates []*ssa.Function
	for fun := range ssautil.AllFunctions(prog) {
		if fun.Synthetic != "" || len(fun.Blocks) == 0 {
			continue
		}
		if fun.Name() != name && !strings.HasSuffix(fun.String(), name) {
			continue
		}
		if !inGoroot(fun) {
			candidates = append(candidates, fun)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	sort.Slice(candidates, func(i, j int) bool {
		li, lj := local.IsLocal(candidates[i]), local.IsLocal(candidates[j])
		if li != lj {
			return li
		}
		return candidates[i].String() < candidates[j].String()
	})

	return candidates[0], nil
}
