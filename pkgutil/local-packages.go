package pkgutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cs-au-dk/gocpa/utils"

	"golang.org/x/tools/go/ssa"
)

var opts = utils.Opts()

// ErrNoMainPackage is returned when local packages are requested for a
// program without main packages.
var ErrNoMainPackage = errors.New("no main packages found")

// localPrefix is the number of leading path segments a package must share
// with the main package to count as local.
const localPrefix = 3

// LocalPackages is the set of packages that share a path prefix of up to
// three segments with the main package.
type LocalPackages map[*ssa.Package]bool

// pathSegments splits an import path, ignoring a vendor directory and
// the suffix of test mains.
func pathSegments(pkg *ssa.Package) []string {
	segs := strings.Split(strings.TrimSuffix(pkg.Pkg.Path(), ".test"), "/")
	if segs[0] == "vendor" {
		return segs[1:]
	}
	return segs
}

func sharesPrefix(a, b []string) bool {
	for i := 0; i < localPrefix && i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetLocalPackages computes the local packages among pkgs.
func GetLocalPackages(mains []*ssa.Package, pkgs []*ssa.Package) (LocalPackages, error) {
	if len(mains) == 0 {
		return nil, fmt.Errorf("gathering local packages: %w", ErrNoMainPackage)
	}

	main := mainPackage(mains)
	if main == nil {
		main = mains[0]
	}
	anchor := pathSegments(main)

	local := make(LocalPackages)
	for _, pkg := range pkgs {
		if sharesPrefix(anchor, pathSegments(pkg)) {
			local[pkg] = true
		}
	}

	opts.OnVerbose(func() {
		fmt.Println("Main packages:")
		for _, pkg := range mains {
			fmt.Println(utils.SSAPkgString(pkg))
		}
		fmt.Println("Local packages:")
		for pkg := range local {
			fmt.Println(utils.SSAPkgString(pkg))
		}
	})

	return local, nil
}

// IsLocal checks whether a function is declared in a local package.
func (local LocalPackages) IsLocal(fun *ssa.Function) bool {
	if fun == nil {
		return false
	}
	if pkg := fun.Package(); pkg != nil {
		return local[pkg]
	}
	// Closures and instantiations belong to the package of their origin.
	if parent := fun.Parent(); parent != nil {
		return local.IsLocal(parent)
	}
	return local.IsLocal(fun.Origin())
}
