package pkgutil

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// LoadConfig selects how packages are found. A non-empty ModulePath loads
// in module-aware mode from that directory; otherwise packages are resolved
// in GOPATH mode against GoPath. IncludeTests adds the test files of the
// loaded packages.
type LoadConfig struct {
	GoPath, ModulePath string
	IncludeTests       bool
}

// loadMode requests everything needed to build SSA for the packages and
// their dependencies.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes | packages.NeedTypesSizes |
	packages.NeedSyntax | packages.NeedTypesInfo

// ErrLoad is returned when the go tool reports errors for loaded packages.
var ErrLoad = errors.New("errors encountered while loading packages")

// workDir anchors the file names recorded in positions.
var workDir, _ = os.Getwd()

// parseRelative records file names relative to the working directory, so
// printed positions do not depend on where the repository is checked out.
func parseRelative(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if rel, err := filepath.Rel(workDir, filename); err == nil {
		filename = rel
	}
	return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
}

// packagesConfig translates the load configuration for the go tool.
func (cfg LoadConfig) packagesConfig() (*packages.Config, error) {
	gopath, err := filepath.Abs(cfg.GoPath)
	if err != nil {
		return nil, err
	}

	config := &packages.Config{
		Mode:      loadMode,
		Tests:     cfg.IncludeTests,
		ParseFile: parseRelative,
		Env:       append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=off"),
	}
	if cfg.ModulePath == "" {
		return config, nil
	}

	dir, err := filepath.Abs(cfg.ModulePath)
	if err != nil {
		return nil, err
	}
	mod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", cfg.ModulePath, err)
	}
	if modfile.ModulePath(mod) == "" {
		return nil, fmt.Errorf("module %s: go.mod has no module directive", cfg.ModulePath)
	}

	config.Dir = dir
	config.Env = append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=on")
	return config, nil
}

// LoadPackages loads the packages matching the query.
func LoadPackages(cfg LoadConfig, query string) ([]*packages.Package, error) {
	config, err := cfg.packagesConfig()
	if err != nil {
		return nil, err
	}
	return load(config, query)
}

// LoadPackagesFromSource loads a single main package from source text. The
// file only exists in an overlay, so nothing is written to disk.
func LoadPackagesFromSource(source string) ([]*packages.Package, error) {
	const file = "/fake/testpackage/main.go"
	return load(&packages.Config{
		Mode:    loadMode,
		Env:     append(os.Environ(), "GO111MODULE=off", "GOPATH=/fake"),
		Overlay: map[string][]byte{file: []byte(source)},
	}, file)
}

func load(config *packages.Config, query string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(config, query)
	if err != nil {
		return nil, err
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, ErrLoad
	}
	if config.Tests {
		pkgs = withoutTestVariants(pkgs)
	}
	return pkgs, nil
}

// withoutTestVariants drops a package when its variant compiled with test
// files was loaded as well, so every function is built into SSA only once.
func withoutTestVariants(pkgs []*packages.Package) []*packages.Package {
	ids := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		ids[pkg.ID] = true
	}

	res := pkgs[:0:0]
	for _, pkg := range pkgs {
		if !ids[fmt.Sprintf("%s [%s.test]", pkg.ID, pkg.ID)] {
			res = append(res, pkg)
		}
	}
	return res
}
