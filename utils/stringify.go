package utils

import (
	"strconv"

	"github.com/fatih/color"

	"golang.org/x/tools/go/ssa"
)

func painter(attrs ...color.Attribute) func(...interface{}) string {
	return func(is ...interface{}) string {
		return CanColorize(color.New(attrs...).SprintFunc())(is...)
	}
}

var (
	pkgColor  = painter(color.FgBlue)
	funColor  = painter(color.FgHiYellow)
	blkColor  = painter(color.FgHiCyan)
	nameColor = painter(color.FgHiGreen)
	insColor  = painter(color.FgHiWhite, color.Faint)
)

// SSAPkgString prints the import path of a package.
func SSAPkgString(pkg *ssa.Package) string {
	if pkg == nil {
		return pkgColor("<no package>")
	}
	return pkgColor(pkg.Pkg.Path())
}

func SSAFunString(fun *ssa.Function) string {
	if fun == nil {
		return funColor("<no function>")
	}
	return funColor(fun.String())
}

// SSABlockString identifies a block by the name of its function and its index.
func SSABlockString(blk *ssa.BasicBlock) string {
	if blk == nil {
		return blkColor("<no block>")
	}
	return funColor(blk.Parent().Name()) + ":" + blkColor(strconv.Itoa(blk.Index))
}

// SSAInsString prints an instruction, prefixed by the register it defines.
func SSAInsString(ins ssa.Instruction) string {
	if v, ok := ins.(ssa.Value); ok {
		return nameColor(v.Name()) + " = " + insColor(ins.String())
	}
	return insColor(ins.String())
}
