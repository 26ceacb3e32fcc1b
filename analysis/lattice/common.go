package lattice

import (
	"github.com/fatih/color"

	"github.com/cs-au-dk/gocpa/utils"
)

var colorize = struct {
	Lattice func(...interface{}) string
	Element func(...interface{}) string
}{
	Lattice: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
}
