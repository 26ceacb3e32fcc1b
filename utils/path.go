package utils

import "flag"

// MakePath returns the target package: the first non-flag argument.
// If no package is provided, it defaults to "reach/unguarded-panic".
func MakePath() string {
	if args := flag.Args(); len(args) >= 1 {
		return args[0]
	}
	return "reach/unguarded-panic"
}
