package utils

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"
)

type options struct {
	minlen       uint
	nodesep      float64
	function     string
	outputFormat string
	gopath       string
	modulePath   string
	task         string
	waitlist     string
	configPath   string
	metricsAddr  string
	timeout      time.Duration
	stopAtTarget bool
	logai        bool
	metrics      bool
	noColorize   bool
	httpDebug    bool
	verbose      bool
	includeTests bool
	visualize    bool
}

const (
	_REACH = iota
	_CFA_TO_DOT
	_POSITION
)

const (
	_WAITLIST_DFS = iota
	_WAITLIST_BFS
	_WAITLIST_TOPOLOGICAL
)

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"reach",
	"Run the reachability engine with the location analysis on the selected function and report whether an error location is reachable",
}, {
	"cfa-to-dot",
	"Create a graph for the control-flow automaton of the selected function",
}, {
	"positions",
	"Print the CFA nodes of the selected function, and the position of each instruction",
}}

var waitlists = []struct{ flag, explanation string }{{
	"dfs",
	"Depth-first exploration: the most recently added state is processed first",
}, {
	"bfs",
	"Breadth-first exploration: states are processed in the order they were added",
}, {
	"topological",
	"States are processed in topological order of the strongly connected components of the CFA",
}}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

type waitlistInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}
func (optInterface) Minlen() uint {
	return opts.minlen
}
func (optInterface) Nodesep() float64 {
	return opts.nodesep
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) GoPath() string {
	return opts.gopath
}
func (optInterface) ModulePath() string {
	return opts.modulePath
}
func (optInterface) LogAI() bool {
	return opts.logai
}
func (optInterface) ConfigPath() string {
	return opts.configPath
}
func (optInterface) MetricsAddr() string {
	return opts.metricsAddr
}
func (optInterface) Timeout() time.Duration {
	return opts.timeout
}
func (optInterface) StopAtTarget() bool {
	return opts.stopAtTarget
}
func (optInterface) Waitlist() waitlistInterface {
	return waitlistInterface{}
}
func (waitlistInterface) DFS() bool {
	return opts.waitlist == waitlists[_WAITLIST_DFS].flag
}
func (waitlistInterface) BFS() bool {
	return opts.waitlist == waitlists[_WAITLIST_BFS].flag
}
func (waitlistInterface) Topological() bool {
	return opts.waitlist == waitlists[_WAITLIST_TOPOLOGICAL].flag
}
func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) IsReach() bool {
	return opts.task == task[_REACH].flag
}
func (taskInterface) IsCfaToDot() bool {
	return opts.task == task[_CFA_TO_DOT].flag
}
func (taskInterface) IsPosition() bool {
	return opts.task == task[_POSITION].flag
}
func (optInterface) Metrics() bool {
	return opts.metrics
}
func (optInterface) HttpDebug() bool {
	return opts.httpDebug
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) IncludeTests() bool {
	return opts.includeTests
}
func (optInterface) Visualize() bool {
	return opts.visualize
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"
	waitlistFlag := "\n"
	for _, w := range waitlists {
		waitlistFlag += w.flag + " -- " + w.explanation + "\n"
	}
	waitlistFlag += "\n"

	flag.UintVar(&(opts.minlen), "minlen", 2, "Minimum edge length (for wider output).")
	flag.Float64Var(&(opts.nodesep), "nodesep", 0.35, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	flag.StringVar(&(opts.function), "fun", "main", "target a specific function w. r. t. the given task.\n"+
		"- Function names need not be fully qualified w.r.t. package name. If a simple name is provided, "+
		"the framework will search for a function matching that name in the main package. If one is not found, "+
		"it will proceed to do a search across all packages. Will return the first function matching that name.\n")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format [svg | png | jpg | ...]")
	flag.StringVar(&(opts.gopath), "gopath", "examples", "specify GOPATH to be used for packages.Load")
	flag.StringVar(&(opts.modulePath), "modulepath", "", `specify a path to a directory containing a Go module.
- If provided this will make our code loading tools (that piggyback on Go's tools) run
in "module-aware" mode (GO111MODULE=on).`)
	flag.StringVar(&(opts.task), "task", task[_REACH].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.StringVar(&(opts.waitlist), "waitlist", waitlists[_WAITLIST_DFS].flag, "Set the exploration order of the reachability engine. Options:"+waitlistFlag)
	flag.StringVar(&(opts.configPath), "config", "", "read default option values from a YAML file; flags given on the command line take precedence")
	flag.StringVar(&(opts.metricsAddr), "metrics-addr", "", "serve engine statistics in Prometheus format on the given address (e.g. localhost:9090)")
	flag.DurationVar(&(opts.timeout), "timeout", 0, "abort the analysis after the given duration (0 disables the limit)")
	flag.BoolVar(&(opts.stopAtTarget), "stop-at-target", true, "stop exploration as soon as an error location is reached")
	flag.BoolVar(&(opts.logai), "ai-logging", false, "Enable logging of specific events during the reachability analysis")
	flag.BoolVar(&(opts.metrics), "metrics", false, "Print engine statistics after the analysis")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
	flag.BoolVar(&(opts.includeTests), "include-tests", false, "include main package test files in the analysis.")
	flag.BoolVar(&(opts.visualize), "visualize", false, "enable visualization via XDot")
	flag.BoolVar(&(opts.httpDebug), "http-debug", false, "Start an http/pprof server for debugging")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	// See https://stackoverflow.com/questions/60235896/flag-provided-but-not-defined-test-v
	flag.Parse()

	if opts.configPath != "" {
		cfg, err := LoadConfig(opts.configPath)
		if err != nil {
			log.Fatalf("Failed to read -config %s: %v", opts.configPath, err)
		}

		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})
		cfg.apply(explicit)
	}

	validate()
}

// validate checks that enumerated options carry a known value.
func validate() {
	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}

	if !validTask {
		log.Fatalf("Value \"%s\" is not valid for -task", opts.task)
	}

	validWaitlist := false
	for _, w := range waitlists {
		if w.flag == opts.waitlist {
			validWaitlist = true
			break
		}
	}

	if !validWaitlist {
		log.Fatalf("Value \"%s\" is not valid for -waitlist", opts.waitlist)
	}

	if Opts().Task().IsCfaToDot() {
		opts.noColorize = true
	}
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}

// Verbosef prints to standard output only in verbose mode.
func (o optInterface) Verbosef(format string, args ...any) {
	o.OnVerbose(func() { fmt.Printf(format, args...) })
}

// Elapsed logs how long the named phase took since start. Use it as
// `defer utils.Elapsed("phase", time.Now())`, or call it directly.
func Elapsed(phase string, start time.Time) {
	log.Printf("%s took %s", phase, time.Since(start))
}
