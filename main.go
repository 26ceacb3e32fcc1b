package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/cs-au-dk/gocpa/pkgutil"
	"github.com/cs-au-dk/gocpa/utils"

	"net/http"
	_ "net/http/pprof"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	os.Exit(run())
}

func run() int {
	utils.ParseArgs()
	path := utils.MakePath()

	if opts.HttpDebug() {
		go func() {
			log.Println(http.ListenAndServe("localhost:6060", nil))
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if timeout := opts.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{
		GoPath:       opts.GoPath(),
		ModulePath:   opts.ModulePath(),
		IncludeTests: opts.IncludeTests(),
	}, path)
	if err != nil {
		log.Println("Failed pkgutil.LoadPackages")
		log.Println(err)
		return 1
	}

	p, err := newPipeline(pkgs, opts.Function())
	if err != nil {
		log.Println(err)
		return 1
	}

	switch {
	case task.IsReach():
		res, err := p.reach(ctx)
		if err != nil {
			log.Println(err)
			return 1
		}
		res.report(os.Stdout)
		if opts.Metrics() {
			res.stats.Print(os.Stdout)
		}
	case task.IsCfaToDot():
		res, err := p.reach(ctx)
		if err != nil {
			log.Println(err)
			return 1
		}
		if err := p.cfaToDot(res); err != nil {
			log.Println(err)
			return 1
		}
	case task.IsPosition():
		p.positions(os.Stdout)
	}

	return 0
}
