// Command solc type checks a Sol package and prints its diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sanity-io/litter"

	"github.com/aripiprazole/saph/config"
	"github.com/aripiprazole/saph/db"
	"github.com/aripiprazole/saph/diagnostic"
	"github.com/aripiprazole/saph/thir"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("solc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dir := flags.String("C", ".", "package directory")
	cfgName := flags.String("config", config.FileName, "configuration file, relative to the package directory")
	trace := flags.Bool("trace", false, "log every elaboration step")
	jobs := flags.Int("j", 0, "declarations elaborated in parallel (0 uses the configuration)")
	color := flags.String("color", "", "color diagnostics: auto, always or never")
	dump := flags.String("dump", "", "print the lowered files (hir) or the elaborated declarations (thir)")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintln(stderr, "usage: solc [options]")
		flags.PrintDefaults()
		return 2
	}

	fsys := os.DirFS(*dir)
	cfg, err := config.Load(fsys, *cfgName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *trace {
		cfg.Trace = true
	}
	if *jobs > 0 {
		cfg.Parallelism = *jobs
	}
	if *color != "" {
		cfg.Color = *color
	}

	pkg, err := db.NewPackage(cfg.Package.Name, cfg.Package.Version, cfg.Package.Source)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	level := slog.LevelWarn
	if cfg.Trace {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var sink diagnostic.Collector
	database := db.New(pkg, fsys, db.Options{Config: cfg, Sink: &sink, Logger: logger})
	results, err := database.ElaborateAll(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch *dump {
	case "":
	case "hir":
		files, err := database.LowerAll()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		dumper := litter.Options{HidePrivateFields: true, HideZeroValues: true}
		for _, f := range files {
			fmt.Fprintln(stdout, dumper.Sdump(f))
		}
	case "thir":
		for _, r := range results {
			fmt.Fprintf(stdout, "%s : %s\n", r.Def.Path, thir.Show(r.Type, nil))
			fmt.Fprintf(stdout, "%s = %s\n", r.Def.Path, thir.Show(r.Term, nil))
		}
	default:
		fmt.Fprintf(stderr, "unknown -dump %q\n", *dump)
		return 2
	}

	useColor := false
	if f, ok := stderr.(*os.File); ok {
		useColor = diagnostic.UseColor(diagnostic.ColorMode(cfg.Color), f)
	}
	p := diagnostic.Printer{Color: useColor, Max: cfg.MaxErrors}
	if err := p.Fprint(stderr, sink.Diagnostics()); err != nil {
		return 1
	}
	if sink.Errors() > 0 {
		return 1
	}
	return 0
}
