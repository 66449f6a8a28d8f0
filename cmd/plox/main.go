package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"

	"plox/internal"
)

const (
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
	exitIO      = 74
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("plox", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file (default $HOME/"+defaultConfigName+")")
	logLevel := flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	noColor := flags.Bool("no-color", false, "disable coloured diagnostics")
	dumpTokens := flags.Bool("tokens", false, "print the tokens of the script instead of running it")
	dumpAST := flags.String("ast", "", "print the syntax tree of the script instead of running it: tree or rpn")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: plox [flags] [script]")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return exitUsage
	}
	if flags.NArg() == 0 && (*dumpTokens || *dumpAST != "") {
		fmt.Fprintln(stderr, "-tokens and -ast need a script")
		flags.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Cannot load config: %v\n", err)
		return exitUsage
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noColor {
		cfg.Color = false
	}

	log, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid log level: %v\n", err)
		return exitUsage
	}

	interp := internal.NewInterpreter(
		internal.WithPrinter(writerPrinter{w: stdout}),
		internal.WithReporter(newConsoleReporter(stderr, cfg.Color)),
		internal.WithLogger(log),
	)

	if flags.NArg() == 0 {
		return runPrompt(interp, cfg, log)
	}

	path := flags.Arg(0)
	b, err := ioutil.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Error("cannot read script")
		return exitIO
	}
	source := string(b)

	switch {
	case *dumpTokens:
		tokens, err := interp.Tokens(source)
		for i := range tokens {
			fmt.Fprintln(stdout, tokens[i].String())
		}
		return exitCode(err)
	case *dumpAST != "":
		format := internal.FormatTree
		switch *dumpAST {
		case "tree":
		case "rpn":
			format = internal.FormatRPN
		default:
			fmt.Fprintf(stderr, "Unknown -ast format %q\n", *dumpAST)
			return exitUsage
		}
		lines, err := interp.PrintAST(source, format)
		for _, l := range lines {
			fmt.Fprintln(stdout, l)
		}
		return exitCode(err)
	}

	log.WithField("file", path).Debug("running script")
	return exitCode(interp.Run(source))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, internal.ErrCompile):
		return exitCompile
	}
	return exitRuntime
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(lvl)
	return logger, nil
}
