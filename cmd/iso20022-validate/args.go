package main

import (
	"io"
	"time"

	"github.com/alecthomas/kingpin"
)

type options struct {
	documents   []string
	ruleFiles   []string
	ruleDirs    []string
	withDefault bool
	format      string
	stopOnError bool
	verbose     bool
	noColor     bool
	progress    bool
	watch       bool
	debounce    time.Duration
}

func newApp(opts *options) *kingpin.Application {
	app := kingpin.New(
		"iso20022-validate",
		"iso20022-validate checks ISO 20022 payment messages against rule sets.",
	).Version(version)

	app.HelpFlag.Short('h')
	app.VersionFlag.Short('v')

	app.Arg("documents", "The XML documents, or directories of documents, to validate. Use - to read stdin.").Required().StringsVar(&opts.documents)
	app.Flag("rules", "A rule set file (.json, .yaml, .yml). May be repeated.").Short('r').Envar("ISO20022_RULES").StringsVar(&opts.ruleFiles)
	app.Flag("rules-dir", "A directory of rule set files. May be repeated.").Short('d').Envar("ISO20022_RULES_DIR").StringsVar(&opts.ruleDirs)
	app.Flag("with-default", "Also apply the built-in rule set when rules are given.").Envar("ISO20022_WITH_DEFAULT").BoolVar(&opts.withDefault)
	app.Flag("format", "The output format.").Short('f').Default("text").Envar("ISO20022_FORMAT").EnumVar(&opts.format, "text", "json")
	app.Flag("stop-on-error", "Stop after the first document that fails validation.").BoolVar(&opts.stopOnError)
	app.Flag("verbose", "Log the outcome of every rule set to stderr.").Envar("ISO20022_VERBOSE").BoolVar(&opts.verbose)
	app.Flag("no-color", "Disable colored output.").Envar("ISO20022_NO_COLOR").BoolVar(&opts.noColor)
	app.Flag("progress", "Show progress while validating.").BoolVar(&opts.progress)
	app.Flag("watch", "Validate again whenever a document or rule file changes.").Short('w').BoolVar(&opts.watch)
	app.Flag("debounce", "How long to wait for changes to settle in watch mode.").Default("200ms").DurationVar(&opts.debounce)

	return app
}

// parseArgs parses the command line. When kingpin terminates on its own (help
// or version), the returned options are nil and code holds its exit status.
func parseArgs(args []string, stdout, stderr io.Writer) (opts *options, code int, err error) {
	opts = &options{}
	terminated := -1

	app := newApp(opts)
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	app.Terminate(func(status int) {
		if terminated < 0 {
			terminated = status
		}
	})

	_, err = app.Parse(args)
	if terminated >= 0 {
		return nil, terminated, nil
	}

	if err != nil {
		return nil, exitError, err
	}

	return opts, exitOK, nil
}
