package main

import (
	"io"

	"github.com/alecthomas/kingpin"
)

type options struct {
	testsFile string
	verbose   bool
}

func newApp(opts *options) *kingpin.Application {
	app := kingpin.New(
		"iso20022-test",
		"iso20022-test is a test runner for ISO 20022 rule sets.",
	).Version(version)

	app.HelpFlag.Short('h')
	app.VersionFlag.Short('v')
	app.HelpFlag.Hidden()

	app.Arg("tests-file", "The test specification file. Paths in it are relative to its directory.").Default("tests.yaml").ExistingFileVar(&opts.testsFile)
	app.Flag("verbose", "Log every test to stderr.").Envar("ISO20022_VERBOSE").BoolVar(&opts.verbose)

	return app
}

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

	if _, err := app.Parse(args); err != nil {
		if terminated >= 0 {
			return nil, terminated, nil
		}

		return nil, 1, err
	}

	if terminated >= 0 {
		return nil, terminated, nil
	}

	return opts, 0, nil
}
