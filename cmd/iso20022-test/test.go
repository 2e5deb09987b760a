package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sourcegraph/iso20022-validate/cmd/iso20022-test/internal/runner"
)

func test(testsFile string, logger *slog.Logger) ([]runner.Failure, error) {
	file, err := os.Open(testsFile)
	if err != nil {
		return nil, errors.Wrap(err, "open tests file")
	}
	defer file.Close()

	ctx := runner.NewRunnerContext(filepath.Dir(testsFile))
	runner := &runner.Runner{Context: ctx, Logger: logger}
	return runner.Run(file)
}
