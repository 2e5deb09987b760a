package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/sourcegraph/iso20022-validate/internal/reader"
	"github.com/sourcegraph/iso20022-validate/rules"
)

// watchSet decides which file events trigger a new validation run. Files are
// watched through their parent directory so that editors replacing a file on
// save do not drop the watch.
type watchSet struct {
	dirs  map[string]struct{}
	files map[string]struct{}
	trees map[string]struct{}
}

func newWatchSet(opts *options) (*watchSet, error) {
	s := &watchSet{
		dirs:  map[string]struct{}{},
		files: map[string]struct{}{},
		trees: map[string]struct{}{},
	}

	for _, path := range append(append([]string{}, opts.documents...), opts.ruleFiles...) {
		if path == reader.StdinPath {
			return nil, errors.New("cannot watch stdin")
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, "watch")
		}

		path = filepath.Clean(path)
		if info.IsDir() {
			s.dirs[path] = struct{}{}
			s.trees[path] = struct{}{}
			continue
		}

		s.dirs[filepath.Dir(path)] = struct{}{}
		s.files[path] = struct{}{}
	}

	for _, dir := range opts.ruleDirs {
		dir = filepath.Clean(dir)
		s.dirs[dir] = struct{}{}
		s.trees[dir] = struct{}{}
	}

	return s, nil
}

func (s *watchSet) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	if _, ok := s.files[name]; ok {
		return true
	}

	if _, ok := s.trees[filepath.Dir(name)]; !ok {
		return false
	}

	return strings.EqualFold(filepath.Ext(name), reader.Extension) || rules.IsRuleFile(name)
}

// watch validates once, then again after every settled batch of relevant file
// changes, until ctx is cancelled. It returns the exit status of the last run.
func watch(ctx context.Context, opts *options, stdout, stderr io.Writer, logger *slog.Logger) int {
	runOnce := func() int {
		code, err := run(opts, nil, stdout, stderr, logger)
		if err != nil {
			printError(stderr, err)
			return exitError
		}

		return code
	}

	set, err := newWatchSet(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", errors.Wrap(err, "create watcher"))
		return exitError
	}
	defer watcher.Close()

	for dir := range set.dirs {
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", errors.Wrapf(err, "watch %s", dir))
			return exitError
		}
	}

	code := runOnce()
	logger.Info("Watching for changes", "directories", len(set.dirs))

	var settled <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher stopped")
			return code

		case event, ok := <-watcher.Events:
			if !ok {
				return code
			}

			if !set.matches(event) {
				continue
			}

			logger.Debug("File event detected", "path", event.Name, "op", event.Op.String())
			settled = time.After(opts.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return code
			}

			logger.Error("Watcher error", "error", err)

		case <-settled:
			settled = nil
			code = runOnce()
		}
	}
}
