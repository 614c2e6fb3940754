package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/unitx/pkg/unitx/unitx"
)

// watchDebounce lets an editor's burst of writes settle before a rerun.
var watchDebounce = 100 * time.Millisecond

// watchScript runs path once, then again after every change until ctx is
// done. Each run gets a fresh interpreter.
func watchScript(ctx context.Context, path string, e *env) error {
	log := e.log.With().Str("src", "watch").Logger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve script path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Editors often replace the file, so watch its directory
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info().Str("path", abs).Msg("watching")

	rerun := func() {
		_, err := unitx.RunFile(path, e.options(path)...)
		if err = report(err); err != nil && !errors.Is(err, errFailed) {
			fmt.Fprintf(e.stderr, "error: %v\n", err)
		}
	}
	rerun()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			log.Info().Str("path", abs).Msg("rerun")
			fmt.Fprintf(e.stdout, "--- %s changed ---\n", filepath.Base(path))
			rerun()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}
