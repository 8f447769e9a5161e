package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"futil/internal/compiler"
)

// watchFiles compiles paths once and then again every time one of them is
// written. Directories are watched rather than files so that editors that
// save by renaming a temporary file are still noticed.
func watchFiles(ctx context.Context, paths []string, opts compiler.Options, cfg config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	tracked := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	run(ctx, paths, opts, cfg)
	log.Infof("watching %d file(s)", len(paths))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, tracked) {
				continue
			}
			log.Infof("%s changed", ev.Name)
			if _, err := os.Stat(ev.Name); err != nil {
				// Removed, or mid-rename; the following create triggers a rebuild
				continue
			}
			run(ctx, []string{ev.Name}, opts, cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch error: %s", err)
		}
	}
}

func relevant(ev fsnotify.Event, tracked map[string]bool) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && tracked[abs]
}
