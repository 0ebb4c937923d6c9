package main

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/logger"
)

// debounce collapses the burst of events editors emit for one save.
const debounce = 150 * time.Millisecond

// watchedFiles lists the files whose change should trigger a re-render:
// the config itself, the model, and every shape file and texture.
func watchedFiles(cfg *config.Config, configPath string) []string {
	var files []string
	add := func(p string) {
		if p == "" {
			return
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !slices.Contains(files, p) {
			files = append(files, p)
		}
	}
	add(configPath)
	add(cfg.Scene.Model)
	for _, s := range cfg.Scene.Shapes {
		if strings.EqualFold(s.Type, "model") {
			add(s.Path)
		}
		add(s.Texture)
	}
	return files
}

// watch renders once, then again whenever a watched file changes. Broken
// edits are logged and the previous output is kept.
func watch(ctx context.Context, cfg *config.Config, configPath string) error {
	log := logger.Named("watch")
	if err := renderOnce(ctx, cfg); err != nil {
		log.Error("render", zap.Error(err))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := watchedFiles(cfg, configPath)
	if len(files) == 0 {
		return errors.New("watch: no config or model file to watch")
	}
	// Directories survive the rename-and-replace many editors save with.
	if err := addDirs(w, files); err != nil {
		return err
	}
	log.Info("watching", zap.Strings("files", files))

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); err != nil || !slices.Contains(files, abs) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher", zap.Error(err))

		case <-timer.C:
			next, err := config.LoadFrom(configPath)
			if err != nil {
				log.Error("reload config", zap.Error(err))
				continue
			}
			if err := renderOnce(ctx, next); err != nil {
				log.Error("render", zap.Error(err))
				continue
			}
			if nf := watchedFiles(next, configPath); !slices.Equal(nf, files) {
				files = nf
				if err := addDirs(w, files); err != nil {
					log.Warn("watch new files", zap.Error(err))
				}
			}
		}
	}
}

func addDirs(w *fsnotify.Watcher, files []string) error {
	for _, f := range files {
		dir := filepath.Dir(f)
		if slices.Contains(w.WatchList(), dir) {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	return nil
}
