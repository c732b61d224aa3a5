package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"github.com/gogpu/ggmark"
	"github.com/gogpu/ggmark/internal/config"
	"github.com/gogpu/ggmark/internal/job"
)

// watched is one job under watch.
type watched struct {
	file string
	job  *job.Job

	// reload is set when the job file itself changed; otherwise only the
	// data is re-read.
	reload  bool
	pending bool
}

func (w *watched) dataPath() string {
	if w.job == nil {
		return ""
	}
	switch w.job.Config().Source.Type {
	case config.SourceCSV, config.SourceArrow, config.SourceSQLite:
		return w.job.Config().Source.Path
	}
	return ""
}

// watch renders files once and then again after every change to a job
// file or a data file, until ctx is done. Events are coalesced for the
// configured debounce interval.
func watch(ctx context.Context, files []string, flags *pflag.FlagSet, out io.Writer) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	log := ggmark.Logger()
	byPath := make(map[string]*watched)
	dirs := make(map[string]bool)
	debounce := config.DefaultDebounce

	track := func(path string, w *watched) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		byPath[abs] = w
		// Editors replace files by rename, so watch the directory.
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := fw.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
		return nil
	}

	var all []*watched
	for _, file := range files {
		w := &watched{file: file}
		all = append(all, w)
		if err := track(file, w); err != nil {
			return err
		}
		if err := w.rebuild(ctx, flags); err != nil {
			log.Warn("watch: job failed", "file", file, "err", err)
			continue
		}
		debounce = max(debounce, w.job.Config().Debounce)
		if p := w.dataPath(); p != "" {
			if err := track(p, w); err != nil {
				return err
			}
		}
		w.render(out)
	}
	log.Info("watch: started", "jobs", len(files), "dirs", len(dirs))

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w, ok := byPath[filepath.Clean(ev.Name)]
			if !ok {
				if abs, err := filepath.Abs(ev.Name); err == nil {
					w, ok = byPath[abs]
				}
			}
			if !ok {
				continue
			}
			w.pending = true
			if ap, _ := filepath.Abs(w.file); ap == filepath.Clean(ev.Name) || w.job == nil {
				w.reload = true
			}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch: watcher error", "err", err)

		case <-timer.C:
			for _, w := range all {
				if !w.pending {
					continue
				}
				w.pending = false
				if err := w.refresh(ctx, flags); err != nil {
					log.Warn("watch: update failed", "file", w.file, "err", err)
					continue
				}
				if p := w.dataPath(); p != "" {
					if err := track(p, w); err != nil {
						log.Warn("watch: cannot watch data", "path", p, "err", err)
					}
				}
				w.render(out)
			}
		}
	}
}

func (w *watched) rebuild(ctx context.Context, flags *pflag.FlagSet) error {
	j, err := loadJob(ctx, w.file, flags)
	if err != nil {
		return err
	}
	w.job = j
	return nil
}

func (w *watched) refresh(ctx context.Context, flags *pflag.FlagSet) error {
	if w.reload {
		w.reload = false
		return w.rebuild(ctx, flags)
	}
	return w.job.Reload(ctx)
}

func (w *watched) render(out io.Writer) {
	p, err := w.job.RenderFile()
	if err != nil {
		ggmark.Logger().Warn("watch: render failed", "file", w.file, "err", err)
		return
	}
	fmt.Fprintln(out, p)
}
