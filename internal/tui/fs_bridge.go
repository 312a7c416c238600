package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"jsfinder/internal/dataset"
	"jsfinder/internal/web"
)

// loadCmd reads the dataset off the update loop.
func (m *model) loadCmd() tea.Cmd {
	ctx, source, opts := m.ctx, m.opts.Source, m.opts.Dataset
	return func() tea.Msg {
		ds, err := dataset.Load(ctx, source, opts)
		return datasetLoadedMsg{ds: ds, err: err}
	}
}

// watchCmd blocks until the dataset file is rewritten. Editors often replace
// files instead of writing in place, so the parent directory is watched and
// events are filtered by name. URL sources cannot be watched.
func (m *model) watchCmd() tea.Cmd {
	source := m.opts.Source
	if web.IsURL(source) {
		return nil
	}
	done := m.ctx.Done()
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return watchErrorMsg{err: err}
		}
		defer watcher.Close()

		target := filepath.Clean(source)
		if err := watcher.Add(filepath.Dir(target)); err != nil {
			return watchErrorMsg{err: err}
		}

		for {
			select {
			case <-done:
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					return fileChangedMsg{path: event.Name}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrorMsg{err: err}
			}
		}
	}
}
