package wallet

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"adview/internal/model"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a wallet-state file.
type Watcher struct {
	path   string
	logger *zap.Logger
}

// NewWatcher returns a watcher for the wallet-state file at path.
func NewWatcher(path string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: filepath.Clean(path), logger: logger}
}

// Run calls emit with the current state and then with every distinct state
// the file takes, until ctx is done. The parent directory is watched so that
// files replaced by rename are still seen.
func (w *Watcher) Run(ctx context.Context, emit func(model.ConnectionState)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}

	last, err := ReadState(w.path)
	if err != nil {
		return err
	}
	emit(last)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			state, ok := w.read()
			if !ok || state == last {
				continue
			}
			w.logger.Debug("wallet state changed",
				zap.String("op", event.Op.String()),
				zap.Bool("connected", state.Connected),
				zap.String("address", state.Address))
			last = state
			emit(state)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("wallet watcher error", zap.Error(err))
		}
	}
}

// read decodes the file after an event. An existing file with no content is
// mid-write and is skipped; only a missing file means disconnected.
func (w *Watcher) read() (model.ConnectionState, bool) {
	data, err := os.ReadFile(w.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return model.ConnectionState{}, true
	case err != nil:
		w.logger.Warn("ignoring unreadable wallet state", zap.String("path", w.path), zap.Error(err))
		return model.ConnectionState{}, false
	case len(bytes.TrimSpace(data)) == 0:
		w.logger.Debug("skipping empty wallet state", zap.String("path", w.path))
		return model.ConnectionState{}, false
	}
	state, err := ParseState(data)
	if err != nil {
		w.logger.Warn("ignoring unreadable wallet state", zap.String("path", w.path), zap.Error(err))
		return model.ConnectionState{}, false
	}
	return state, true
}
