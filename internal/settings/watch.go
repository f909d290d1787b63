package settings

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the settings file whenever it is written or replaced and
// passes each successfully parsed document to onChange. Documents that
// fail to parse are logged and skipped. Watch blocks until ctx is done.
//
// The directory is watched rather than the file so editors that save by
// rename are still seen.
func Watch(ctx context.Context, path string, logger zerolog.Logger, onChange func(*Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve settings path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch settings dir: %w", err)
	}

	log := logger.With().Str("component", "settings-watch").Str("path", abs).Logger()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			s, err := Load(abs)
			if err != nil {
				log.Warn().Err(err).Msg("Settings reload failed")
				continue
			}
			log.Info().Int("tracks", len(s.AnimTracks)).Msg("Settings reloaded")
			onChange(s)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Settings watcher error")
		}
	}
}
