// Package observer keeps the deck registry in step with the output directory.
package observer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/gnemet/DeckForge/internal/database"
)

const deckExt = ".pptx"

type Observer struct {
	dir   string
	store database.Store

	mu      sync.Mutex
	removed int
	ready   chan struct{}
}

func NewObserver(dir string, store database.Store) *Observer {
	return &Observer{
		dir:   dir,
		store: store,
		ready: make(chan struct{}),
	}
}

// Ready is closed once the watcher is installed and the first reconcile has run.
func (o *Observer) Ready() <-chan struct{} {
	return o.ready
}

// Removed counts deck paths dropped from the registry since start.
func (o *Observer) Removed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.removed
}

// Start watches the output directory until ctx is cancelled.
func (o *Observer) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if o.dir == "" {
		return fmt.Errorf("output storage directory not configured")
	}
	if err := os.MkdirAll(o.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := watcher.Add(o.dir); err != nil {
		return err
	}

	log.Info().Str("dir", o.dir).Msg("storage observer started")

	o.Reconcile(ctx)
	close(o.ready)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDeck(event.Name) {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				o.forget(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-ctx.Done():
			log.Info().Msg("storage observer stopped")
			return nil
		}
	}
}

// Reconcile drops registry entries whose file no longer exists.
func (o *Observer) Reconcile(ctx context.Context) {
	decks, err := o.store.ListDecks(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list decks for reconcile")
		return
	}

	for _, d := range decks {
		if _, err := os.Stat(d.Path); errors.Is(err, os.ErrNotExist) {
			o.forget(ctx, d.Path)
		}
	}
}

func (o *Observer) forget(ctx context.Context, path string) {
	if err := o.store.DeleteDeckByPath(ctx, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to drop deck from registry")
		return
	}

	o.mu.Lock()
	o.removed++
	o.mu.Unlock()

	log.Info().Str("file", filepath.Base(path)).Msg("deck file gone, dropped from registry")
}

// isDeck skips temp files the renderer writes before renaming.
func isDeck(name string) bool {
	return strings.EqualFold(filepath.Ext(name), deckExt)
}
