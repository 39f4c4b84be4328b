// Package bootstrap wires configuration into the running components.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/generation"
	"github.com/gnemet/DeckForge/internal/observer"
	"github.com/gnemet/DeckForge/internal/pptx"
)

// App holds the components shared by the server and the CLI.
type App struct {
	Config       *config.Config
	Store        database.Store
	AI           *ai.Client
	Assembler    *deck.Assembler
	Orchestrator *generation.Orchestrator
	Observer     *observer.Observer

	db *sql.DB
}

// New builds every component from cfg. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := os.MkdirAll(cfg.Application.Storage.Output, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if cfg.Database.Enabled() {
		db, err := database.NewConnection(ctx, cfg.Database.GetConnectStr())
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		app.db = db
		app.Store = database.NewPostgresStore(db)
	} else {
		log.Info().Msg("no database configured, using in-memory deck registry")
		app.Store = database.NewMemoryStore()
	}

	client, err := ai.NewClient(ctx, &cfg.AI, ai.WithUsageRecorder(app.Store))
	if err != nil {
		app.Close()
		return nil, err
	}
	app.AI = client

	app.Assembler = deck.NewAssembler(
		cfg.Application.Storage.Output,
		pptx.NewWriter(),
		deck.WithCreator(cfg.Application.Name),
	)
	app.Orchestrator = generation.NewOrchestrator(app.AI, app.Assembler, app.Store)
	app.Observer = observer.NewObserver(cfg.Application.Storage.Output, app.Store)

	log.Info().
		Str("provider", client.Provider()).
		Str("model", client.Model()).
		Str("output", cfg.Application.Storage.Output).
		Bool("database", app.db != nil).
		Msg("application initialized")

	return app, nil
}

// Close releases the AI client and database connection.
func (a *App) Close() error {
	var errs []error
	if a.AI != nil {
		errs = append(errs, a.AI.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
