package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/generation"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Application: config.ApplicationConfig{
			Name:    "DeckForge",
			Storage: config.StorageConfig{Output: filepath.Join(t.TempDir(), "out")},
		},
		AI: config.AIConfig{
			ActiveProvider: "mock",
			Timeout:        time.Second,
			Providers:      map[string]config.ProviderSettings{"mock": {Driver: "mock"}},
		},
	}
}

func TestNew_InMemory(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.DirExists(t, cfg.Application.Storage.Output)
	assert.IsType(t, &database.MemoryStore{}, app.Store)
	assert.Equal(t, "mock", app.AI.Provider())

	res, err := app.Orchestrator.Generate(context.Background(), generation.Request{Title: "Wiring"})
	require.NoError(t, err)
	assert.FileExists(t, res.Path)

	usage := app.Store.(*database.MemoryStore).Usage()
	assert.Len(t, usage, 1)
}

func TestNew_BadProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.ActiveProvider = "missing"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
