package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeck(name string) *Deck {
	return &Deck{
		ID:         uuid.NewString(),
		Filename:   name,
		Path:       "/srv/decks/" + name,
		Title:      "Topic",
		Theme:      "Dark",
		SlideCount: 4,
	}
}

// storeContract runs the same expectations against every Store.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	a := newDeck("presentation_a_" + uuid.NewString()[:8] + ".pptx")
	b := newDeck("presentation_b_" + uuid.NewString()[:8] + ".pptx")
	require.NoError(t, s.SaveDeck(ctx, a))
	require.NoError(t, s.SaveDeck(ctx, b))
	assert.False(t, a.CreatedAt.IsZero())

	got, err := s.GetDeck(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Filename, got.Filename)
	assert.Equal(t, a.Path, got.Path)
	assert.Equal(t, 4, got.SlideCount)

	got, err = s.GetDeckByFilename(ctx, b.Filename)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = s.GetDeck(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetDeckByFilename(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteDeckByPath(ctx, a.Path))
	_, err = s.GetDeck(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetDeckByFilename(ctx, a.Filename)
	assert.ErrorIs(t, err, ErrNotFound)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	var ids []string
	for _, d := range decks {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, b.ID)
	assert.NotContains(t, ids, a.ID)

	require.NoError(t, s.LogAIUsage(ctx, &AIUsage{Provider: "gemini", Model: "m", PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7}))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_RejectsDuplicates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d := newDeck("dup.pptx")
	require.NoError(t, s.SaveDeck(ctx, d))

	again := newDeck("dup.pptx")
	assert.Error(t, s.SaveDeck(ctx, again))

	sameID := newDeck("other.pptx")
	sameID.ID = d.ID
	assert.Error(t, s.SaveDeck(ctx, sameID))
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := newDeck("old.pptx")
	old.CreatedAt = time.Now().Add(-time.Hour)
	fresh := newDeck("fresh.pptx")

	require.NoError(t, s.SaveDeck(ctx, old))
	require.NoError(t, s.SaveDeck(ctx, fresh))

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "fresh.pptx", decks[0].Filename)
}

func TestMemoryStore_Usage(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.LogAIUsage(context.Background(), &AIUsage{Provider: "gemini", TotalTokens: 10}))

	usage := s.Usage()
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].ID)
	assert.Equal(t, 10, usage[0].TotalTokens)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("DECKFORGE_TEST_DB_URL")
	if url == "" {
		t.Skip("DECKFORGE_TEST_DB_URL not set")
	}

	ctx := context.Background()
	db, err := NewConnection(ctx, url)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSchema(ctx, db))
	storeContract(t, NewPostgresStore(db))
}
