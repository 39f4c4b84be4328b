package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when no deck matches a lookup.
var ErrNotFound = errors.New("deck not found")

// Deck is a generated file known to the registry. ID is the opaque handle
// handed to clients; Path never leaves the server.
type Deck struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"-"`
	Title      string    `json:"title"`
	Theme      string    `json:"theme"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type AIUsage struct {
	ID               int       `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store maps deck handles and filenames onto storage locations.
type Store interface {
	SaveDeck(ctx context.Context, d *Deck) error
	GetDeck(ctx context.Context, id string) (*Deck, error)
	GetDeckByFilename(ctx context.Context, filename string) (*Deck, error)
	DeleteDeckByPath(ctx context.Context, path string) error
	ListDecks(ctx context.Context) ([]Deck, error)
	LogAIUsage(ctx context.Context, u *AIUsage) error
}

// PostgresStore keeps the registry in Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const deckColumns = "id, filename, path, title, theme, slide_count, created_at"

func (s *PostgresStore) SaveDeck(ctx context.Context, d *Deck) error {
	query := `
		INSERT INTO generated_decks (id, filename, path, title, theme, slide_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return s.db.QueryRowContext(ctx, query, d.ID, d.Filename, d.Path, d.Title, d.Theme, d.SlideCount).Scan(&d.CreatedAt)
}

func (s *PostgresStore) GetDeck(ctx context.Context, id string) (*Deck, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+deckColumns+" FROM generated_decks WHERE id = $1", id)
	return scanDeck(row)
}

func (s *PostgresStore) GetDeckByFilename(ctx context.Context, filename string) (*Deck, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+deckColumns+" FROM generated_decks WHERE filename = $1", filename)
	return scanDeck(row)
}

func (s *PostgresStore) DeleteDeckByPath(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM generated_decks WHERE path = $1", path)
	return err
}

func (s *PostgresStore) ListDecks(ctx context.Context) ([]Deck, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+deckColumns+" FROM generated_decks ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		var d Deck
		if err := rows.Scan(&d.ID, &d.Filename, &d.Path, &d.Title, &d.Theme, &d.SlideCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (s *PostgresStore) LogAIUsage(ctx context.Context, u *AIUsage) error {
	query := `
		INSERT INTO ai_usage (provider, model, prompt_tokens, completion_tokens, total_tokens)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	return err
}

func scanDeck(row *sql.Row) (*Deck, error) {
	var d Deck
	err := row.Scan(&d.ID, &d.Filename, &d.Path, &d.Title, &d.Theme, &d.SlideCount, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
