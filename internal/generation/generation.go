// Package generation runs the title-to-deck pipeline.
package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/apperr"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/metrics"
	"github.com/gnemet/DeckForge/internal/outline"
	"github.com/gnemet/DeckForge/internal/theme"
)

const promptTemplate = "Generate a structured PowerPoint presentation on %s.\n" +
	"Format each point with a heading starting with # and detailed explanation.\n" +
	"Include 3-5 main points with clear headings and explanations."

// BuildPrompt is the instruction sent to the AI provider for title.
func BuildPrompt(title string) string {
	return fmt.Sprintf(promptTemplate, title)
}

// Request is one generation ask. An empty Theme lets the assembler choose.
type Request struct {
	Title string `json:"title"`
	Theme string `json:"theme,omitempty"`
}

// Assembler writes decks to disk.
type Assembler interface {
	Assemble(ctx context.Context, title string, sections []outline.Section) (deck.Result, error)
	AssembleWithTheme(ctx context.Context, title string, sections []outline.Section, th theme.Theme) (deck.Result, error)
}

type Orchestrator struct {
	generator ai.Generator
	assembler Assembler
	store     database.Store
}

func NewOrchestrator(generator ai.Generator, assembler Assembler, store database.Store) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		assembler: assembler,
		store:     store,
	}
}

// Generate turns a title into a registered deck on disk.
// Every failure is an *apperr.Error.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (res deck.Result, err error) {
	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = string(apperr.KindOf(err))
		}
		metrics.RecordGeneration(status, time.Since(start).Seconds())
	}()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return deck.Result{}, apperr.InvalidRequest(apperr.MsgTitleRequired)
	}

	var pinned theme.Theme
	if req.Theme != "" {
		th, perr := theme.Parse(req.Theme)
		if perr != nil {
			return deck.Result{}, apperr.InvalidRequest(fmt.Sprintf("Unknown theme %q", req.Theme))
		}
		pinned = th
	}

	logger := log.With().Str("title", title).Logger()
	logger.Info().Msg("generating deck")

	raw, err := o.generator.GenerateContent(ctx, BuildPrompt(title))
	if err != nil {
		return deck.Result{}, apperr.AIService(err)
	}

	sections := outline.Parse(raw)
	if len(sections) == 0 {
		logger.Warn().Int("chars", len(raw)).Msg("AI response had no usable sections")
		return deck.Result{}, apperr.EmptyContent()
	}

	if pinned != "" {
		res, err = o.assembler.AssembleWithTheme(ctx, title, sections, pinned)
	} else {
		res, err = o.assembler.Assemble(ctx, title, sections)
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			err = apperr.DeckCreation(err)
		}
		return deck.Result{}, err
	}

	if err := o.register(ctx, res); err != nil {
		if rmErr := os.Remove(res.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn().Err(rmErr).Str("file", res.Filename).Msg("failed to remove unregistered deck")
		}
		return deck.Result{}, apperr.DeckCreation(err)
	}

	metrics.DeckSlides.Observe(float64(res.SlideCount))
	logger.Info().
		Str("file", res.Filename).
		Str("theme", res.Theme.String()).
		Int("slides", res.SlideCount).
		Dur("elapsed", time.Since(start)).
		Msg("deck generated")

	return res, nil
}

func (o *Orchestrator) register(ctx context.Context, res deck.Result) error {
	if o.store == nil {
		return nil
	}
	return o.store.SaveDeck(ctx, &database.Deck{
		ID:         res.ID,
		Filename:   res.Filename,
		Path:       res.Path,
		Title:      res.Title,
		Theme:      res.Theme.String(),
		SlideCount: res.SlideCount,
	})
}
