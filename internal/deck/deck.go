// Package deck lays parsed outline sections onto slides and hands them to a renderer.
package deck

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gnemet/DeckForge/internal/apperr"
	"github.com/gnemet/DeckForge/internal/outline"
	"github.com/gnemet/DeckForge/internal/pptx"
	"github.com/gnemet/DeckForge/internal/theme"
)

// Extension of every generated deck.
const Extension = ".pptx"

// Renderer serializes a deck to path.
type Renderer interface {
	Render(d pptx.Deck, path string) error
}

// Result describes a deck that was written to disk.
type Result struct {
	ID         string      `json:"id"`
	Filename   string      `json:"file"`
	Path       string      `json:"-"`
	Title      string      `json:"title"`
	Theme      theme.Theme `json:"theme"`
	SlideCount int         `json:"slides"`
}

// Assembler builds decks into a single output directory.
type Assembler struct {
	outputDir string
	renderer  Renderer
	selector  theme.Selector
	creator   string
	now       func() time.Time
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithSelector replaces the random theme selector.
func WithSelector(s theme.Selector) Option {
	return func(a *Assembler) { a.selector = s }
}

// WithCreator sets the document author property.
func WithCreator(name string) Option {
	return func(a *Assembler) { a.creator = name }
}

// WithClock overrides the time source used for filenames.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func NewAssembler(outputDir string, renderer Renderer, opts ...Option) *Assembler {
	a := &Assembler{
		outputDir: outputDir,
		renderer:  renderer,
		selector:  theme.RandomSelector{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OutputDir is where decks are written.
func (a *Assembler) OutputDir() string {
	return a.outputDir
}

// Assemble picks a theme and renders a title slide followed by one slide per section.
func (a *Assembler) Assemble(ctx context.Context, title string, sections []outline.Section) (Result, error) {
	return a.AssembleWithTheme(ctx, title, sections, a.selector.Choose())
}

// AssembleWithTheme is Assemble with a caller-chosen theme.
func (a *Assembler) AssembleWithTheme(ctx context.Context, title string, sections []outline.Section, th theme.Theme) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, apperr.DeckCreation(err)
	}
	if !th.Valid() {
		return Result{}, apperr.DeckCreation(fmt.Errorf("unknown theme %q", th))
	}

	d := Build(title, sections, th)
	d.Creator = a.creator

	id := uuid.New()
	filename := a.filename(id)
	path := filepath.Join(a.outputDir, filename)

	if err := a.renderer.Render(d, path); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("deck render failed")
		return Result{}, apperr.DeckCreation(err)
	}

	log.Info().
		Str("file", filename).
		Str("theme", th.String()).
		Int("slides", len(d.Slides)).
		Msg("deck written")

	return Result{
		ID:         id.String(),
		Filename:   filename,
		Path:       path,
		Title:      title,
		Theme:      th,
		SlideCount: len(d.Slides),
	}, nil
}

// Build maps a title and sections onto slides painted with th.
func Build(title string, sections []outline.Section, th theme.Theme) pptx.Deck {
	palette := th.Palette()

	slides := make([]pptx.Slide, 0, len(sections)+1)
	slides = append(slides, pptx.Slide{Kind: pptx.TitleSlide, Title: title})
	for _, s := range sections {
		slides = append(slides, pptx.Slide{
			Kind:  pptx.ContentSlide,
			Title: s.Heading,
			Body:  s.Body,
		})
	}

	return pptx.Deck{
		Title:      title,
		Background: palette.Background.ARGB(),
		TextColor:  palette.Text.ARGB(),
		Slides:     slides,
	}
}

// filename is presentation_<timestamp>_<8 hex chars of id>.pptx.
func (a *Assembler) filename(id uuid.UUID) string {
	token := strings.ReplaceAll(id.String(), "-", "")[:8]
	return fmt.Sprintf("presentation_%s_%s%s", a.now().Format("20060102_150405"), token, Extension)
}
