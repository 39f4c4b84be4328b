// Package pptx writes generated decks as Office Open XML presentations and reads them back.
package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Layout is the slide size every deck is written with.
const Layout = ppt.LayoutScreen16x9

const (
	emuPerInch = 914400
	margin     = int64(0.5 * emuPerInch)

	fontTitle   = 40
	fontHeading = 30
	fontBody    = 18
)

// frame holds text box geometry derived from the presentation layout, in EMU.
type frame struct {
	width  int64
	height int64
}

func (f frame) contentWidth() int64 {
	return f.width - 2*margin
}

// SlideKind tells the writer which layout to use.
type SlideKind int

const (
	TitleSlide SlideKind = iota
	ContentSlide
)

// Slide is one slide's text. Body lines are separated by '\n'.
type Slide struct {
	Kind  SlideKind
	Title string
	Body  string
}

// Deck is everything the writer needs to produce a file.
type Deck struct {
	Title      string
	Creator    string
	Background string // AARRGGBB, solid fill of every slide background
	TextColor  string // AARRGGBB
	Slides     []Slide
}

// Writer serializes decks to .pptx files.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Render builds d and writes it to path. The file is written next to path and
// renamed into place, so path never holds a partial deck.
func (w *Writer) Render(d Deck, path string) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}

	p := build(d)

	pw, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return fmt.Errorf("failed to create pptx writer: %w", err)
	}
	writer, ok := pw.(*ppt.PPTXWriter)
	if !ok {
		return fmt.Errorf("unexpected pptx writer type %T", pw)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".deck-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writer.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write pptx: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move deck into place: %w", err)
	}
	return nil
}

func build(d Deck) *ppt.Presentation {
	p := ppt.New()
	p.GetLayout().SetLayout(Layout)
	fr := frame{width: p.GetLayout().CX, height: p.GetLayout().CY}
	p.GetDocumentProperties().Title = d.Title
	if d.Creator != "" {
		p.GetDocumentProperties().Creator = d.Creator
	}

	for i, s := range d.Slides {
		var slide *ppt.Slide
		if i == 0 {
			// ppt.New starts with one empty slide
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}

		if d.Background != "" {
			slide.SetBackground(solidFill(d.Background))
		}
		switch s.Kind {
		case TitleSlide:
			addTitle(slide, fr, s.Title, d.TextColor)
		default:
			addContent(slide, fr, s.Title, s.Body, d.TextColor)
		}
	}
	return p
}

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

func addTitle(slide *ppt.Slide, fr frame, title, color string) {
	h := int64(1.4 * emuPerInch)
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(margin).SetOffsetY((fr.height - h) / 2)
	shape.SetWidth(fr.contentWidth()).SetHeight(h)
	tr := shape.CreateTextRun(title)
	tr.GetFont().SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor(color))
	alignCenter(shape.GetActiveParagraph())
}

func addContent(slide *ppt.Slide, fr frame, heading, body, color string) {
	headTop := int64(0.4 * emuPerInch)
	headHeight := int64(0.9 * emuPerInch)
	head := slide.CreateRichTextShape()
	head.SetOffsetX(margin).SetOffsetY(headTop)
	head.SetWidth(fr.contentWidth()).SetHeight(headHeight)
	tr := head.CreateTextRun(heading)
	tr.GetFont().SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor(color))

	if body == "" {
		return
	}

	bodyTop := headTop + headHeight + int64(0.2*emuPerInch)
	text := slide.CreateRichTextShape()
	text.SetOffsetX(margin).SetOffsetY(bodyTop)
	text.SetWidth(fr.contentWidth()).SetHeight(fr.height - bodyTop - margin)
	for i, line := range strings.Split(body, "\n") {
		if i > 0 {
			text.CreateParagraph()
		}
		run := text.CreateTextRun(line)
		run.GetFont().SetSize(fontBody).SetColor(ppt.NewColor(color))
	}
}
