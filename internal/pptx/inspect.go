package pptx

import (
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// SlideText is the visible text of one slide: the first text shape is taken
// as the title and the second as the body.
type SlideText struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
}

// Inspect reads a .pptx file and returns the text of every slide in order.
func Inspect(path string) ([]SlideText, error) {
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}

	var out []SlideText
	for i, slide := range pres.GetAllSlides() {
		st := SlideText{Number: i + 1}

		var texts []string
		for _, shape := range slide.GetShapes() {
			rts, ok := shape.(*ppt.RichTextShape)
			if !ok {
				continue
			}
			if t := shapeText(rts); t != "" {
				texts = append(texts, t)
			}
		}

		if len(texts) > 0 {
			st.Title = texts[0]
		}
		if len(texts) > 1 {
			st.Body = strings.Join(texts[1:], "\n")
		}
		out = append(out, st)
	}
	return out, nil
}

// shapeText joins the shape's paragraphs with '\n', skipping empty ones.
func shapeText(rts *ppt.RichTextShape) string {
	var lines []string
	for _, para := range rts.GetParagraphs() {
		var b strings.Builder
		for _, elem := range para.GetElements() {
			if run, ok := elem.(*ppt.TextRun); ok {
				b.WriteString(run.GetText())
			}
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
