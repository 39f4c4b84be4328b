package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gnemet/DeckForge/internal/config"
)

type geminiBackend struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGeminiBackend(ctx context.Context, s config.ProviderSettings) (*geminiBackend, error) {
	opts := []option.ClientOption{option.WithAPIKey(s.Key)}
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(s.Model)
	if s.Temperature > 0 {
		model.SetTemperature(float32(s.Temperature))
	}
	if s.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(s.MaxTokens))
	}

	return &geminiBackend{client: client, model: model}, nil
}

func (g *geminiBackend) generate(ctx context.Context, prompt string) (completion, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return completion{}, err
	}
	if len(resp.Candidates) == 0 {
		return completion{}, errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	if content := resp.Candidates[0].Content; content != nil {
		for _, part := range content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}

	c := completion{Text: b.String()}
	if u := resp.UsageMetadata; u != nil {
		c.PromptTokens = int(u.PromptTokenCount)
		c.CompletionTokens = int(u.CandidatesTokenCount)
		c.TotalTokens = int(u.TotalTokenCount)
	}
	return c, nil
}

func (g *geminiBackend) close() error {
	return g.client.Close()
}
