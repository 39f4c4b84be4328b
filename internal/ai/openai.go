package ai

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/gnemet/DeckForge/internal/config"
)

type openAIBackend struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
}

func newOpenAIBackend(s config.ProviderSettings) (*openAIBackend, error) {
	opts := []openai.Option{
		openai.WithToken(s.Key),
		openai.WithModel(s.Model),
	}
	if s.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(s.Endpoint))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &openAIBackend{llm: llm, temperature: s.Temperature, maxTokens: s.MaxTokens}, nil
}

func (o *openAIBackend) generate(ctx context.Context, prompt string) (completion, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	var callOpts []llms.CallOption
	if o.temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(o.temperature))
	}
	if o.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(o.maxTokens))
	}

	resp, err := o.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return completion{}, err
	}
	if len(resp.Choices) == 0 {
		return completion{}, errors.New("openai returned no choices")
	}

	choice := resp.Choices[0]
	return completion{
		Text:             choice.Content,
		PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      intInfo(choice.GenerationInfo, "TotalTokens"),
	}, nil
}

func (o *openAIBackend) close() error {
	return nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
