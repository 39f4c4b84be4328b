package ai

import (
	"context"
	"strings"
)

const mockOutline = `# Overview
A short introduction to the topic.
Why it matters today.

# Key Ideas
The core concepts in plain words.

# Next Steps
Where to learn more.`

// mockBackend answers every prompt with a fixed outline, for offline development.
type mockBackend struct {
	response string
}

func newMockBackend(response string) *mockBackend {
	if response == "" {
		response = mockOutline
	}
	return &mockBackend{response: response}
}

func (m *mockBackend) generate(ctx context.Context, prompt string) (completion, error) {
	if err := ctx.Err(); err != nil {
		return completion{}, err
	}
	words := len(strings.Fields(prompt))
	return completion{
		Text:             m.response,
		PromptTokens:     words,
		CompletionTokens: len(strings.Fields(m.response)),
		TotalTokens:      words + len(strings.Fields(m.response)),
	}, nil
}

func (m *mockBackend) close() error {
	return nil
}
