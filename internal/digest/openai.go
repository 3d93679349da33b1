package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// defaultPrompt is the analyst instruction the digest was built around.
// The %s placeholder receives the rendered headline block.
const defaultPrompt = `You are an expert global business analyst.

Here are recent business & markets headlines and summaries:

%s

TASK:
Pick ONLY business-critical news:
- corporate earnings
- markets (stocks, bonds, commodities, global markets)
- central bank policy, inflation, GDP, macroeconomic indicators
- business policy changes
- startup funding, acquisitions, IPO announcements
- global business events (India, US, Europe, China)
- gold and jewellery retail and supply chain news

DO NOT include:
- political commentary
- social issues
- general editorials
- non-business opinion pieces
- crime, lifestyle, or general news

Output format for each story (mandatory):

## Headline (Source)

- Cause:
- Effect:
- Why this matters for business / economy:
- Source link to read more:
- Date of news released if available:
`

// OpenAIGenerator turns a headline block into the digest text via the
// chat completion endpoint. No retry: upstream failures surface to the
// pipeline, which reports them by email.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	prompt      string
	temperature float32
	maxTokens   int
}

func NewOpenAIGenerator(apiKey, model, promptTemplate string, temperature float32, maxTokens int) *OpenAIGenerator {
	if promptTemplate == "" {
		promptTemplate = defaultPrompt
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		prompt:      promptTemplate,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Generate sends the headline block to the model and returns the
// generated digest, trimmed.
func (g *OpenAIGenerator) Generate(ctx context.Context, headlines string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(g.prompt, headlines),
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        1,
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
