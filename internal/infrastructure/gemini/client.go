package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateTopicPrompts asks the model for three questions two prospective
// co-parents can use to discuss topic.
func (c *GeminiClient) GenerateTopicPrompts(ctx context.Context, topic domain.Topic, language string) ([]string, error) {
	if language == "" {
		language = "English"
	}
	prompt := fmt.Sprintf(`
		Two adults are getting to know each other as potential co-parents.
		Topic: %s
		
		Task: Write 3 open, respectful questions they could ask each other about this topic.
		Avoid legal or medical advice.
		Language: %s.
		Output: JSON array of strings. Example: ["How...", "What..."]
	`, topic.Title, language)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, domain.Upstream("gemini generate", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return ParsePrompts(sb.String())
}

// ParsePrompts reads a JSON string array from model output, tolerating code
// fences. When the output is not JSON each non-empty line is taken as a prompt.
func ParsePrompts(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var prompts []string
	if err := json.Unmarshal([]byte(text), &prompts); err != nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimLeft(line, "-*0123456789. ")
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				prompts = append(prompts, line)
			}
		}
		if len(prompts) == 0 {
			return nil, fmt.Errorf("failed to parse prompts: %w", err)
		}
	}

	out := prompts[:0]
	for _, p := range prompts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
