package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/hytale-tools/modlate"
)

// OpenAIProvider translates through OpenAI's chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // API key
	Model       string  // model to use (default: "gpt-4o-mini")
	Temperature float32 // temperature for generation (default: 0.3)
	BaseURL     string  // custom base URL for OpenAI-compatible servers
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Name returns the provider identifier, including the model.
func (p *OpenAIProvider) Name() string {
	return "openai:" + p.model
}

// Translate translates a batch of texts.
func (p *OpenAIProvider) Translate(ctx context.Context, req Request) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &modlate.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &modlate.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req Request) string {
	targetName := modlate.GetLanguageName(req.TargetLang)
	sourceName := modlate.GetLanguageName(req.SourceLang)

	prompt := fmt.Sprintf(`# Role
You are an expert game localizer. You translate video game text from %s to %s with the fluency of a native speaker who plays games in that language.

# Context
The texts are player-facing strings from a Hytale game mod: item names, descriptions, UI labels, and lore. Keep the tone consistent with fantasy game writing.

# Task
Translate each provided text into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Game text must read as if originally written in %s.
- **Length**: UI strings should stay close to the source length where possible.
- **Markup Safety**: Do NOT translate or alter markup: tags like <color is="...">, </color>, bracket markers like [WIP], and literal \n sequences must appear in your output exactly as in the source.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {player}, %%s, {0}).
- **Context Hints**: A per-text context, when given, disambiguates the translation. Never include it in your output.`,
		sourceName, targetName, targetName, targetName)

	if len(req.Protected) > 0 {
		terms := strings.Join(req.Protected, "\n- ")
		prompt += fmt.Sprintf("\n\n# Protected Terms\nKeep the following substrings exactly as they appear in the source:\n- %s", terms)
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
- The array must contain exactly one entry per input text.
- Do NOT wrap the JSON in Markdown code blocks.`

	return prompt
}

func (p *OpenAIProvider) buildUserMessage(req Request) string {
	hasContexts := false
	for _, c := range req.Contexts {
		if c != "" {
			hasContexts = true
			break
		}
	}

	if !hasContexts {
		data, _ := json.Marshal(req.Texts)
		return string(data)
	}

	type item struct {
		Text    string `json:"text"`
		Context string `json:"context,omitempty"`
	}
	items := make([]item, len(req.Texts))
	for i, text := range req.Texts {
		items[i].Text = text
		if i < len(req.Contexts) {
			items[i].Context = req.Contexts[i]
		}
	}
	data, _ := json.Marshal(map[string][]item{"items": items})
	return string(data)
}

func (p *OpenAIProvider) parseResponse(content string, expectedCount int) ([]string, error) {
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
		// Fallback: first array value under any key.
		for _, v := range objResult {
			if arr, ok := v.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arrResult []interface{}
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &modlate.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func toStringSlice(arr []interface{}, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &modlate.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}
	return result, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ Provider = (*OpenAIProvider)(nil)
