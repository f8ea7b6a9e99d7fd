package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

var errNoChoices = errors.New("no choices in OpenAI response")

// OpenAIConfig points the client at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ModelName string
}

type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key must be set")
	}

	openaiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiCfg.BaseURL = cfg.BaseURL
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(openaiCfg),
		modelName: modelName,
	}, nil
}

// Generate implements domain.Generator over the chat completions API.
func (o *OpenAIClient) Generate(
	ctx context.Context,
	systemInstruction string,
	turns []domain.Turn,
	opts domain.GenerateOptions,
) (string, error) {
	req := toChatCompletionRequest(o.modelName, systemInstruction, turns, opts)

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion: %w", domain.ErrRemote, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", domain.ErrRemote, errNoChoices)
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("%w: openai returned empty text", domain.ErrRemote)
	}
	return text, nil
}

func toChatCompletionRequest(
	modelName string,
	systemInstruction string,
	turns []domain.Turn,
	opts domain.GenerateOptions,
) openai.ChatCompletionRequest {
	system := systemInstruction
	if opts.Shape != nil {
		// JSON object mode only guarantees syntax, so the field list goes in the instruction
		system += "\n\nRespond with a single JSON object with exactly these string fields: " +
			strings.Join(opts.Shape.Fields, ", ") + "."
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: t.Text,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    modelName,
		Messages: messages,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		req.TopP = *opts.TopP
	}
	if opts.Shape != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}
