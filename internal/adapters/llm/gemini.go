package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

const defaultMaxOutputTokens = int32(8192)

// GeminiConfig selects between the Gemini API (APIKey) and Vertex AI (Project + Location).
type GeminiConfig struct {
	APIKey    string
	Project   string
	Location  string
	ModelName string
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a domain.Generator backed by Gemini.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{}
	switch {
	case cfg.Project != "":
		if cfg.Location == "" {
			return nil, fmt.Errorf("gemini: location is required with a Vertex project")
		}
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	case cfg.APIKey != "":
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	default:
		return nil, fmt.Errorf("gemini: either an API key or a Vertex project must be set")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate implements domain.Generator using Gemini.
func (g *GeminiClient) Generate(
	ctx context.Context,
	systemInstruction string,
	turns []domain.Turn,
	opts domain.GenerateOptions,
) (string, error) {
	// 1) History as conversation
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, genai.NewContentFromText(t.Text, geminiRole(t.Role)))
	}

	// 2) Model config
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       opts.Temperature,
		TopP:              opts.TopP,
		MaxOutputTokens:   defaultMaxOutputTokens,
	}
	if opts.Shape != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiSchema(opts.Shape)
	}

	// 3) Call
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %w", domain.ErrRemote, err)
	}

	// 4) Only the text
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", domain.ErrRemote)
	}

	return text, nil
}

func geminiRole(r domain.Role) genai.Role {
	switch r {
	case domain.RoleAssistant:
		return genai.RoleModel
	default:
		return genai.RoleUser
	}
}

func geminiSchema(shape *domain.ObjectShape) *genai.Schema {
	props := make(map[string]*genai.Schema, len(shape.Fields))
	for _, f := range shape.Fields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         append([]string(nil), shape.Fields...),
		PropertyOrdering: append([]string(nil), shape.Fields...),
	}
}
