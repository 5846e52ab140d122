package services

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// ---------------------------------------------------------------------------
// Gemini script generation
// Alternate completion provider, selected with SCRIPT_PROVIDER=gemini.
// Uses the Google Gen AI SDK with the same prompt pair, temperature and
// token budget as the OpenAI path.
// ---------------------------------------------------------------------------

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiService struct {
	client *genai.Client
	model  string
	log    logrus.FieldLogger
}

var _ ScriptGenerator = (*GeminiService)(nil)

// NewGeminiService creates a Gemini client. baseURL is optional and only
// overrides the API endpoint.
func NewGeminiService(ctx context.Context, apiKey, model, baseURL string, log logrus.FieldLogger) (*GeminiService, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiService{
		client: client,
		model:  model,
		log:    log.WithField("component", "gemini"),
	}, nil
}

// GenerateScript sends the prompt pair and returns the raw model text.
func (s *GeminiService) GenerateScript(ctx context.Context, prompt ScriptPrompt, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if maxTokens > math.MaxInt32 {
		maxTokens = math.MaxInt32
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](scriptTemperature),
		MaxOutputTokens:   int32(maxTokens),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt.User), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}

	raw := resp.Text()

	s.log.WithFields(logrus.Fields{
		"model":      s.model,
		"max_tokens": maxTokens,
		"raw_len":    len(raw),
	}).Info("script completion received")

	return raw, nil
}
