package services

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxTokens is the completion budget when the caller sets none.
	DefaultMaxTokens = 1200

	scriptTemperature = 0.2
	maxLogLen         = 2000
)

// OpenAIService generates scripts via chat completions and voices via the
// speech endpoint. One API key serves both.
type OpenAIService struct {
	client   *openai.Client
	model    string
	ttsModel string
	log      logrus.FieldLogger
}

// Ensure OpenAIService implements both provider interfaces at compile time.
var (
	_ ScriptGenerator = (*OpenAIService)(nil)
	_ TTSService      = (*OpenAIService)(nil)
)

// NewOpenAIService creates the service. baseURL is optional and points the
// client at a compatible endpoint.
func NewOpenAIService(apiKey, baseURL, model, ttsModel string, log logrus.FieldLogger) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIService{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		ttsModel: ttsModel,
		log:      log.WithField("component", "openai"),
	}
}

// GenerateScript sends the prompt pair and returns the raw model text.
func (s *OpenAIService) GenerateScript(ctx context.Context, prompt ScriptPrompt, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.User,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: scriptTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	raw := resp.Choices[0].Message.Content

	s.log.WithFields(logrus.Fields{
		"model":      s.model,
		"max_tokens": maxTokens,
		"raw_len":    len(raw),
		"finish":     resp.Choices[0].FinishReason,
	}).Info("script completion received")

	return raw, nil
}

// GenerateSpeech synthesizes MP3 audio for text with the given voice.
func (s *OpenAIService) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	s.log.WithFields(logrus.Fields{
		"model":    s.ttsModel,
		"voice":    voice,
		"text_len": len(text),
	}).Info("generating speech")

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.ttsModel),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("openai returned empty audio")
	}

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}

// truncateString truncates a string to maxLen and appends "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
