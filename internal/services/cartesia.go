package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Default Cartesia API version
	CartesiaAPIVersion = "2024-06-10"

	cartesiaBaseURL      = "https://api.cartesia.ai"
	cartesiaDefaultModel = "sonic-2"
	cartesiaDefaultVoice = "a0e99841-438c-4a64-b679-ae501e7d6091"
)

// CartesiaService is the second alternate voice provider, selected with
// VOICE_PROVIDER=cartesia.
type CartesiaService struct {
	apiKey     string
	apiURL     string
	apiVersion string
	modelID    string
	client     *http.Client
	log        logrus.FieldLogger
}

// Ensure CartesiaService implements TTSService at compile time.
var _ TTSService = (*CartesiaService)(nil)

func NewCartesiaService(apiKey, apiURL string, log logrus.FieldLogger) *CartesiaService {
	if apiURL == "" {
		apiURL = cartesiaBaseURL
	}
	return &CartesiaService{
		apiKey:     apiKey,
		apiURL:     apiURL,
		apiVersion: CartesiaAPIVersion,
		modelID:    cartesiaDefaultModel,
		client:     &http.Client{Timeout: 60 * time.Second},
		log:        log.WithField("component", "cartesia"),
	}
}

// CartesiaDefaultVoice returns voiceID, or the provider default when empty.
func CartesiaDefaultVoice(voiceID string) string {
	if voiceID == "" {
		return cartesiaDefaultVoice
	}
	return voiceID
}

type cartesiaRequest struct {
	ModelID      string                 `json:"model_id"`
	Transcript   string                 `json:"transcript"`
	Voice        cartesiaVoiceSpecifier `json:"voice"`
	OutputFormat cartesiaOutputFormat   `json:"output_format"`
}

type cartesiaVoiceSpecifier struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

type cartesiaOutputFormat struct {
	Container  string `json:"container"`
	SampleRate int    `json:"sample_rate"`
	BitRate    int    `json:"bit_rate,omitempty"`
}

// GenerateSpeech synthesizes text as MP3. voice is a Cartesia voice id.
func (s *CartesiaService) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	voice = CartesiaDefaultVoice(voice)

	reqBody := cartesiaRequest{
		ModelID:    s.modelID,
		Transcript: text,
		Voice: cartesiaVoiceSpecifier{
			Mode: "id",
			ID:   voice,
		},
		OutputFormat: cartesiaOutputFormat{
			Container:  "mp3",
			SampleRate: 44100,
			BitRate:    128000,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/tts/bytes", s.apiURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cartesia-Version", s.apiVersion)

	s.log.WithFields(logrus.Fields{
		"voice":    voice,
		"model":    s.modelID,
		"text_len": len(text),
	}).Info("generating speech")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cartesia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cartesia returned status %d: %s", resp.StatusCode, truncateString(string(body), 200))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audioData) == 0 {
		return nil, fmt.Errorf("cartesia returned empty audio")
	}

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}
