package services

import (
	"context"
	"strings"
)

// ---------------------------------------------------------------------------
// TTSService is the common interface for text-to-speech providers
// OpenAI, ElevenLabs and Cartesia implement this interface so the generator
// can use whichever is configured without knowing the underlying provider.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData []byte
	Format    string // "mp3"
}

// TTSService is the interface that any TTS provider must implement.
type TTSService interface {
	// GenerateSpeech converts text to MP3 audio spoken by the given voice.
	GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error)
}

// VoiceTable maps two-letter language prefixes to provider voices.
type VoiceTable struct {
	Default string
	ByLang  map[string]string
}

// NewVoiceTable returns the fixed language table. Every entry currently maps
// to the default voice.
func NewVoiceTable(defaultVoice string) VoiceTable {
	langs := []string{"en", "fr", "ar", "es", "de", "it", "pt"}
	byLang := make(map[string]string, len(langs))
	for _, l := range langs {
		byLang[l] = defaultVoice
	}
	return VoiceTable{Default: defaultVoice, ByLang: byLang}
}

// Resolve returns the explicit voice unchanged when given, otherwise the table
// entry for the lowercase two-character prefix of language.
func (t VoiceTable) Resolve(language, explicit string) string {
	if explicit != "" {
		return explicit
	}

	prefix := strings.ToLower(strings.TrimSpace(language))
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	if voice, ok := t.ByLang[prefix]; ok {
		return voice
	}
	return t.Default
}
