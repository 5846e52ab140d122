package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderElevenLabs = "elevenlabs"
	ProviderCartesia   = "cartesia"
)

// Config is built once at startup and passed explicitly to every component.
// Nothing reads the environment after Load returns.
type Config struct {
	// Server
	Port               string
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *)
	PublicDir          string // Static landing page root
	OutputDir          string // Generated audio, served under /outputs/
	LogLevel           string

	// Demo mode bypasses the payment gate on the combined route
	DemoMode bool

	// OpenAI (completion + speech)
	OpenAIKey      string
	OpenAIBaseURL  string // Optional, for compatible endpoints
	OpenAIModel    string
	OpenAITTSModel string
	DefaultVoice   string

	// Provider selection
	ScriptProvider string // "openai" or "gemini"
	VoiceProvider  string // "openai", "elevenlabs" or "cartesia"

	// Gemini (alternate script provider)
	GeminiKey   string
	GeminiModel string

	// ElevenLabs (alternate voice provider)
	ElevenLabsKey     string
	ElevenLabsVoiceID string

	// Cartesia (alternate voice provider)
	CartesiaKey     string
	CartesiaVoiceID string

	// Payment gateway credentials, consumed only by the inert stub
	PaymentMerchantID string
	PaymentSecretKey  string
	PaymentEndpoint   string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		PublicDir:          getEnv("PUBLIC_DIR", "public"),
		OutputDir:          getEnv("OUTPUT_DIR", "public/outputs"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DemoMode:           getEnvBool("DEMO_MODE", true),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITTSModel:     getEnv("OPENAI_TTS_MODEL", "tts-1"),
		DefaultVoice:       getEnv("DEFAULT_VOICE", "alloy"),
		ScriptProvider:     strings.ToLower(getEnv("SCRIPT_PROVIDER", ProviderOpenAI)),
		VoiceProvider:      strings.ToLower(getEnv("VOICE_PROVIDER", ProviderOpenAI)),
		GeminiKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ElevenLabsKey:      getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID:  getEnv("ELEVENLABS_VOICE_ID", ""),
		CartesiaKey:        getEnv("CARTESIA_API_KEY", ""),
		CartesiaVoiceID:    getEnv("CARTESIA_VOICE_ID", ""),
		PaymentMerchantID:  getEnv("PAYMENT_MERCHANT_ID", ""),
		PaymentSecretKey:   getEnv("PAYMENT_SECRET_KEY", ""),
		PaymentEndpoint:    getEnv("PAYMENT_ENDPOINT", ""),
	}

	// Validate required fields
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	switch cfg.ScriptProvider {
	case ProviderOpenAI:
	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when SCRIPT_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("unsupported SCRIPT_PROVIDER %q (allowed: openai, gemini)", cfg.ScriptProvider)
	}

	switch cfg.VoiceProvider {
	case ProviderOpenAI:
	case ProviderElevenLabs:
		if cfg.ElevenLabsKey == "" {
			return nil, fmt.Errorf("ELEVENLABS_API_KEY is required when VOICE_PROVIDER=elevenlabs")
		}
	case ProviderCartesia:
		if cfg.CartesiaKey == "" {
			return nil, fmt.Errorf("CARTESIA_API_KEY is required when VOICE_PROVIDER=cartesia")
		}
	default:
		return nil, fmt.Errorf("unsupported VOICE_PROVIDER %q (allowed: openai, elevenlabs, cartesia)", cfg.VoiceProvider)
	}

	return cfg, nil
}

// PaymentsEnabled reports whether the gateway stub would leave its disabled state.
func (c *Config) PaymentsEnabled() bool {
	return !c.DemoMode && c.PaymentMerchantID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}
