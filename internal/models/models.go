package models

// Enums
type PaymentStatus string

const (
	PaymentStatusDisabled PaymentStatus = "disabled"
	PaymentStatusTodo     PaymentStatus = "todo"
)

// Request models

// GenerationRequest carries the free-text parameters of a script.
// Only language and topic are required; the rest fall back to prompt defaults.
type GenerationRequest struct {
	Language string `json:"language" validate:"required"`
	Niche    string `json:"niche,omitempty"`
	Topic    string `json:"topic" validate:"required"`
	Tone     string `json:"tone,omitempty"`
	Audience string `json:"audience,omitempty"`
}

type GenerateScriptRequest struct {
	GenerationRequest
	MaxTokens int `json:"max_tokens,omitempty"` // Default: 1200
}

type GenerateVoiceRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"` // Overrides the language table
}

type GenerateRequest struct {
	GenerationRequest
	Voice string `json:"voice,omitempty"`
}

// Results

// ScriptResult is the shape asserted on model output. Keys the model omits
// decode as empty strings.
type ScriptResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Script      string `json:"script"`
	ShortScript string `json:"short_script"`
}

type VoiceResult struct {
	URL string `json:"url"`
}

type GenerateResult struct {
	ScriptResult
	AudioURL string `json:"audio_url"`
}

// DTOs for API responses, all sharing the {ok, ...} envelope

type HealthResponse struct {
	OK   bool `json:"ok"`
	Demo bool `json:"demo"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type ScriptResponse struct {
	OK   bool         `json:"ok"`
	Data ScriptResult `json:"data"`
}

// UnparsedScriptResponse reports a completed call whose payload could not be
// read as JSON. Raw is the model text, verbatim.
type UnparsedScriptResponse struct {
	OK      bool   `json:"ok"`
	Raw     string `json:"raw"`
	Message string `json:"message"`
}

type VoiceResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}

type GenerateResponse struct {
	OK   bool           `json:"ok"`
	Data GenerateResult `json:"data"`
}

type PaymentResponse struct {
	OK      bool          `json:"ok"`
	Status  PaymentStatus `json:"status"`
	Message string        `json:"message"`
	OrderID string        `json:"order_id,omitempty"`
}
