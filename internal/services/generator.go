package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobarin/voicescript/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrTextRequired is returned before any remote call when there is nothing
// to synthesize.
var ErrTextRequired = errors.New("text is required")

// ScriptGenerator is a remote completion provider returning raw model text.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, prompt ScriptPrompt, maxTokens int) (string, error)
}

// AudioStore persists synthesized audio and returns its public URL.
type AudioStore interface {
	SaveAudio(ctx context.Context, data []byte) (string, error)
}

// ScriptOutcome separates "the call worked but the payload is not JSON" from
// a failed call. Result is nil exactly when parsing failed.
type ScriptOutcome struct {
	Result  *models.ScriptResult
	Raw     string
	Message string
}

func (o *ScriptOutcome) Parsed() bool {
	return o.Result != nil
}

// GenerateOutcome is the combined route's result. When Script did not parse,
// Result is nil and no voice was generated.
type GenerateOutcome struct {
	Script *ScriptOutcome
	Result *models.GenerateResult
}

// Generator runs script generation and voice synthesis. It holds no
// per-request state.
type Generator struct {
	scripts ScriptGenerator
	tts     TTSService
	voices  VoiceTable
	store   AudioStore
	log     logrus.FieldLogger
}

func NewGenerator(scripts ScriptGenerator, tts TTSService, voices VoiceTable, store AudioStore, log logrus.FieldLogger) *Generator {
	return &Generator{
		scripts: scripts,
		tts:     tts,
		voices:  voices,
		store:   store,
		log:     log.WithField("component", "generator"),
	}
}

// GenerateScript builds the prompt, calls the completion provider once and
// extracts the script. An unparseable reply is reported in the outcome, not
// as an error.
func (g *Generator) GenerateScript(ctx context.Context, req models.GenerationRequest, maxTokens int) (*ScriptOutcome, error) {
	prompt := BuildScriptPrompt(req)

	raw, err := g.scripts.GenerateScript(ctx, prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("script generation failed: %w", err)
	}

	result, err := BestEffortExtract(raw)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"error": err,
			"raw":   truncateString(raw, maxLogLen),
		}).Warn("script output could not be parsed")

		return &ScriptOutcome{
			Raw:     raw,
			Message: "Model did not return valid JSON",
		}, nil
	}

	return &ScriptOutcome{Result: result, Raw: raw}, nil
}

// GenerateVoice synthesizes text and stores the MP3. The explicit voice wins
// over the language table.
func (g *Generator) GenerateVoice(ctx context.Context, text, language, voice string) (*models.VoiceResult, error) {
	if text == "" {
		return nil, ErrTextRequired
	}

	resolved := g.voices.Resolve(language, voice)

	speech, err := g.tts.GenerateSpeech(ctx, text, resolved)
	if err != nil {
		return nil, fmt.Errorf("voice generation failed: %w", err)
	}

	url, err := g.store.SaveAudio(ctx, speech.AudioData)
	if err != nil {
		return nil, fmt.Errorf("failed to store audio: %w", err)
	}

	return &models.VoiceResult{URL: url}, nil
}

// Generate runs the script step, then the voice step on the generated script.
// The first failure wins. A voice failure discards the script: there is no
// partial result and nothing to undo.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest, voice string) (*GenerateOutcome, error) {
	script, err := g.GenerateScript(ctx, req, DefaultMaxTokens)
	if err != nil {
		return nil, err
	}
	if !script.Parsed() {
		return &GenerateOutcome{Script: script}, nil
	}

	audio, err := g.GenerateVoice(ctx, script.Result.Script, req.Language, voice)
	if err != nil {
		return nil, err
	}

	return &GenerateOutcome{
		Script: script,
		Result: &models.GenerateResult{
			ScriptResult: *script.Result,
			AudioURL:     audio.URL,
		},
	}, nil
}
