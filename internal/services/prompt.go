package services

import (
	"fmt"
	"strings"

	"github.com/bobarin/voicescript/internal/models"
)

const (
	defaultNiche    = "general"
	defaultTone     = "engaging"
	defaultAudience = "general audience"

	// LinkPlaceholder is left in the call-to-action for the caller to substitute.
	LinkPlaceholder = "[LINK]"
)

// ScriptPrompt is the system + user message pair sent to the completion model.
type ScriptPrompt struct {
	System string
	User   string
}

const scriptSystemPrompt = `You are an expert short-form video scriptwriter for faceless social media channels.

Follow these rules for every script:
1. TITLE: a catchy title that includes the main keyword of the topic.
2. DESCRIPTION: 2-3 sentences, no more than 300 characters, suitable for a video description.
3. SCRIPT: structured as a strong hook, then 3 short sections, then a call-to-action (CTA).
4. SHORT_SCRIPT: a condensed version of the script that can be read aloud in about 30 seconds.
5. LANGUAGE: write every field in exactly the requested language. If the language is Darija (Moroccan Arabic), write it in Arabic script.

Respond with a single JSON object with the keys "title", "description", "script" and "short_script". Do not add any text outside the JSON object.`

// BuildScriptPrompt assembles the fixed system instruction and the per-request
// user instruction. Blank niche, tone and audience fall back to defaults.
func BuildScriptPrompt(req models.GenerationRequest) ScriptPrompt {
	niche := orDefault(req.Niche, defaultNiche)
	tone := orDefault(req.Tone, defaultTone)
	audience := orDefault(req.Audience, defaultAudience)

	user := fmt.Sprintf(`Write a short video script.

Language: %s
Niche: %s
Topic: %s
Tone: %s
Target audience: %s

Include exactly one concrete example, end with an internal call-to-action that uses the literal placeholder %s, and return JSON only.`,
		req.Language, niche, req.Topic, tone, audience, LinkPlaceholder)

	return ScriptPrompt{
		System: scriptSystemPrompt,
		User:   user,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
