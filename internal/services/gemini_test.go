package services

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerateScript(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"title\":\"G\"}"}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	svc, err := NewGeminiService(context.Background(), "g-key", "", srv.URL, logger)
	require.NoError(t, err)

	raw, err := svc.GenerateScript(context.Background(), ScriptPrompt{System: "sys", User: "usr"}, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"G"}`, raw)

	assert.True(t, strings.HasSuffix(gotPath, defaultGeminiModel+":generateContent"), gotPath)
	assert.Contains(t, gotBody, "systemInstruction")

	genCfg, ok := gotBody["generationConfig"].(map[string]interface{})
	require.True(t, ok, "generationConfig missing: %v", gotBody)
	assert.InEpsilon(t, 0.2, genCfg["temperature"], 0.001)
	assert.EqualValues(t, DefaultMaxTokens, genCfg["maxOutputTokens"])
}

func TestGeminiGenerateScriptNoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	svc, err := NewGeminiService(context.Background(), "g-key", "gemini-test", srv.URL, logger)
	require.NoError(t, err)

	_, err = svc.GenerateScript(context.Background(), ScriptPrompt{}, 100)
	require.Error(t, err)
}

func TestGeminiGenerateScriptClampsMaxTokens(t *testing.T) {
	t.Parallel()

	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "{}"}]}}]}`))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	svc, err := NewGeminiService(context.Background(), "g-key", "gemini-test", srv.URL, logger)
	require.NoError(t, err)

	_, err = svc.GenerateScript(context.Background(), ScriptPrompt{}, math.MaxInt32+10)
	require.NoError(t, err)

	genCfg, ok := gotBody["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(math.MaxInt32), genCfg["maxOutputTokens"])
}
