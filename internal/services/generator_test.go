package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bobarin/voicescript/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScripts struct {
	raw       string
	err       error
	calls     int
	prompt    ScriptPrompt
	maxTokens int
}

func (f *fakeScripts) GenerateScript(ctx context.Context, prompt ScriptPrompt, maxTokens int) (string, error) {
	f.calls++
	f.prompt = prompt
	f.maxTokens = maxTokens
	return f.raw, f.err
}

type fakeTTS struct {
	audio []byte
	err   error
	calls int
	text  string
	voice string
}

func (f *fakeTTS) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	f.calls++
	f.text = text
	f.voice = voice
	if f.err != nil {
		return nil, f.err
	}
	return &TTSResponse{AudioData: f.audio, Format: "mp3"}, nil
}

type fakeStore struct {
	err   error
	saved [][]byte
}

func (f *fakeStore) SaveAudio(ctx context.Context, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, data)
	return "/outputs/voice_abcdefghijkl.mp3", nil
}

const validScript = `{"title":"Focus","description":"Desc","script":"Hook. Body. CTA [LINK].","short_script":"Short."}`

func newTestGenerator(scripts *fakeScripts, tts *fakeTTS, store *fakeStore) *Generator {
	logger, _ := test.NewNullLogger()
	return NewGenerator(scripts, tts, NewVoiceTable("alloy"), store, logger)
}

func TestGeneratorGenerateScript(t *testing.T) {
	t.Parallel()

	scripts := &fakeScripts{raw: validScript}
	g := newTestGenerator(scripts, &fakeTTS{}, &fakeStore{})

	req := models.GenerationRequest{Language: "en", Topic: "productivity tips"}
	outcome, err := g.GenerateScript(context.Background(), req, 900)
	require.NoError(t, err)
	require.True(t, outcome.Parsed())

	assert.Equal(t, "Focus", outcome.Result.Title)
	assert.Equal(t, 900, scripts.maxTokens)
	assert.Contains(t, scripts.prompt.User, "productivity tips")
}

func TestGeneratorGenerateScriptUnparseable(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(&fakeScripts{raw: "Sorry, I cannot help with that."}, &fakeTTS{}, &fakeStore{})

	outcome, err := g.GenerateScript(context.Background(), models.GenerationRequest{Language: "en", Topic: "x"}, 0)
	require.NoError(t, err)
	assert.False(t, outcome.Parsed())
	assert.Equal(t, "Sorry, I cannot help with that.", outcome.Raw)
	assert.NotEmpty(t, outcome.Message)
}

func TestGeneratorGenerateScriptTransportError(t *testing.T) {
	t.Parallel()

	upstream := errors.New("connection refused")
	g := newTestGenerator(&fakeScripts{err: upstream}, &fakeTTS{}, &fakeStore{})

	_, err := g.GenerateScript(context.Background(), models.GenerationRequest{Language: "en", Topic: "x"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
}

func TestGeneratorGenerateVoiceRequiresText(t *testing.T) {
	t.Parallel()

	tts := &fakeTTS{audio: []byte("a")}
	store := &fakeStore{}
	g := newTestGenerator(&fakeScripts{}, tts, store)

	_, err := g.GenerateVoice(context.Background(), "", "en", "")
	require.ErrorIs(t, err, ErrTextRequired)
	assert.Zero(t, tts.calls)
	assert.Empty(t, store.saved)
}

func TestGeneratorGenerateVoiceResolvesVoice(t *testing.T) {
	t.Parallel()

	tts := &fakeTTS{audio: []byte("audio")}
	store := &fakeStore{}
	g := newTestGenerator(&fakeScripts{}, tts, store)

	res, err := g.GenerateVoice(context.Background(), "Bonjour", "fr-FR", "")
	require.NoError(t, err)
	assert.Equal(t, "/outputs/voice_abcdefghijkl.mp3", res.URL)
	assert.Equal(t, "alloy", tts.voice)
	require.Len(t, store.saved, 1)
	assert.Equal(t, []byte("audio"), store.saved[0])

	_, err = g.GenerateVoice(context.Background(), "Bonjour", "fr-FR", "echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", tts.voice)
}

func TestGeneratorGenerateVoiceStoreError(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(&fakeScripts{}, &fakeTTS{audio: []byte("a")}, &fakeStore{err: errors.New("disk full")})

	_, err := g.GenerateVoice(context.Background(), "Hi", "en", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTextRequired)
}

func TestGeneratorGenerate(t *testing.T) {
	t.Parallel()

	scripts := &fakeScripts{raw: validScript}
	tts := &fakeTTS{audio: []byte("audio")}
	g := newTestGenerator(scripts, tts, &fakeStore{})

	outcome, err := g.Generate(context.Background(), models.GenerationRequest{Language: "en", Topic: "focus"}, "")
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.Equal(t, "Hook. Body. CTA [LINK].", tts.text)
	assert.Equal(t, DefaultMaxTokens, scripts.maxTokens)
	assert.Equal(t, "Focus", outcome.Result.Title)
	assert.Equal(t, "/outputs/voice_abcdefghijkl.mp3", outcome.Result.AudioURL)
}

func TestGeneratorGenerateStopsOnUnparsedScript(t *testing.T) {
	t.Parallel()

	tts := &fakeTTS{audio: []byte("audio")}
	g := newTestGenerator(&fakeScripts{raw: "plain text"}, tts, &fakeStore{})

	outcome, err := g.Generate(context.Background(), models.GenerationRequest{Language: "en", Topic: "x"}, "")
	require.NoError(t, err)
	assert.Nil(t, outcome.Result)
	assert.False(t, outcome.Script.Parsed())
	assert.Zero(t, tts.calls)
}

func TestGeneratorGenerateDiscardsScriptOnVoiceFailure(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(&fakeScripts{raw: validScript}, &fakeTTS{err: errors.New("tts down")}, &fakeStore{})

	outcome, err := g.Generate(context.Background(), models.GenerationRequest{Language: "en", Topic: "x"}, "")
	require.Error(t, err)
	assert.Nil(t, outcome)
}

func TestGeneratorGenerateEmptyScriptField(t *testing.T) {
	t.Parallel()

	tts := &fakeTTS{audio: []byte("audio")}
	g := newTestGenerator(&fakeScripts{raw: `{"title":"T"}`}, tts, &fakeStore{})

	_, err := g.Generate(context.Background(), models.GenerationRequest{Language: "en", Topic: "x"}, "")
	require.ErrorIs(t, err, ErrTextRequired)
	assert.Zero(t, tts.calls)
}
