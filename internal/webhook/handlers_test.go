package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonmez-voice-agent/internal/audio"
	"sonmez-voice-agent/pkg/logger"
)

type fakeAnswerer struct {
	answer    string
	sessionID string
	userInput string
}

func (f *fakeAnswerer) Answer(_ context.Context, sessionID, userInput string) string {
	f.sessionID = sessionID
	f.userInput = userInput
	return f.answer
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(context.Context, string) ([]byte, error) {
	return f.audio, f.err
}

func newTestRouter(t *testing.T, answerer Answerer, synthesizer Synthesizer) (*gin.Engine, *audio.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := audio.NewStoreAt(t.TempDir())
	h := NewHandler(answerer, synthesizer, store, "https://agent.example.com", logger.New("test"))
	return SetupRouter(h), store
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVoice_PlaysSynthesizedAnswer(t *testing.T) {
	answerer := &fakeAnswerer{answer: "The Oslo sleeps 4."}
	router, store := newTestRouter(t, answerer, &fakeSynthesizer{audio: []byte("mp3-bytes")})

	w := postForm(router, "/voice-webhook", url.Values{
		"CallSid":      {"CA123"},
		"SpeechResult": {"how many people fit in the Oslo?"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/xml")

	body := w.Body.String()
	assert.Contains(t, body, "<Play>https://agent.example.com/audio/tts_")
	assert.Contains(t, body, `<Gather input="speech" action="/voice-webhook" speechTimeout="auto">`)

	assert.Equal(t, "CA123", answerer.sessionID)
	assert.Equal(t, "how many people fit in the Oslo?", answerer.userInput)

	// The referenced file must actually exist in the store.
	start := strings.Index(body, "tts_")
	end := strings.Index(body[start:], "</Play>")
	require.True(t, start >= 0 && end > 0)
	path, err := store.Path(body[start : start+end])
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), data)
}

func TestVoice_SynthesisFailureDegradesToSay(t *testing.T) {
	router, _ := newTestRouter(t,
		&fakeAnswerer{answer: "The Oslo sleeps 4."},
		&fakeSynthesizer{err: errors.New("rate limited")},
	)

	w := postForm(router, "/voice-webhook", url.Values{"CallSid": {"CA123"}, "SpeechResult": {"hello"}})

	require.Equal(t, http.StatusOK, w.Code)
	// encoding/xml escapes the apostrophe, so match around it.
	assert.Contains(t, w.Body.String(), "<Say>")
	assert.Contains(t, w.Body.String(), "having trouble responding right now.</Say>")
	assert.NotContains(t, w.Body.String(), "<Play>")
}

func TestWhatsApp_RepliesWithMessage(t *testing.T) {
	answerer := &fakeAnswerer{answer: "We ship worldwide."}
	router, _ := newTestRouter(t, answerer, &fakeSynthesizer{})

	w := postForm(router, "/whatsapp-webhook", url.Values{
		"From": {"whatsapp:+15551234567"},
		"Body": {"do you ship to Canada?"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<Message>We ship worldwide.</Message>")
	assert.Equal(t, "whatsapp:+15551234567", answerer.sessionID)
	assert.Equal(t, "do you ship to Canada?", answerer.userInput)
}

func TestAudio_ServesStoredFile(t *testing.T) {
	router, store := newTestRouter(t, &fakeAnswerer{}, &fakeSynthesizer{})
	filename, err := store.Save([]byte("mp3-bytes"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/audio/"+filename, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "mp3-bytes", w.Body.String())
}

func TestAudio_UnknownFileReturnsNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAnswerer{}, &fakeSynthesizer{})

	req := httptest.NewRequest(http.MethodGet, "/audio/tts_0.mp3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAudio_RejectsTraversalNames(t *testing.T) {
	store := audio.NewStoreAt(t.TempDir())

	// Plant a file next to the store to prove names with separators or dot
	// prefixes never resolve to it.
	outside := filepath.Join(filepath.Dir(t.TempDir()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o600))

	for _, name := range []string{"../secret.txt", "..", ".hidden", "a/b.mp3", ""} {
		_, err := store.Path(name)
		assert.Error(t, err, "name %q must be rejected", name)
	}
}
