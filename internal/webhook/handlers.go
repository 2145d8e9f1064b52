package webhook

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sonmez-voice-agent/internal/audio"
	"sonmez-voice-agent/pkg/logger"
)

// synthesisUnavailable is spoken by the telephony platform itself when the
// synthesis service could not produce audio, so a failed TTS call never ends
// the conversation in silence.
const synthesisUnavailable = "I'm having trouble responding right now."

// Answerer handles one conversational turn and always returns a non-empty,
// user-facing answer.
type Answerer interface {
	Answer(ctx context.Context, sessionID, userInput string) string
}

// Synthesizer converts answer text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Handler holds the webhook endpoint implementations.
type Handler struct {
	composer      Answerer
	synthesizer   Synthesizer
	audioStore    *audio.Store
	publicBaseURL string
	log           *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(composer Answerer, synthesizer Synthesizer, audioStore *audio.Store, publicBaseURL string, log *logger.Logger) *Handler {
	return &Handler{
		composer:      composer,
		synthesizer:   synthesizer,
		audioStore:    audioStore,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// Voice handles an inbound telephony turn. The call id keys the session; the
// transcribed speech is the user input. The response plays synthesized audio
// and gathers the next utterance, or degrades to a platform-spoken sentence
// when synthesis fails.
func (h *Handler) Voice(c *gin.Context) {
	callSid := c.PostForm("CallSid")
	userInput := c.PostForm("SpeechResult")

	answer := h.composer.Answer(c.Request.Context(), callSid, userInput)

	audioBytes, err := h.synthesizer.Synthesize(c.Request.Context(), answer)
	if err != nil {
		h.log.WithSession(callSid).Warn(fmt.Sprintf("Synthesis failed, degrading to platform voice: %v", err))
		h.respondSay(c, synthesisUnavailable)
		return
	}

	filename, err := h.audioStore.Save(audioBytes)
	if err != nil {
		h.log.WithSession(callSid).Error(fmt.Sprintf("Failed to store audio, degrading to platform voice: %v", err))
		h.respondSay(c, synthesisUnavailable)
		return
	}

	playURL := fmt.Sprintf("%s/audio/%s", h.publicBaseURL, filename)
	body, err := playTwiML(playURL)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to render play response: %v", err))
		h.respondSay(c, synthesisUnavailable)
		return
	}
	c.Data(http.StatusOK, "text/xml", body)
}

// WhatsApp handles an inbound chat turn keyed by the sender's number.
func (h *Handler) WhatsApp(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")

	answer := h.composer.Answer(c.Request.Context(), from, body)

	reply, err := messageTwiML(answer)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to render message response: %v", err))
		h.respondSay(c, synthesisUnavailable)
		return
	}
	c.Data(http.StatusOK, "text/xml", reply)
}

// Audio serves a previously synthesized file from temporary storage.
func (h *Handler) Audio(c *gin.Context) {
	path, err := h.audioStore.Path(c.Param("filename"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
}

// respondSay answers with a platform-spoken sentence. Marshaling a Say verb
// cannot fail in practice, but the webhook must answer with something even
// if it does.
func (h *Handler) respondSay(c *gin.Context, text string) {
	body, err := sayTwiML(text)
	if err != nil {
		body = []byte("<Response><Say>" + synthesisUnavailable + "</Say></Response>")
	}
	c.Data(http.StatusOK, "text/xml", body)
}
