package webhook

import "github.com/gin-gonic/gin"

// SetupRouter configures and returns a gin engine with the channel adapter
// routes registered.
func SetupRouter(h *Handler) *gin.Engine {
	// Default middleware: request logging and panic recovery.
	r := gin.Default()

	r.POST("/voice-webhook", h.Voice)
	r.POST("/whatsapp-webhook", h.WhatsApp)
	r.GET("/audio/:filename", h.Audio)

	return r
}
