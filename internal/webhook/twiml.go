package webhook

import "encoding/xml"

// TwiML documents returned to the telephony platform. Only the verbs this
// service emits are modeled.

type gatherVerb struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
}

type voiceResponse struct {
	XMLName xml.Name    `xml:"Response"`
	Say     string      `xml:"Say,omitempty"`
	Play    string      `xml:"Play,omitempty"`
	Gather  *gatherVerb `xml:"Gather,omitempty"`
}

type messageResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// playTwiML plays the synthesized audio and gathers the caller's next speech
// input back into the voice webhook.
func playTwiML(playURL string) ([]byte, error) {
	return xml.Marshal(voiceResponse{
		Play: playURL,
		Gather: &gatherVerb{
			Input:         "speech",
			Action:        "/voice-webhook",
			SpeechTimeout: "auto",
		},
	})
}

// sayTwiML speaks text through the platform's built-in voice. Used as the
// degraded path when synthesis is unavailable.
func sayTwiML(text string) ([]byte, error) {
	return xml.Marshal(voiceResponse{Say: text})
}

// messageTwiML wraps a chat reply.
func messageTwiML(text string) ([]byte, error) {
	return xml.Marshal(messageResponse{Message: text})
}
