package domain

// Capability names one external AI operation the media gateway can route
// an attachment to.
type Capability string

const (
	CapabilityDecodeQR      Capability = "decode-qr"
	CapabilitySpeechToText  Capability = "speech-to-text"
	CapabilityDescribeImage Capability = "describe-image"
	CapabilityDescribeVideo Capability = "describe-video"
	CapabilityVisualQA      Capability = "visual-question-answer"
)
