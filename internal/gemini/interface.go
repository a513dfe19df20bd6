package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when no inference backend is configured.
var ErrUnavailable = errors.New("inference backend not configured")

// Client is the inference surface used by the transcription and
// summarization engines: text generation over ordered content parts, and
// registration of large audio files in exchange for a referencable part.
type Client interface {
	GenerateText(ctx context.Context, parts []*genai.Part, cfg *genai.GenerateContentConfig) (string, error)
	UploadAudio(ctx context.Context, path string) (*genai.Part, error)
}
