package summarizer

import "context"

// Summarizer produces a structured markdown summary of transcript text.
// It does not inspect its input: failure-marker transcripts are summarized
// like any other text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
