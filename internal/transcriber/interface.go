package transcriber

import "context"

// Transcriber produces a verbatim text transcript of an audio file.
// Backend failures are reported as errors; the pipeline decides how they
// surface to the caller.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
