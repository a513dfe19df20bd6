package pipeline

import "context"

// Result is the outcome of one pipeline run. Err is set only when extraction
// fails; inference failures are folded into Transcript/Summary as text and
// leave the result success-shaped.
type Result struct {
	Title      string
	AudioPath  string
	Transcript string
	Summary    string
	Err        error
}

// Pipeline runs extract -> transcribe -> summarize for a video URL.
type Pipeline interface {
	Process(ctx context.Context, url string) Result
}
