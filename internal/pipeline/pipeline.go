package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/scribe-flow/internal/gemini"
)

// Fixed degraded-result strings. Callers see these in place of transcript or
// summary text when the inference backend fails or is not configured.
const (
	transcriptionUnavailable = "Transcription service is currently unavailable."
	summaryUnavailable       = "Summary service is currently unavailable."
)

// Process runs the three stages strictly in sequence. Extraction failure
// aborts the run and yields an error-shaped result. Transcription and
// summarization errors are flattened into the respective text fields, so a
// run that got past extraction always yields a success-shaped result, even a
// semantically degraded one. The engines themselves return typed errors; the
// flattening happens here and only here.
func (p *implPipeline) Process(ctx context.Context, url string) Result {
	startTime := time.Now()

	p.logger.Info(ctx, "Starting pipeline: %s", url)

	audioPath, title, err := p.extractor.Extract(ctx, url)
	if err != nil {
		p.logger.Error(ctx, "Extraction failed for %s: %v", url, err)
		return Result{Err: err}
	}

	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		p.logger.Warn(ctx, "Transcription degraded for %s: %v", url, err)
		transcript = flatten("Transcription", transcriptionUnavailable, err)
	}

	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		p.logger.Warn(ctx, "Summarization degraded for %s: %v", url, err)
		summary = flatten("Summarization", summaryUnavailable, err)
	}

	p.logger.Info(ctx, "Pipeline completed in %s: %s", time.Since(startTime), url)

	return Result{
		Title:      title,
		AudioPath:  audioPath,
		Transcript: transcript,
		Summary:    summary,
	}
}

// flatten converts an engine error into the user-visible degraded string.
func flatten(stage, unavailableMsg string, err error) string {
	if errors.Is(err, gemini.ErrUnavailable) {
		return unavailableMsg
	}
	return fmt.Sprintf("%s failed: %v", stage, err)
}
