package transcriber

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/scribe-flow/internal/gemini"
)

// inlineUploadThreshold is the largest payload sent inline, in bytes (20 MiB).
// Files strictly larger are registered with the file API and referenced by
// handle instead, since the backend rejects oversized inline requests.
const inlineUploadThreshold = 20971520

const transcriptionPrompt = `Role: You are the world's leading court reporter, renowned for your exceptional accuracy and speed in transcribing audio and video recordings, particularly in legal settings. Your expertise lies in capturing every spoken word and nuance, while prioritizing clarity and conciseness for legal proceedings. Above all, your transcriptions are known for being completely verbatim, with no omissions or lapses in time.

Task: Precise Transcription
Meticulously transcribe the audio/video file, adhering to the following guidelines:

Verbatim Accuracy: Capture every single utterance, including filler words ("um", "ah"), stutters, false starts, repetitions, and even nonverbal cues like laughter or sighs, to provide a complete and faithful representation of the recording.

Clarity: Maintain clear differentiation between speakers, using consistent formatting.

Punctuation: Apply proper punctuation to ensure readability and convey the intended meaning.

Timestamps: Do not insert any timestamps. Start a new paragraph when the speaker changes subject.`

// Transcribe sends the audio to the inference backend and returns the
// transcript text. Low temperature keeps decoding close to verbatim; no
// output cap is set so transcripts may be arbitrarily long.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("stat audio file: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	}

	var parts []*genai.Part
	if info.Size() > inlineUploadThreshold {
		t.logger.Info(ctx, "Audio file is %d bytes, using file upload: %s", info.Size(), audioPath)

		filePart, err := t.client.UploadAudio(ctx, audioPath)
		if err != nil {
			return "", err
		}
		parts = []*genai.Part{
			genai.NewPartFromText(transcriptionPrompt),
			filePart,
		}
	} else {
		data, err := os.ReadFile(audioPath)
		if err != nil {
			return "", fmt.Errorf("read audio file: %w", err)
		}
		parts = []*genai.Part{
			genai.NewPartFromText(transcriptionPrompt),
			genai.NewPartFromBytes(data, gemini.AudioMIMEType(audioPath)),
		}
	}

	t.logger.Info(ctx, "Transcribing audio: %s", audioPath)
	return t.client.GenerateText(ctx, parts, cfg)
}
