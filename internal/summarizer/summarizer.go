package summarizer

import (
	"context"

	"google.golang.org/genai"
)

// maxSummaryTokens caps the summary length; transcripts are uncapped but
// summaries are bounded.
const maxSummaryTokens = 8191

const summaryInstruction = `You are an advanced language model specialized in text summarization. Your task is to process transcribed audio and produce extensive and comprehensive summaries. Follow these guidelines:
1. **Context Preservation:** Accurately capture the key points, nuances, and tone of the original content. Maintain the original intent and message of the speaker(s).
2. **Clarity and Coherence:** Write the summary in a clear, structured, and logical format, ensuring it flows naturally and is easy to understand.
3. **Extensiveness:** Provide a detailed summary that includes all significant aspects of the transcript, such as arguments, examples, and conclusions. Aim to create a thorough representation rather than a brief overview.
4. **Segmentation:** If the video covers multiple topics, organize the summary into distinct sections or headings reflecting those topics.
5. **Focus on Relevance:** Exclude irrelevant information, filler words, and repetitive content unless they contribute meaningfully to the context.
6. **Formatting:** Adhere strictly to the markdown format. Use line breaks, title and subtitle headings, bullet points, numbered lists, or subheadings as appropriate to enhance readability and comprehension.
7. **Neutrality:** Remain objective and avoid introducing any bias or personal interpretations.
Produce a well-rounded and exhaustive summary that provides the reader with a deep understanding of the video content without the need to refer to the original transcript.`

// Summarize sends the transcript to the inference backend and returns a
// long-form markdown summary.
func (s *implSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   maxSummaryTokens,
		SystemInstruction: genai.NewContentFromText(summaryInstruction, genai.RoleUser),
	}

	parts := []*genai.Part{genai.NewPartFromText(text)}

	s.logger.Info(ctx, "Summarizing transcript (%d chars)", len(text))
	return s.client.GenerateText(ctx, parts, cfg)
}
