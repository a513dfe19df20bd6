package gemini

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

type implClient struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed Client for the given API key and model.
func NewClient(ctx context.Context, apiKey, model string) (Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &implClient{
		client: client,
		model:  model,
	}, nil
}

// GenerateText invokes generation with the given parts as a single user turn
// and concatenates the text of the first candidate.
func (c *implClient) GenerateText(ctx context.Context, parts []*genai.Part, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// UploadAudio registers an audio file with the file API and waits for it to
// become usable, returning a part referencing the uploaded file.
func (c *implClient) UploadAudio(ctx context.Context, path string) (*genai.Part, error) {
	file, err := c.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: AudioMIMEType(path),
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	// Uploaded files are not immediately usable for generation.
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}

		file, err = c.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("get file state: %w", err)
		}
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("uploaded file %s failed processing", file.Name)
	}

	return genai.NewPartFromURI(file.URI, file.MIMEType), nil
}

// AudioMIMEType maps an audio file extension to its MIME type.
func AudioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".opus", ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".aac", ".m4a":
		return "audio/aac"
	default:
		return "audio/mp3"
	}
}
