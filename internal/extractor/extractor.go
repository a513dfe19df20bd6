package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Extract downloads the best available audio stream with yt-dlp and converts
// it to mono opus. The output filename stem is the media title, so identical
// titles overwrite each other (last writer wins).
//
// Both --print directives run at the after_move stage so they share one
// print pass and stdout follows option order: file path first, then title.
// An unprefixed title would print at the earlier video stage and come out
// before the path. The title may be empty for sources without metadata,
// which is valid.
func (e *implExtractor) Extract(ctx context.Context, url string) (string, string, error) {
	outputTemplate := filepath.Join(e.uploadsDir, "%(title)s.%(ext)s")

	e.logger.Info(ctx, "Extracting audio: %s", url)

	args := []string{
		"--no-playlist",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "opus",
		"--postprocessor-args", "ExtractAudio:-ac 1",
		"-o", outputTemplate,
		"--no-simulate",
		"--print", "after_move:filepath",
		"--print", "after_move:title",
		url,
	}

	out, err := e.executor.Execute(ctx, "yt-dlp", args...)
	if err != nil {
		return "", "", fmt.Errorf("yt-dlp extract: %w", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 1 || strings.TrimSpace(lines[0]) == "" {
		return "", "", fmt.Errorf("yt-dlp extract: no output path reported")
	}

	audioPath := strings.TrimSpace(lines[0])
	title := ""
	if len(lines) > 1 {
		title = strings.TrimSpace(lines[1])
	}

	e.logger.Info(ctx, "Audio extracted: %s", audioPath)
	return audioPath, title, nil
}
