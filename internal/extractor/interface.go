package extractor

import "context"

// Extractor downloads the best audio track of a video URL into the uploads
// directory and reports the produced file path and the media title.
type Extractor interface {
	Extract(ctx context.Context, url string) (audioPath string, title string, err error)
}
