package transcriber

import (
	"github.com/nguyentantai21042004/scribe-flow/internal/gemini"
	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
)

type implTranscriber struct {
	client gemini.Client
	logger logger.Logger
}

// New creates a Transcriber backed by the given inference client.
func New(client gemini.Client, log logger.Logger) Transcriber {
	return &implTranscriber{
		client: client,
		logger: log,
	}
}
