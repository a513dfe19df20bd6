package pipeline

import (
	"github.com/nguyentantai21042004/scribe-flow/internal/extractor"
	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
	"github.com/nguyentantai21042004/scribe-flow/internal/summarizer"
	"github.com/nguyentantai21042004/scribe-flow/internal/transcriber"
)

type implPipeline struct {
	extractor   extractor.Extractor
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger
}

// New creates a Pipeline from its three stages.
func New(ext extractor.Extractor, tr transcriber.Transcriber, sum summarizer.Summarizer, log logger.Logger) Pipeline {
	return &implPipeline{
		extractor:   ext,
		transcriber: tr,
		summarizer:  sum,
		logger:      log,
	}
}
