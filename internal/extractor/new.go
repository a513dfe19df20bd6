package extractor

import (
	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
	"github.com/nguyentantai21042004/scribe-flow/pkg/executor"
)

type implExtractor struct {
	uploadsDir string
	executor   executor.Executor
	logger     logger.Logger
}

// New creates an Extractor that writes audio files into uploadsDir.
func New(uploadsDir string, exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		uploadsDir: uploadsDir,
		executor:   exec,
		logger:     log,
	}
}
