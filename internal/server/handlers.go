package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/scribe-flow/internal/export"
	"github.com/nguyentantai21042004/scribe-flow/internal/store"
)

type transcribeRequest struct {
	VideoURL string `json:"video_url" binding:"required"`
}

type taskResponse struct {
	TaskID        string `json:"task_id"`
	VideoURL      string `json:"video_url"`
	VideoTitle    string `json:"video_title"`
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
}

func toTaskResponse(t *store.Task) taskResponse {
	return taskResponse{
		TaskID:        strconv.FormatInt(t.ID, 10),
		VideoURL:      t.VideoURL,
		VideoTitle:    t.VideoTitle,
		Transcription: t.Transcription,
		Summary:       t.Summary,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleTranscribe runs the pipeline for a video URL, unless the same
// (session, URL) pair has already been processed, in which case the stored
// result is returned without touching the extraction or inference backends.
// The URL is used exactly as given; no canonicalization.
func (s *Server) handleTranscribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "video_url is required"})
		return
	}

	ctx := c.Request.Context()
	sessionID := c.GetString(sessionCookie)

	existing, err := s.store.FindTask(sessionID, req.VideoURL)
	if err != nil {
		s.logger.Error(ctx, "Task lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}
	if existing != nil {
		s.logger.Info(ctx, "Cache hit for %s", req.VideoURL)
		c.JSON(http.StatusOK, toTaskResponse(existing))
		return
	}

	result := s.pipeline.Process(ctx, req.VideoURL)
	if result.Err != nil {
		// No task row is persisted for failed extractions.
		c.JSON(http.StatusInternalServerError, gin.H{"detail": result.Err.Error()})
		return
	}

	task := &store.Task{
		SessionID:     sessionID,
		VideoURL:      req.VideoURL,
		VideoTitle:    result.Title,
		AudioPath:     result.AudioPath,
		Transcription: result.Transcript,
		Summary:       result.Summary,
	}

	id, err := s.store.InsertTask(task)
	if err != nil {
		s.logger.Error(ctx, "Task insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}
	task.ID = id

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// handleListTasks returns all tasks for the caller's session.
func (s *Server) handleListTasks(c *gin.Context) {
	sessionID := c.GetString(sessionCookie)

	tasks, err := s.store.TasksForSession(sessionID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "Task list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}

	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// handleDeleteTask deletes the caller's task and best-effort removes its
// audio file. Missing and foreign tasks are indistinguishable: both 404.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found or not authorized for deletion"})
		return
	}

	ctx := c.Request.Context()
	sessionID := c.GetString(sessionCookie)

	task, err := s.store.TaskByID(id, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found or not authorized for deletion"})
			return
		}
		s.logger.Error(ctx, "Task lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database error during task deletion"})
		return
	}

	if task.AudioPath != "" {
		if err := os.Remove(task.AudioPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn(ctx, "Could not delete audio file %s: %v", task.AudioPath, err)
		}
	}

	if err := s.store.DeleteTask(id, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found or not authorized for deletion"})
			return
		}
		s.logger.Error(ctx, "Task delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database error during task deletion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// handleExportTask renders the caller's task as a docx attachment.
func (s *Server) handleExportTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}

	ctx := c.Request.Context()
	sessionID := c.GetString(sessionCookie)

	task, err := s.store.TaskByID(id, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
			return
		}
		s.logger.Error(ctx, "Task lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "database error"})
		return
	}

	tmpDir, err := os.MkdirTemp("", "export-*")
	if err != nil {
		s.logger.Error(ctx, "Export temp dir failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "export error"})
		return
	}
	defer os.RemoveAll(tmpDir)

	docxPath := filepath.Join(tmpDir, "task.docx")
	if err := export.TaskDocx(task, docxPath); err != nil {
		s.logger.Error(ctx, "Export render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "export error"})
		return
	}

	name := task.VideoTitle
	if name == "" {
		name = "task-" + strconv.FormatInt(task.ID, 10)
	}
	c.FileAttachment(docxPath, name+".docx")
}
