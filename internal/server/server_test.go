package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/scribe-flow/internal/config"
	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
	"github.com/nguyentantai21042004/scribe-flow/internal/pipeline"
	"github.com/nguyentantai21042004/scribe-flow/internal/store"
)

type fakePipeline struct {
	result pipeline.Result
	calls  int
	urls   []string
}

func (f *fakePipeline) Process(ctx context.Context, url string) pipeline.Result {
	f.calls++
	f.urls = append(f.urls, url)
	return f.result
}

func newTestServer(t *testing.T, pipe pipeline.Pipeline) (*Server, *store.Store) {
	t.Helper()

	cfg := &config.Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	return New(cfg, st, pipe, logger.New("error")), st
}

func doJSON(t *testing.T, s *Server, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func sessionFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{})
	w := doJSON(t, s, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestTranscribeIssuesSessionCookie(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Title: "Talk", AudioPath: "p", Transcript: "t", Summary: "s"}}
	s, _ := newTestServer(t, pipe)

	w := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if sessionFrom(t, w) == "" {
		t.Error("empty session id")
	}
}

func TestTranscribeEndToEnd(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{
		Title:      "Talk",
		AudioPath:  "uploads/Talk.opus",
		Transcript: "Hello world.",
		Summary:    "# Summary\n...",
	}}
	s, st := newTestServer(t, pipe)

	w := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TaskID == "" || resp.TaskID == "0" {
		t.Errorf("task_id = %q", resp.TaskID)
	}
	if resp.VideoTitle != "Talk" || resp.Transcription != "Hello world." || resp.Summary != "# Summary\n..." {
		t.Errorf("resp = %+v", resp)
	}

	sessionID := sessionFrom(t, w)
	task, err := st.FindTask(sessionID, "https://example.com/v")
	if err != nil || task == nil {
		t.Fatalf("task not persisted: %v", err)
	}
	if task.AudioPath != "uploads/Talk.opus" {
		t.Errorf("task = %+v", task)
	}
}

func TestTranscribeCacheHit(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Title: "Talk", Transcript: "t", Summary: "s"}}
	s, _ := newTestServer(t, pipe)

	first := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	sessionID := sessionFrom(t, first)

	second := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, sessionID)
	if second.Code != http.StatusOK {
		t.Fatalf("status = %d", second.Code)
	}

	if pipe.calls != 1 {
		t.Errorf("pipeline ran %d times, want 1", pipe.calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cache hit response differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestTranscribeDistinctURLsAreDistinctKeys(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Transcript: "t", Summary: "s"}}
	s, _ := newTestServer(t, pipe)

	first := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v?x=1"}`, "")
	sessionID := sessionFrom(t, first)

	doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v?x=1&y=2"}`, sessionID)

	if pipe.calls != 2 {
		t.Errorf("pipeline ran %d times, want 2 (no URL canonicalization)", pipe.calls)
	}
}

func TestTranscribeExtractionFailure(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Err: errors.New("yt-dlp extract: network unreachable")}}
	s, st := newTestServer(t, pipe)

	w := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	sessionID := sessionFrom(t, w)
	task, err := st.FindTask(sessionID, "https://example.com/v")
	if err != nil {
		t.Fatal(err)
	}
	if task != nil {
		t.Errorf("no task row should be persisted for failed extraction, got %+v", task)
	}
}

func TestTranscribeDegradedResultPersisted(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{
		Title:      "Talk",
		AudioPath:  "uploads/Talk.opus",
		Transcript: "Transcription service is currently unavailable.",
		Summary:    "Summary service is currently unavailable.",
	}}
	s, _ := newTestServer(t, pipe)

	w := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("degraded result must look successful, status = %d", w.Code)
	}

	var resp taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Transcription != "Transcription service is currently unavailable." {
		t.Errorf("transcription = %q", resp.Transcription)
	}
}

func TestTranscribeMissingURL(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{})
	w := doJSON(t, s, http.MethodPost, "/transcribe", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListTasks(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Transcript: "t", Summary: "s"}}
	s, _ := newTestServer(t, pipe)

	first := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://a"}`, "")
	sessionID := sessionFrom(t, first)
	doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://b"}`, sessionID)

	w := doJSON(t, s, http.MethodGet, "/tasks", "", sessionID)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var tasks []taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Errorf("len(tasks) = %d, want 2", len(tasks))
	}
}

func TestDeleteTaskScoping(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Transcript: "t", Summary: "s"}}
	s, st := newTestServer(t, pipe)

	first := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	owner := sessionFrom(t, first)

	var resp taskResponse
	if err := json.Unmarshal(first.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	// A different session deleting the task gets a 404 and the row survives.
	other := doJSON(t, s, http.MethodGet, "/tasks", "", "")
	otherSession := sessionFrom(t, other)

	w := doJSON(t, s, http.MethodDelete, "/tasks/"+resp.TaskID, "", otherSession)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", w.Code)
	}
	if task, _ := st.FindTask(owner, "https://example.com/v"); task == nil {
		t.Fatal("task removed by foreign session")
	}

	w = doJSON(t, s, http.MethodDelete, "/tasks/"+resp.TaskID, "", owner)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete status = %d, body = %s", w.Code, w.Body.String())
	}
	if task, _ := st.FindTask(owner, "https://example.com/v"); task != nil {
		t.Fatal("task still present after delete")
	}
}

func TestDeleteTaskInvalidID(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{})
	w := doJSON(t, s, http.MethodDelete, "/tasks/abc", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestExportTask(t *testing.T) {
	pipe := &fakePipeline{result: pipeline.Result{Title: "Talk", Transcript: "Hello world.", Summary: "# Summary"}}
	s, _ := newTestServer(t, pipe)

	first := doJSON(t, s, http.MethodPost, "/transcribe", `{"video_url":"https://example.com/v"}`, "")
	sessionID := sessionFrom(t, first)

	var resp taskResponse
	if err := json.Unmarshal(first.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, s, http.MethodGet, "/tasks/"+resp.TaskID+"/export", "", sessionID)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Body.Len() == 0 {
		t.Error("empty export body")
	}
	if disp := w.Header().Get("Content-Disposition"); !strings.Contains(disp, "Talk.docx") {
		t.Errorf("Content-Disposition = %q", disp)
	}

	// Foreign sessions cannot export.
	w = doJSON(t, s, http.MethodGet, "/tasks/"+resp.TaskID+"/export", "", "other-session")
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign export status = %d, want 404", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{})

	req := httptest.NewRequest(http.MethodOptions, "/transcribe", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
