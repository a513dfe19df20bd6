package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a task does not exist or is owned by a different
// session. Callers translate it to a not-found response rather than a
// server error.
var ErrNotFound = errors.New("task not found")

// Store persists sessions and tasks in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS user_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transcription_tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	video_url TEXT NOT NULL,
	video_title TEXT NOT NULL DEFAULT '',
	audio_path TEXT NOT NULL DEFAULT '',
	transcription TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_session_url
	ON transcription_tasks(session_id, video_url);
`

// Open opens (creating if needed) the database at path with WAL enabled.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSession inserts the session row if it does not exist yet.
func (s *Store) EnsureSession(sessionID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO user_sessions (session_id) VALUES (?)
	`, sessionID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindTask returns the first task matching (sessionID, videoURL) exactly, or
// nil when none exists. URLs are compared byte-for-byte; no canonicalization.
func (s *Store) FindTask(sessionID, videoURL string) (*Task, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, video_url, video_title, audio_path, transcription, summary, created_at
		FROM transcription_tasks
		WHERE session_id = ? AND video_url = ?
		ORDER BY id ASC
		LIMIT 1
	`, sessionID, videoURL)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// InsertTask persists a task and returns its assigned id.
func (s *Store) InsertTask(t *Task) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO transcription_tasks (session_id, video_url, video_title, audio_path, transcription, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.SessionID, t.VideoURL, t.VideoTitle, t.AudioPath, t.Transcription, t.Summary, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task id: %w", err)
	}
	return id, nil
}

// TasksForSession returns all tasks owned by the session, oldest first.
func (s *Store) TasksForSession(sessionID string) ([]Task, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, video_url, video_title, audio_path, transcription, summary, created_at
		FROM transcription_tasks
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// TaskByID returns the task only if it is owned by the session, otherwise
// ErrNotFound.
func (s *Store) TaskByID(id int64, sessionID string) (*Task, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, video_url, video_title, audio_path, transcription, summary, created_at
		FROM transcription_tasks
		WHERE id = ? AND session_id = ?
	`, id, sessionID)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// DeleteTask removes the task if it is owned by the session, otherwise
// ErrNotFound.
func (s *Store) DeleteTask(id int64, sessionID string) error {
	result, err := s.db.Exec(`
		DELETE FROM transcription_tasks WHERE id = ? AND session_id = ?
	`, id, sessionID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*Task, error) {
	var t Task
	if err := row.Scan(&t.ID, &t.SessionID, &t.VideoURL, &t.VideoTitle,
		&t.AudioPath, &t.Transcription, &t.Summary, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
