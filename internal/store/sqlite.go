package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db           *sql.DB
	historyLimit int
}

// NewSQLite creates a new SQLite-backed repository. historyLimit is the
// number of most-recent chat messages retained.
func NewSQLite(dbPath string, historyLimit int) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, historyLimit: historyLimit}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interviews (
		id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		datetime INTEGER NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		job_description TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interviews_datetime ON interviews(datetime);

	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		interview_id TEXT NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK (kind IN ('mock', 'real')),
		question TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		feedback TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_interview ON questions(interview_id);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		actions_json TEXT,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddInterview stores a new interview and returns the stored record.
func (s *SQLiteStore) AddInterview(ctx context.Context, iv *domain.Interview) (*domain.Interview, error) {
	now := time.Now()
	stored := *iv
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO interviews (id, company, datetime, position, job_description, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Company, stored.Datetime.Unix(), stored.Position,
		stored.JobDescription, stored.Notes, now.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert interview: %w", err)
	}

	// Questions carried on the input (e.g. restoring a deleted record) are
	// stored along with it.
	for _, q := range stored.MockQuestions {
		if err := insertQuestion(ctx, tx, stored.ID, domain.QuestionMock, &q); err != nil {
			return nil, err
		}
	}
	for _, q := range stored.RealQuestions {
		if err := insertQuestion(ctx, tx, stored.ID, domain.QuestionReal, &q); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &stored, nil
}

func insertQuestion(ctx context.Context, tx *sql.Tx, interviewID string, kind domain.QuestionKind, q *domain.Question) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO questions (id, interview_id, kind, question, answer, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, interviewID, string(kind), q.Question, q.Answer, q.Feedback, q.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// GetInterview retrieves an interview with its question banks.
func (s *SQLiteStore) GetInterview(ctx context.Context, id string) (*domain.Interview, error) {
	ivs, err := s.queryInterviews(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(ivs) == 0 {
		return nil, nil
	}
	return &ivs[0], nil
}

// ListInterviews returns all interviews in insertion order.
func (s *SQLiteStore) ListInterviews(ctx context.Context) ([]domain.Interview, error) {
	return s.queryInterviews(ctx, "")
}

// InterviewsInRange returns interviews scheduled within [from, to].
func (s *SQLiteStore) InterviewsInRange(ctx context.Context, from, to time.Time) ([]domain.Interview, error) {
	return s.queryInterviews(ctx, "WHERE datetime >= ? AND datetime <= ?", from.Unix(), to.Unix())
}

// SearchInterviews returns interviews matching the keyword.
func (s *SQLiteStore) SearchInterviews(ctx context.Context, keyword string) ([]domain.Interview, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.ListInterviews(ctx)
	}
	pattern := "%" + strings.ToLower(keyword) + "%"
	return s.queryInterviews(ctx, `
		WHERE lower(company) LIKE ? OR lower(position) LIKE ?
		   OR lower(job_description) LIKE ? OR lower(notes) LIKE ?`,
		pattern, pattern, pattern, pattern)
}

func (s *SQLiteStore) queryInterviews(ctx context.Context, where string, args ...any) ([]domain.Interview, error) {
	query := `
		SELECT id, company, datetime, position, job_description, notes, created_at, updated_at
		FROM interviews ` + where + ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	var ivs []domain.Interview
	index := make(map[string]int)
	for rows.Next() {
		var iv domain.Interview
		var datetime, createdAt, updatedAt int64
		if err := rows.Scan(&iv.ID, &iv.Company, &datetime, &iv.Position,
			&iv.JobDescription, &iv.Notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan interview row: %w", err)
		}
		iv.Datetime = time.Unix(datetime, 0)
		iv.CreatedAt = time.Unix(createdAt, 0)
		iv.UpdatedAt = time.Unix(updatedAt, 0)
		iv.MockQuestions = []domain.Question{}
		iv.RealQuestions = []domain.Question{}
		index[iv.ID] = len(ivs)
		ivs = append(ivs, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interview rows: %w", err)
	}
	if len(ivs) == 0 {
		return ivs, nil
	}

	if err := s.attachQuestions(ctx, ivs, index); err != nil {
		return nil, err
	}
	return ivs, nil
}

func (s *SQLiteStore) attachQuestions(ctx context.Context, ivs []domain.Interview, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT interview_id, kind, id, question, answer, feedback, created_at
		FROM questions ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var interviewID, kind string
		var q domain.Question
		var createdAt int64
		if err := rows.Scan(&interviewID, &kind, &q.ID, &q.Question, &q.Answer, &q.Feedback, &createdAt); err != nil {
			return fmt.Errorf("scan question row: %w", err)
		}
		q.CreatedAt = time.Unix(createdAt, 0)

		i, ok := index[interviewID]
		if !ok {
			continue
		}
		if domain.QuestionKind(kind) == domain.QuestionReal {
			ivs[i].RealQuestions = append(ivs[i].RealQuestions, q)
		} else {
			ivs[i].MockQuestions = append(ivs[i].MockQuestions, q)
		}
	}
	return rows.Err()
}

// UpdateInterview applies a partial update.
func (s *SQLiteStore) UpdateInterview(ctx context.Context, id string, update InterviewUpdate) (*domain.Interview, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().Unix()}

	if update.Company != nil {
		sets = append(sets, "company = ?")
		args = append(args, *update.Company)
	}
	if update.Datetime != nil {
		sets = append(sets, "datetime = ?")
		args = append(args, update.Datetime.Unix())
	}
	if update.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *update.Position)
	}
	if update.JobDescription != nil {
		sets = append(sets, "job_description = ?")
		args = append(args, *update.JobDescription)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE interviews SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetInterview(ctx, id)
}

// DeleteInterview removes an interview and returns the deleted record.
func (s *SQLiteStore) DeleteInterview(ctx context.Context, id string) (*domain.Interview, error) {
	iv, err := s.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE interview_id = ?", id); err != nil {
		return nil, fmt.Errorf("delete questions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM interviews WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete interview: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return iv, nil
}

// AddMockQuestion appends a mock question to an interview.
func (s *SQLiteStore) AddMockQuestion(ctx context.Context, interviewID string, q domain.Question) (*domain.Question, error) {
	return s.addQuestion(ctx, interviewID, domain.QuestionMock, q)
}

// AddRealQuestion appends a real question to an interview.
func (s *SQLiteStore) AddRealQuestion(ctx context.Context, interviewID string, q domain.Question) (*domain.Question, error) {
	return s.addQuestion(ctx, interviewID, domain.QuestionReal, q)
}

func (s *SQLiteStore) addQuestion(ctx context.Context, interviewID string, kind domain.QuestionKind, q domain.Question) (*domain.Question, error) {
	iv, err := s.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q.ID = uuid.New().String()
	q.CreatedAt = time.Now()
	if err := insertQuestion(ctx, tx, interviewID, kind, &q); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE interviews SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), interviewID); err != nil {
		return nil, fmt.Errorf("touch interview: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &q, nil
}

// UpdateQuestionAnswer sets the answer on a stored question.
func (s *SQLiteStore) UpdateQuestionAnswer(ctx context.Context, interviewID, questionID string, kind domain.QuestionKind, answer string) (*domain.Question, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE questions SET answer = ?
		WHERE id = ? AND interview_id = ? AND kind = ?`,
		answer, questionID, interviewID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("update question answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, feedback, created_at FROM questions WHERE id = ?`, questionID)
	var q domain.Question
	var createdAt int64
	if err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.Feedback, &createdAt); err != nil {
		return nil, fmt.Errorf("scan question row: %w", err)
	}
	q.CreatedAt = time.Unix(createdAt, 0)
	return &q, nil
}

// DeleteQuestion removes a question from an interview.
func (s *SQLiteStore) DeleteQuestion(ctx context.Context, interviewID, questionID string, kind domain.QuestionKind) (*domain.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, feedback, created_at
		FROM questions WHERE id = ? AND interview_id = ? AND kind = ?`,
		questionID, interviewID, string(kind))

	var q domain.Question
	var createdAt int64
	err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.Feedback, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan question row: %w", err)
	}
	q.CreatedAt = time.Unix(createdAt, 0)

	if _, err := s.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", questionID); err != nil {
		return nil, fmt.Errorf("delete question: %w", err)
	}
	return &q, nil
}

// ReplaceInterviews swaps the full interview set.
func (s *SQLiteStore) ReplaceInterviews(ctx context.Context, ivs []domain.Interview) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM interviews"); err != nil {
		return fmt.Errorf("clear interviews: %w", err)
	}

	for i := range ivs {
		iv := &ivs[i]
		if iv.ID == "" {
			iv.ID = uuid.New().String()
		}
		now := time.Now()
		if iv.CreatedAt.IsZero() {
			iv.CreatedAt = now
		}
		iv.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO interviews (id, company, datetime, position, job_description, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			iv.ID, iv.Company, iv.Datetime.Unix(), iv.Position,
			iv.JobDescription, iv.Notes, iv.CreatedAt.Unix(), iv.UpdatedAt.Unix(),
		); err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}
		for j := range iv.MockQuestions {
			if err := insertQuestion(ctx, tx, iv.ID, domain.QuestionMock, &iv.MockQuestions[j]); err != nil {
				return err
			}
		}
		for j := range iv.RealQuestions {
			if err := insertQuestion(ctx, tx, iv.ID, domain.QuestionReal, &iv.RealQuestions[j]); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListMessages returns the chat transcript, oldest first.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, role, content, actions_json, created_at FROM chat_messages ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var actionsJSON sql.NullString
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &actionsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		msg.Timestamp = time.Unix(createdAt, 0)
		if actionsJSON.Valid && actionsJSON.String != "" {
			if err := json.Unmarshal([]byte(actionsJSON.String), &msg.Actions); err != nil {
				return nil, fmt.Errorf("decode message actions: %w", err)
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// AppendMessage appends a message, trimming the transcript to the limit.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	var actionsJSON any
	if len(msg.Actions) > 0 {
		encoded, err := json.Marshal(msg.Actions)
		if err != nil {
			return nil, fmt.Errorf("encode message actions: %w", err)
		}
		actionsJSON = string(encoded)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, role, content, actions_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Content, actionsJSON, msg.Timestamp.Unix(),
	); err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chat_messages WHERE rowid NOT IN (
			SELECT rowid FROM chat_messages ORDER BY rowid DESC LIMIT ?
		)`, s.historyLimit,
	); err != nil {
		return nil, fmt.Errorf("trim chat history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &msg, nil
}

// ReplaceMessages swaps the full transcript.
func (s *SQLiteStore) ReplaceMessages(ctx context.Context, msgs []domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chat_messages"); err != nil {
		return fmt.Errorf("clear chat messages: %w", err)
	}

	start := 0
	if len(msgs) > s.historyLimit {
		start = len(msgs) - s.historyLimit
	}
	for _, msg := range msgs[start:] {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}
		var actionsJSON any
		if len(msg.Actions) > 0 {
			encoded, err := json.Marshal(msg.Actions)
			if err != nil {
				return fmt.Errorf("encode message actions: %w", err)
			}
			actionsJSON = string(encoded)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chat_messages (id, role, content, actions_json, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			msg.ID, string(msg.Role), msg.Content, actionsJSON, msg.Timestamp.Unix(),
		); err != nil {
			return fmt.Errorf("insert chat message: %w", err)
		}
	}

	return tx.Commit()
}

// Statistics summarizes the stored data relative to now.
func (s *SQLiteStore) Statistics(ctx context.Context, now time.Time) (*domain.Statistics, error) {
	ivs, err := s.ListInterviews(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.Statistics{TotalInterviews: len(ivs)}
	companies := make(map[string]struct{})
	for i := range ivs {
		iv := &ivs[i]
		companies[iv.Company] = struct{}{}
		stats.QuestionsCount += iv.QuestionCount()
		if iv.Datetime.Year() == now.Year() && iv.Datetime.Month() == now.Month() {
			stats.ThisMonthInterviews++
		}
		if iv.Datetime.After(now) {
			stats.UpcomingInterviews++
		} else {
			stats.CompletedInterviews++
		}
	}
	stats.CompaniesCount = len(companies)

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chat_messages")
	if err := row.Scan(&stats.TotalChatMessages); err != nil {
		return nil, fmt.Errorf("count chat messages: %w", err)
	}
	return stats, nil
}
