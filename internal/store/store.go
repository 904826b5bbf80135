// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
)

// InterviewUpdate describes a partial update to an interview. Nil fields are
// left untouched.
type InterviewUpdate struct {
	Company        *string
	Datetime       *time.Time
	Position       *string
	JobDescription *string
	Notes          *string
}

// Repository defines the interface for persisting interviews and the chat
// transcript. Lookups return (nil, nil) when the record does not exist.
type Repository interface {
	// AddInterview stores a new interview, assigning its ID and timestamps,
	// and returns the stored record.
	AddInterview(ctx context.Context, iv *domain.Interview) (*domain.Interview, error)

	// GetInterview retrieves an interview with its question banks.
	GetInterview(ctx context.Context, id string) (*domain.Interview, error)

	// ListInterviews returns all interviews in insertion order.
	ListInterviews(ctx context.Context) ([]domain.Interview, error)

	// UpdateInterview applies a partial update and returns the updated record.
	UpdateInterview(ctx context.Context, id string, update InterviewUpdate) (*domain.Interview, error)

	// DeleteInterview removes an interview and returns the deleted record.
	DeleteInterview(ctx context.Context, id string) (*domain.Interview, error)

	// SearchInterviews returns interviews whose company, position, job
	// description or notes contain the keyword (case-insensitive).
	SearchInterviews(ctx context.Context, keyword string) ([]domain.Interview, error)

	// InterviewsInRange returns interviews scheduled within [from, to].
	InterviewsInRange(ctx context.Context, from, to time.Time) ([]domain.Interview, error)

	// AddMockQuestion appends a mock question to an interview.
	AddMockQuestion(ctx context.Context, interviewID string, q domain.Question) (*domain.Question, error)

	// AddRealQuestion appends a real (asked-in-interview) question.
	AddRealQuestion(ctx context.Context, interviewID string, q domain.Question) (*domain.Question, error)

	// UpdateQuestionAnswer sets the answer on a stored question.
	UpdateQuestionAnswer(ctx context.Context, interviewID, questionID string, kind domain.QuestionKind, answer string) (*domain.Question, error)

	// DeleteQuestion removes a question from an interview.
	DeleteQuestion(ctx context.Context, interviewID, questionID string, kind domain.QuestionKind) (*domain.Question, error)

	// ReplaceInterviews swaps the full interview set (restore/import).
	ReplaceInterviews(ctx context.Context, ivs []domain.Interview) error

	// ListMessages returns the chat transcript, oldest first.
	ListMessages(ctx context.Context) ([]domain.Message, error)

	// AppendMessage appends to the transcript, trimming it to the configured
	// history limit.
	AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error)

	// ReplaceMessages swaps the full transcript (restore/import).
	ReplaceMessages(ctx context.Context, msgs []domain.Message) error

	// Statistics summarizes the stored data relative to now.
	Statistics(ctx context.Context, now time.Time) (*domain.Statistics, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
