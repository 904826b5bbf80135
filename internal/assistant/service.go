// Package assistant implements the rule-based chat assistant: intent
// classification, entity extraction, Chinese date parsing and the action
// handlers that drive the interview store.
package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
	"github.com/ashureev/interview-copilot/internal/store"
)

// Completer is the external chat-completion collaborator. Implementations
// fail with an error on transport problems or non-2xx upstream responses;
// the assistant falls back to the local responder.
type Completer interface {
	Complete(ctx context.Context, message string, history []domain.Message) (string, error)
}

// Service orchestrates the chat pipeline: classify, dispatch to a handler,
// persist the transcript.
type Service struct {
	repo      store.Repository
	completer Completer
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates an assistant service. completer may be nil, in which
// case general questions are answered by the local responder only.
func NewService(repo store.Repository, completer Completer, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		completer: completer,
		logger:    logger,
		now:       time.Now,
	}
}

// Respond processes one user message end to end and returns the stored
// assistant message. Pipeline failures degrade to an apology reply; the
// returned error is reserved for context cancellation.
func (s *Service) Respond(ctx context.Context, text string) (*domain.Message, error) {
	userMsg := domain.Message{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	}
	if _, err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		// History persistence is best effort; the reply still goes out.
		s.logger.Warn("failed to persist user message", "error", err)
	}

	intent := IdentifyIntent(text)
	s.logger.Info("message classified",
		"intent", intent.Type, "confidence", intent.Confidence)

	reply := s.dispatch(ctx, text, intent)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aiMsg := domain.Message{
		Role:      domain.RoleAI,
		Content:   reply.Content,
		Timestamp: s.now(),
		Actions:   reply.Actions,
	}
	stored, err := s.repo.AppendMessage(ctx, aiMsg)
	if err != nil {
		s.logger.Warn("failed to persist assistant message", "error", err)
		return &aiMsg, nil
	}
	return stored, nil
}

// History returns the persisted transcript.
func (s *Service) History(ctx context.Context) ([]domain.Message, error) {
	return s.repo.ListMessages(ctx)
}

func (s *Service) dispatch(ctx context.Context, text string, intent domain.Intent) *domain.Reply {
	switch intent.Type {
	case domain.IntentAddInterview:
		return s.handleAddInterview(ctx, intent)
	case domain.IntentDeleteInterview:
		return s.handleDeleteInterview(ctx, intent)
	case domain.IntentAddQuestion:
		return s.handleAddQuestion(ctx, text, intent)
	default:
		return s.handleGeneralQuery(ctx, text)
	}
}
