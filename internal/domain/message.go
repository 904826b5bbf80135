package domain

import "time"

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser MessageRole = "user"
	RoleAI   MessageRole = "ai"
)

// Message is one entry in the assistant chat transcript. Messages are
// immutable once created; the store keeps only the most recent entries.
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Actions   []Action    `json:"actions,omitempty"`
}

// ActionType names a side effect the assistant performed.
type ActionType string

const (
	ActionInterviewAdded   ActionType = "interview_added"
	ActionInterviewDeleted ActionType = "interview_deleted"
	ActionQuestionAdded    ActionType = "question_added"
)

// Action describes a completed side effect, attached to a reply so the UI
// can offer affordances such as undo for deletions.
type Action struct {
	Type ActionType `json:"type"`
	Data ActionData `json:"data"`
}

// ActionData carries the records affected by an Action. Interview is always
// set; Question and Kind are set for question_added.
type ActionData struct {
	Interview *Interview   `json:"interview,omitempty"`
	Question  *Question    `json:"question,omitempty"`
	Kind      QuestionKind `json:"kind,omitempty"`
}

// Reply is the assistant's response to one user message.
type Reply struct {
	Content string   `json:"content"`
	Actions []Action `json:"actions"`
}
