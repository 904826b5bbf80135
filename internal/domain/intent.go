package domain

// IntentType is the category a chat message was classified into.
type IntentType string

const (
	IntentAddInterview    IntentType = "add_interview"
	IntentDeleteInterview IntentType = "delete_interview"
	IntentAddQuestion     IntentType = "add_question"
	IntentGeneralQuery    IntentType = "general_query"
)

// Entities holds the structured fields extracted from a free-text message.
// Time is the raw phrase as matched, not a parsed timestamp.
type Entities struct {
	Company  string
	Time     string
	Position string
	Question string
	IsReal   bool
}

// Intent is the classification result for one incoming message. Entities are
// read-only input to exactly one handler invocation.
type Intent struct {
	Type       IntentType
	Confidence float64
	Entities   Entities
}
