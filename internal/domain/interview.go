// Package domain defines the core data types shared across the application.
package domain

import "time"

// QuestionKind distinguishes prepared mock questions from questions the
// candidate was actually asked.
type QuestionKind string

const (
	QuestionMock QuestionKind = "mock"
	QuestionReal QuestionKind = "real"
)

// Question is a single interview question attached to an Interview.
// Feedback is only used for real questions.
type Question struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Interview is a scheduled interview with its attached question banks.
type Interview struct {
	ID             string     `json:"id"`
	Company        string     `json:"company"`
	Datetime       time.Time  `json:"datetime"`
	Position       string     `json:"position"`
	JobDescription string     `json:"jobDescription"`
	Notes          string     `json:"notes"`
	MockQuestions  []Question `json:"mockQuestions"`
	RealQuestions  []Question `json:"realQuestions"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// QuestionCount returns the total number of questions on the interview.
func (i *Interview) QuestionCount() int {
	return len(i.MockQuestions) + len(i.RealQuestions)
}

// Statistics summarizes the stored interviews for the dashboard.
type Statistics struct {
	TotalInterviews     int `json:"totalInterviews"`
	ThisMonthInterviews int `json:"thisMonthInterviews"`
	UpcomingInterviews  int `json:"upcomingInterviews"`
	CompletedInterviews int `json:"completedInterviews"`
	CompaniesCount      int `json:"companiesCount"`
	QuestionsCount      int `json:"questionsCount"`
	TotalChatMessages   int `json:"totalChatMessages"`
}
