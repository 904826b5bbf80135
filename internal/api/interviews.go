package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
	"github.com/ashureev/interview-copilot/internal/store"
	"github.com/go-chi/chi/v5"
)

// Accepted layouts for datetime fields, tried in order. The second matches
// what the frontend's datetime-local inputs produce.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", s)
}

type interviewRequest struct {
	Company        string `json:"company"`
	Datetime       string `json:"datetime"`
	Position       string `json:"position"`
	JobDescription string `json:"jobDescription"`
	Notes          string `json:"notes"`
}

func (h *Handler) listInterviews(w http.ResponseWriter, r *http.Request) {
	var (
		ivs []domain.Interview
		err error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		ivs, err = h.repo.SearchInterviews(r.Context(), q)
	} else {
		ivs, err = h.repo.ListInterviews(r.Context())
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load interviews")
		return
	}
	if ivs == nil {
		ivs = []domain.Interview{}
	}
	JSON(w, http.StatusOK, ivs)
}

func (h *Handler) createInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Company == "" || req.Datetime == "" {
		Error(w, http.StatusBadRequest, "company and datetime are required")
		return
	}
	datetime, err := parseDatetime(req.Datetime)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	iv, err := h.repo.AddInterview(r.Context(), &domain.Interview{
		Company:        req.Company,
		Datetime:       datetime,
		Position:       req.Position,
		JobDescription: req.JobDescription,
		Notes:          req.Notes,
	})
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to create interview")
		return
	}
	JSON(w, http.StatusOK, iv)
}

func (h *Handler) getInterview(w http.ResponseWriter, r *http.Request) {
	iv, err := h.repo.GetInterview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load interview")
		return
	}
	if iv == nil {
		Error(w, http.StatusNotFound, "Interview not found")
		return
	}
	JSON(w, http.StatusOK, iv)
}

type interviewUpdateRequest struct {
	Company        *string `json:"company"`
	Datetime       *string `json:"datetime"`
	Position       *string `json:"position"`
	JobDescription *string `json:"jobDescription"`
	Notes          *string `json:"notes"`
}

func (h *Handler) updateInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	update := store.InterviewUpdate{
		Company:        req.Company,
		Position:       req.Position,
		JobDescription: req.JobDescription,
		Notes:          req.Notes,
	}
	if req.Datetime != nil {
		datetime, err := parseDatetime(*req.Datetime)
		if err != nil {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Datetime = &datetime
	}

	iv, err := h.repo.UpdateInterview(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to update interview")
		return
	}
	if iv == nil {
		Error(w, http.StatusNotFound, "Interview not found")
		return
	}
	JSON(w, http.StatusOK, iv)
}

func (h *Handler) deleteInterview(w http.ResponseWriter, r *http.Request) {
	iv, err := h.repo.DeleteInterview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to delete interview")
		return
	}
	if iv == nil {
		Error(w, http.StatusNotFound, "Interview not found")
		return
	}
	JSON(w, http.StatusOK, iv)
}

func (h *Handler) interviewsInRange(w http.ResponseWriter, r *http.Request) {
	from, err := parseDatetime(r.URL.Query().Get("from"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid from parameter")
		return
	}
	to, err := parseDatetime(r.URL.Query().Get("to"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid to parameter")
		return
	}

	ivs, err := h.repo.InterviewsInRange(r.Context(), from, to)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load interviews")
		return
	}
	if ivs == nil {
		ivs = []domain.Interview{}
	}
	JSON(w, http.StatusOK, ivs)
}

type questionRequest struct {
	Type     domain.QuestionKind `json:"type"`
	Question domain.Question     `json:"question"`
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Question.Question == "" {
		Error(w, http.StatusBadRequest, "question text is required")
		return
	}

	id := chi.URLParam(r, "id")
	var (
		q   *domain.Question
		err error
	)
	if req.Type == domain.QuestionReal {
		q, err = h.repo.AddRealQuestion(r.Context(), id, req.Question)
	} else {
		q, err = h.repo.AddMockQuestion(r.Context(), id, req.Question)
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to add question")
		return
	}
	if q == nil {
		Error(w, http.StatusNotFound, "Interview not found")
		return
	}
	JSON(w, http.StatusOK, q)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	kind := domain.QuestionKind(r.URL.Query().Get("type"))
	if kind == "" {
		kind = domain.QuestionMock
	}

	q, err := h.repo.DeleteQuestion(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "questionID"), kind)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to delete question")
		return
	}
	if q == nil {
		Error(w, http.StatusNotFound, "Question not found")
		return
	}
	JSON(w, http.StatusOK, q)
}
