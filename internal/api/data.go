package api

import (
	"net/http"
	"time"

	"github.com/ashureev/interview-copilot/internal/domain"
)

func (h *Handler) getChatHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := h.repo.ListMessages(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	JSON(w, http.StatusOK, messages)
}

type chatHistoryRequest struct {
	Messages []domain.Message `json:"messages"`
}

func (h *Handler) saveChatHistory(w http.ResponseWriter, r *http.Request) {
	var req chatHistoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.repo.ReplaceMessages(r.Context(), req.Messages); err != nil {
		Error(w, http.StatusInternalServerError, "failed to save chat history")
		return
	}
	Message(w, http.StatusOK, "Chat history saved")
}

type syncRequest struct {
	Interviews  []domain.Interview `json:"interviews"`
	ChatHistory []domain.Message   `json:"chatHistory"`
}

// syncData replaces the server-side dataset with the client's copy. The
// client is the source of truth after offline edits.
func (h *Handler) syncData(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.repo.ReplaceInterviews(r.Context(), req.Interviews); err != nil {
		Error(w, http.StatusInternalServerError, "failed to sync interviews")
		return
	}
	if req.ChatHistory != nil {
		if err := h.repo.ReplaceMessages(r.Context(), req.ChatHistory); err != nil {
			Error(w, http.StatusInternalServerError, "failed to sync chat history")
			return
		}
	}
	Message(w, http.StatusOK, "Data synced successfully")
}

type backupPayload struct {
	Interviews  []domain.Interview `json:"interviews"`
	ChatHistory []domain.Message   `json:"chatHistory"`
	ExportTime  time.Time          `json:"exportTime"`
	Version     string             `json:"version"`
}

func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.repo.ListInterviews(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load interviews")
		return
	}
	messages, err := h.repo.ListMessages(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	if interviews == nil {
		interviews = []domain.Interview{}
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	JSON(w, http.StatusOK, backupPayload{
		Interviews:  interviews,
		ChatHistory: messages,
		ExportTime:  time.Now(),
		Version:     "1.0",
	})
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	var req backupPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.repo.ReplaceInterviews(r.Context(), req.Interviews); err != nil {
		Error(w, http.StatusInternalServerError, "failed to restore interviews")
		return
	}
	if err := h.repo.ReplaceMessages(r.Context(), req.ChatHistory); err != nil {
		Error(w, http.StatusInternalServerError, "failed to restore chat history")
		return
	}
	Message(w, http.StatusOK, "Data restored successfully")
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Statistics(r.Context(), time.Now())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	JSON(w, http.StatusOK, stats)
}
