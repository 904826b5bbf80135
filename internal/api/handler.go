// Package api provides the HTTP handlers for the interview copilot API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ashureev/interview-copilot/internal/assistant"
	"github.com/ashureev/interview-copilot/internal/store"
	"github.com/go-chi/chi/v5"
)

// Handler bundles the dependencies shared by all routes.
type Handler struct {
	repo      store.Repository
	assistant *assistant.Service
	completer assistant.Completer
}

// NewHandler creates a new Handler.
func NewHandler(repo store.Repository, svc *assistant.Service, completer assistant.Completer) *Handler {
	return &Handler{
		repo:      repo,
		assistant: svc,
		completer: completer,
	}
}

// RegisterRoutes mounts all API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/interviews", func(r chi.Router) {
			r.Get("/", h.listInterviews)
			r.Post("/", h.createInterview)
			r.Get("/range", h.interviewsInRange)
			r.Get("/{id}", h.getInterview)
			r.Put("/{id}", h.updateInterview)
			r.Delete("/{id}", h.deleteInterview)
			r.Post("/{id}/questions", h.addQuestion)
			r.Delete("/{id}/questions/{questionID}", h.deleteQuestion)
		})
		r.Route("/ai", func(r chi.Router) {
			r.Post("/chat", h.chat)
			r.Post("/qwen-chat", h.qwenChat)
			r.Post("/generate-answer", h.generateAnswer)
		})
		r.Get("/chat-history", h.getChatHistory)
		r.Post("/chat-history", h.saveChatHistory)
		r.Post("/sync", h.syncData)
		r.Get("/backup", h.backup)
		r.Post("/restore", h.restore)
		r.Get("/statistics", h.statistics)
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

// Message writes a success envelope carrying only a message.
func Message(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: true, Message: message})
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: false, Error: message})
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		http.Error(w, `{"success":false,"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
