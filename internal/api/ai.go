package api

import (
	"errors"
	"net/http"

	"github.com/ashureev/interview-copilot/internal/assistant"
	"github.com/ashureev/interview-copilot/internal/domain"
	"github.com/ashureev/interview-copilot/internal/qwen"
)

type chatRequest struct {
	Message string `json:"message"`
}

// chat runs a message through the rule-based pipeline and returns the
// assistant's reply message, already appended to the transcript.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "参数 message 必填")
		return
	}

	reply, err := h.assistant.Respond(r.Context(), req.Message)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to process message")
		return
	}
	JSON(w, http.StatusOK, reply)
}

type qwenChatRequest struct {
	Message string           `json:"message"`
	History []domain.Message `json:"history"`
}

// qwenChat proxies a single completion to the upstream model, bypassing the
// rule-based pipeline. The transcript is supplied by the caller.
func (h *Handler) qwenChat(w http.ResponseWriter, r *http.Request) {
	var req qwenChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "参数 message 必填")
		return
	}
	if h.completer == nil {
		Error(w, http.StatusInternalServerError, "缺少环境变量 QWEN_API_KEY，请先配置后重试")
		return
	}

	content, err := h.completer.Complete(r.Context(), req.Message, req.History)
	if err != nil {
		if errors.Is(err, qwen.ErrNotConfigured) {
			Error(w, http.StatusInternalServerError, "缺少环境变量 QWEN_API_KEY，请先配置后重试")
			return
		}
		Error(w, http.StatusBadGateway, "调用 AI 服务失败，请稍后重试")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"content": content})
}

type generateAnswerRequest struct {
	Question       string              `json:"question"`
	JobDescription string              `json:"jobDescription"`
	Type           domain.QuestionKind `json:"type"`
}

// generateAnswer produces a templated answer for a question without touching
// the store, used when the UI regenerates answers on demand.
func (h *Handler) generateAnswer(w http.ResponseWriter, r *http.Request) {
	var req generateAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Question == "" {
		Error(w, http.StatusBadRequest, "参数 question 必填")
		return
	}

	var answer string
	if req.Type == domain.QuestionReal {
		answer = assistant.GenerateReviewAnswer(req.Question)
	} else {
		answer = assistant.GenerateMockAnswer(req.Question, req.JobDescription)
	}
	JSON(w, http.StatusOK, map[string]string{"answer": answer})
}
