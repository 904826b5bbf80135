// Package chat serves the realtime chat channel over WebSocket.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/interview-copilot/internal/assistant"
	"github.com/ashureev/interview-copilot/internal/domain"
	"github.com/coder/websocket"
)

// WebSocketHandler upgrades connections and relays messages through the
// assistant pipeline.
type WebSocketHandler struct {
	svc           *assistant.Service
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(svc *assistant.Service, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// inbound is one client frame. Frames other than "message" and "ping" are
// ignored.
type inbound struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

type outbound struct {
	Type    string          `json:"type"`
	Content string          `json:"content,omitempty"`
	Actions []domain.Action `json:"actions,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Info("WebSocket connection request", "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.greet(ctx, ws)
	h.readLoop(ctx, ws)
	slog.Info("Chat session ended", "ip", r.RemoteAddr)
}

// greet sends the welcome message to clients with an empty transcript so the
// first thing a new user sees is the assistant introducing itself.
func (h *WebSocketHandler) greet(ctx context.Context, ws *websocket.Conn) {
	history, err := h.svc.History(ctx)
	if err != nil {
		slog.Warn("Failed to load chat history", "error", err)
		return
	}
	if len(history) > 0 {
		return
	}
	if err := h.writeJSON(ws, outbound{Type: "reply", Content: assistant.WelcomeMessage}); err != nil {
		slog.Debug("Failed to send welcome message", "error", err)
	}
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client")
			} else {
				slog.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("Ignoring malformed frame", "error", err)
			continue
		}

		switch msg.Type {
		case "ping":
			if err := h.writeJSON(ws, outbound{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		case "message":
			if msg.Content == "" {
				continue
			}
			replyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			reply, err := h.svc.Respond(replyCtx, msg.Content)
			cancel()
			if err != nil {
				slog.Warn("Assistant pipeline failed", "error", err)
				return
			}
			if err := h.writeJSON(ws, outbound{
				Type:    "reply",
				Content: reply.Content,
				Actions: reply.Actions,
			}); err != nil {
				slog.Debug("Failed to send reply", "error", err)
				return
			}
		}
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) writeJSON(ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(context.Background(), websocket.MessageText, data)
}
