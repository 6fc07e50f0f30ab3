package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"daybyday-backend/internal/ai"
	"daybyday-backend/internal/analytics"
	"daybyday-backend/internal/auth"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	AI Generator
	DB *sql.DB
}

func New(aiClient Generator, db *sql.DB) *Handler {
	return &Handler{AI: aiClient, DB: db}
}

// Send stores the user's message, asks the model for a reply and
// stores that too. A generation failure becomes the bot's reply text
// so the conversation history stays complete.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	body.Message = strings.TrimSpace(body.Message)
	if body.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	if err := h.insert(r.Context(), uid, "user", body.Message); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	reply, genErr := h.AI.Generate(r.Context(), ai.BuildChatPrompt(body.Message))
	if genErr != nil {
		reply = genErr.Error()
	}

	if err := h.insert(r.Context(), uid, "daybot", reply); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	env := analytics.FromRequest(r)
	env.UserID = uid
	_ = analytics.Log(r.Context(), h.DB, env, "chat_message", map[string]any{
		"message_len": len(body.Message),
		"ai_ok":       genErr == nil,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    genErr == nil,
		"reply": reply,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.DB.QueryContext(r.Context(), `
		SELECT role, text, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY id ASC
	`, uid)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Text, &m.CreatedAt); err != nil {
			http.Error(w, "db scan error", http.StatusInternalServerError)
			return
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, "db rows error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"messages": messages,
	})
}

func (h *Handler) insert(ctx context.Context, uid int, role, text string) error {
	_, err := h.DB.ExecContext(ctx, `
		INSERT INTO chat_messages (user_id, role, text)
		VALUES ($1, $2, $3)
	`, uid, role, text)
	return err
}
