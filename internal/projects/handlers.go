package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"daybyday-backend/internal/ai"
	"daybyday-backend/internal/analytics"
	"daybyday-backend/internal/auth"
	"daybyday-backend/internal/plan"
)

// Generator is the AI collaborator: one prompt in, free text or a
// failure out. The failure reason is opaque and passed through as-is.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Handler struct {
	Store Store
	AI    Generator
	DB    *sql.DB // analytics only; nil disables event logging
}

func New(store Store, aiClient Generator, db *sql.DB) *Handler {
	return &Handler{
		Store: store,
		AI:    aiClient,
		DB:    db,
	}
}

func (h *Handler) logEvent(r *http.Request, uid int, name string, props map[string]any) {
	if h.DB == nil {
		return
	}
	env := analytics.FromRequest(r)
	env.UserID = uid
	_ = analytics.Log(r.Context(), h.DB, env, name, props)
}

// -------------------------------
// HANDLERS
// -------------------------------

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	titles, err := h.Store.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if titles == nil {
		titles = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"projects": titles,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	proj, err := h.Store.Load(r.Context(), uid, title)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "no project", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proj)
}

// Generate creates a brand-new project: AI text -> parsed plan ->
// fresh structure with ids assigned from zero.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	prompt := ai.BuildPlanPrompt(body.Title, body.Description)
	text, err := h.AI.Generate(r.Context(), prompt)
	if err != nil {
		// generation failure is opaque; never parsed as a plan
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	proj := plan.Project{
		Title:       body.Title,
		Description: body.Description,
		Tasks:       plan.ReplacePlan(plan.Parse(text)),
		RawPlan:     text,
	}

	if err := h.Store.Save(r.Context(), uid, proj); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logEvent(r, uid, "plan_generated", map[string]any{
		"task_count": countTasks(proj.Tasks),
		"text_len":   len(text),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proj)
}

// Regenerate asks the AI again for an existing project and appends the
// parsed result onto the current structure. Running it twice appends
// twice; existing tasks keep their ids and done flags.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	proj, err := h.Store.Load(r.Context(), uid, strings.TrimSpace(body.Title))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "no project", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	prompt := ai.BuildPlanPrompt(proj.Title, proj.Description)
	text, err := h.AI.Generate(r.Context(), prompt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	proj.Tasks = plan.MergeParsedPlan(proj.Tasks, plan.Parse(text))
	proj.RawPlan = text

	if err := h.Store.Save(r.Context(), uid, proj); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logEvent(r, uid, "plan_regenerated", map[string]any{
		"task_count": countTasks(proj.Tasks),
		"text_len":   len(text),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proj)
}

func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Title string `json:"title"`
		Day   int    `json:"day"`
		Text  string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(body.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	h.mutate(w, r, uid, body.Title, "task_added", map[string]any{"day": body.Day}, func(d *plan.Days) error {
		return d.Add(body.Day, body.Text)
	})
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Title string `json:"title"`
		Day   int    `json:"day"`
		Index int    `json:"index"`
		Done  bool   `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	props := map[string]any{"day": body.Day, "done": body.Done}
	h.mutate(w, r, uid, body.Title, "task_toggled", props, func(d *plan.Days) error {
		return d.Toggle(body.Day, body.Index, body.Done)
	})
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Title string `json:"title"`
		Day   int    `json:"day"`
		Index int    `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	h.mutate(w, r, uid, body.Title, "task_deleted", map[string]any{"day": body.Day}, func(d *plan.Days) error {
		return d.Delete(body.Day, body.Index)
	})
}

// mutate loads the project, applies one reconciler operation and saves
// the result. Out-of-range operations are rejected with 400 and the
// stored project stays as it was.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, uid int, title, event string, props map[string]any, op func(*plan.Days) error) {
	proj, err := h.Store.Load(r.Context(), uid, strings.TrimSpace(title))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "no project", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if err := op(&proj.Tasks); err != nil {
		if errors.Is(err, plan.ErrOutOfRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "operation failed", http.StatusInternalServerError)
		return
	}

	if err := h.Store.Save(r.Context(), uid, proj); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.logEvent(r, uid, event, props)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proj)
}

func countTasks(d plan.Days) int {
	n := 0
	for i := range d {
		n += len(d[i])
	}
	return n
}
