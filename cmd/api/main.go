package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"daybyday-backend/internal/ai"
	"daybyday-backend/internal/auth"
	"daybyday-backend/internal/chat"
	"daybyday-backend/internal/config"
	"daybyday-backend/internal/db"
	"daybyday-backend/internal/projects"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatal("❌ Failed to ensure schema:", err)
	}

	log.Println("✅ Connected to PostgreSQL!")

	secret := []byte(cfg.JWTSecret)
	mw := auth.New(secret)

	aiClient := ai.New(cfg.GeminiKey, cfg.GeminiModel)
	projectHandler := projects.New(projects.NewStore(database), aiClient, database)
	chatHandler := chat.New(aiClient, database)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("/auth/register", onlyPost(auth.RegisterHandler(database, secret)))
	mux.HandleFunc("/auth/login", onlyPost(auth.LoginHandler(database, secret)))
	mux.HandleFunc("/auth/logout", onlyPost(mw.Wrap(auth.LogoutHandler())))
	mux.HandleFunc("/auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("/auth/account", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			mw.Wrap(auth.DeleteAccountHandler(database))(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- PROJECTS API -----
	mux.HandleFunc("/projects", mw.Wrap(projectHandler.List))
	mux.HandleFunc("/project", mw.Wrap(projectHandler.Get))
	mux.HandleFunc("/project/generate", onlyPost(mw.Wrap(projectHandler.Generate)))
	mux.HandleFunc("/project/regenerate", onlyPost(mw.Wrap(projectHandler.Regenerate)))
	mux.HandleFunc("/project/task", onlyPost(mw.Wrap(projectHandler.AddTask)))
	mux.HandleFunc("/project/task/toggle", onlyPost(mw.Wrap(projectHandler.ToggleTask)))
	mux.HandleFunc("/project/task/delete", onlyPost(mw.Wrap(projectHandler.DeleteTask)))

	// ----- CHAT API -----
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mw.Wrap(chatHandler.History)(w, r)
		case http.MethodPost:
			mw.Wrap(chatHandler.Send)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-Session-Id"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("🚀 API server is running on", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func onlyPost(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			next(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
