package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/nayi-disha/backend/internal/auth"
	"github.com/nayi-disha/backend/internal/config"
	"github.com/nayi-disha/backend/internal/database"
	"github.com/nayi-disha/backend/internal/event"
	"github.com/nayi-disha/backend/internal/generator"
	"github.com/nayi-disha/backend/internal/progress"
	"github.com/nayi-disha/backend/internal/quiz"
	"github.com/nayi-disha/backend/internal/roadmap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Progress store selection. Auth routes need Postgres; they are only
	// registered when that backend is active.
	var store progress.Store
	var authHandler *auth.Handler
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = progress.NewPostgresStore(db)
		authHandler = auth.NewHandler(db, cfg.JWTSecret)
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		store = progress.NewRedisStore(client)
	default:
		log.Println("Using in-memory progress store; data is lost on restart")
		store = progress.NewMemoryStore()
	}

	gen, err := generator.New(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize AI generator: %v", err)
	}

	var events *event.Publisher
	if cfg.RabbitMQURL != "" {
		events, err = event.NewPublisher(cfg.RabbitMQURL, "nayi-disha.events")
		if err != nil {
			log.Fatalf("Failed to connect to rabbitmq: %v", err)
		}
		defer events.Close()
	}

	quizService := quiz.NewService(store, gen, events, cfg.QuizWindowSize, cfg.QuizMinQuestions, cfg.QuizMaxQuestions)
	quizHandler := quiz.NewHandler(quizService)

	roadmapService := roadmap.NewService(store, gen, events)
	roadmapHandler := roadmap.NewHandler(roadmapService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/roadmap/generate", roadmapHandler.GenerateRoadmap).Methods("POST")
	api.HandleFunc("/roadmap/{sessionId}", roadmapHandler.GetRoadmap).Methods("GET")

	api.HandleFunc("/quiz/question", quizHandler.GenerateQuestion).Methods("POST")
	api.HandleFunc("/quiz/evaluate", quizHandler.EvaluateAnswer).Methods("POST")
	api.HandleFunc("/quiz/report", quizHandler.GetModuleReport).Methods("POST")
	api.HandleFunc("/quiz/progress/{sessionId}/{moduleId}", quizHandler.GetModuleProgress).Methods("GET")

	api.HandleFunc("/session/{sessionId}", quizHandler.ClearSession).Methods("DELETE")

	if authHandler != nil {
		api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
		api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

		protected := api.PathPrefix("/auth").Subrouter()
		protected.Use(authHandler.Middleware)
		protected.HandleFunc("/me", authHandler.GetCurrentUser).Methods("GET")
	}

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "nayi-disha-backend",
			"model":   gen.ModelName(),
			"time":    time.Now().Format(time.RFC3339),
		})
	}).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Route not found"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s (store=%s, model=%s)", cfg.Port, cfg.StoreBackend, gen.ModelName())
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
