package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/config"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/handlers"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/llm"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/middleware"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository/todo/inmemory"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository/todo/postgres"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, err := a.buildRepository(ctx)
	if err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}

	llmClient := llm.New(a.config.AI.BaseURL, a.config.APIKey(), a.config.AI.Model, a.config.AI.RequestTimeout)

	todoService := service.NewTodoService(repo, llmClient)
	todoHandler := handlers.NewTodoHandler(&todoService)
	aiHandler := handlers.NewAIHandler(&todoService, llmClient)

	router := a.buildRouter(&todoHandler, &aiHandler)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: router,
	}

	return nil
}

func (a *App) buildRepository(ctx context.Context) (service.TodoRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL)
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage, nil
	case "inmemory", "":
		return inmemory.NewTodoStorage(), nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", a.config.Repository.Type)
	}
}

func (a *App) buildRouter(todoHandler *handlers.TodoHandler, aiHandler *handlers.AIHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))

	auth := middleware.Auth(a.tokenVerifier())

	r.Route("/todos", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/", todoHandler.GetTodos)  // GET /todos
		r.Post("/", todoHandler.PostTodo) // POST /todos

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", todoHandler.GetTodoByID)       // GET /todos/{id}
			r.Patch("/", todoHandler.PatchTodoByID)   // PATCH /todos/{id}
			r.Delete("/", todoHandler.DeleteTodoByID) // DELETE /todos/{id}
		})
	})

	r.Route("/ai", func(r chi.Router) {
		r.Use(auth)
		// потоковые ответы могут идти долго, таймаут здесь не вешаем:
		// у клиента генерации свой таймаут запроса

		r.Post("/decompose", aiHandler.Decompose)           // POST /ai/decompose
		r.Post("/chat", aiHandler.Chat)                     // POST /ai/chat
		r.Post("/prompt-enhance", aiHandler.PromptEnhance)  // POST /ai/prompt-enhance
	})

	r.Get("/health", todoHandler.HealthCheck)

	return r
}

func (a *App) tokenVerifier() middleware.TokenVerifier {
	tokens := a.config.Auth.Tokens
	return func(token string) (string, error) {
		userID, ok := tokens[token]
		if !ok {
			return "", fmt.Errorf("неизвестный токен")
		}
		return userID, nil
	}
}

// Run поднимает HTTP сервер и гасит его при отмене контекста
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("Server started: " + a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	a.runShutdowns()
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
