package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/handlers/dto"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/llm"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/middleware"

	"go.uber.org/zap"
)

const enhanceMetaPrompt = `You are a prompt engineering expert. You turn vague user needs into a high quality, well structured prompt.

Your task: analyze the user's need, then output the improved prompt directly.

Output requirements:
1. Do not output your analysis, only the final improved prompt
2. The improved prompt should contain: a clear role definition (if needed), a precise task description, concrete constraints, output format requirements, examples when they help
3. Use Markdown, keep the structure clear
4. Reply in the same language as the user's need`

type AIHandler struct {
	TodoService TodoService
	Streamer    Streamer
}

func NewAIHandler(todoService TodoService, streamer Streamer) AIHandler {
	return AIHandler{
		TodoService: todoService,
		Streamer:    streamer,
	}
}

// Decompose разбирает задачу на подзадачи и создаёт их одним вызовом
func (h *AIHandler) Decompose(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		responseWithError(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var request dto.DecomposeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if request.Task == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "task"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "задача не может быть пустой")
		return
	}

	logger.Info("HTTP: Вызов сервиса декомпозиции")

	result, err := h.TodoService.Decompose(r.Context(), userID, request.Task)
	if err != nil {
		handleBusinessError(w, err, "не удалось разобрать задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача разобрана",
		zap.String("parent_id", result.Parent.ID.String()),
		zap.Int("sub_tasks", len(result.SubTasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("main_task", result.Parent),
		toPayload("sub_tasks", result.SubTasks),
		toPayload("message", fmt.Sprintf("задача разобрана на %d подзадач", len(result.SubTasks))),
	)
}

// Chat - потоковый чат: ответ модели уходит клиенту кусками в формате SSE
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if len(request.Messages) == 0 {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "messages"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "сообщения не могут быть пустыми")
		return
	}

	h.streamToClient(w, r, request.Messages)
}

// PromptEnhance улучшает пользовательский промпт, ответ потоковый
func (h *AIHandler) PromptEnhance(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.PromptEnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if request.Prompt == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "prompt"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "промпт не может быть пустым")
		return
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: enhanceMetaPrompt},
		{Role: llm.RoleUser, Content: "Потребность пользователя: " + request.Prompt},
	}
	h.streamToClient(w, r, messages)
}

func (h *AIHandler) streamToClient(w http.ResponseWriter, r *http.Request, messages []llm.Message) {
	start := time.Now()

	flusher, ok := w.(http.Flusher)
	if !ok {
		responseWithError(w, http.StatusInternalServerError, "потоковый ответ не поддерживается")
		return
	}

	ch, err := h.Streamer.Stream(r.Context(), messages)
	if err != nil {
		logger.Error("HTTP: Ошибка запуска потока", err)
		responseWithError(w, http.StatusServiceUnavailable, "AI сервис временно недоступен, попробуйте позже")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	chunks := 0
	for chunk := range ch {
		if chunk.Done {
			break
		}

		data, err := json.Marshal(map[string]string{"content": chunk.Text})
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
		chunks++
	}

	// финальный маркер потока
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()

	logger.Info("HTTP_OUT: Поток завершён",
		zap.Int("chunks", chunks),
		zap.Duration("ms", time.Since(start)))
}
