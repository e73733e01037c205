package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/handlers/dto"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/middleware"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TodoHandler struct {
	TodoService TodoService
}

func NewTodoHandler(todoService TodoService) TodoHandler {
	return TodoHandler{
		TodoService: todoService,
	}
}

func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		responseWithError(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	// фильтр по датам: all/today/week/month считаются от текущей даты,
	// custom берёт границы из параметров как есть
	filter := daterange.Selector(r.URL.Query().Get("filter"))
	var dateRange *daterange.Range
	if filter == daterange.SelectorCustom {
		dateRange = daterange.Custom(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	} else {
		dateRange = daterange.Resolve(filter, time.Now())
	}

	logger.Info("HTTP: Вызов сервиса для получения дерева задач")

	tree, err := h.TodoService.ListTree(r.Context(), userID, dateRange)
	if err != nil {
		handleBusinessError(w, err, "не удалось получить задачи")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tree)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, tree)
}

func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		responseWithError(w, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if request.Title == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задач")

	created, err := h.TodoService.CreateTodo(r.Context(), userID, request.Title, request.Description, request.ParentID)
	if err != nil {
		handleBusinessError(w, err, "не удалось создать задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, created)
}

func (h *TodoHandler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задачи")

	t, err := h.TodoService.GetTodoByID(r.Context(), id)
	if err != nil {
		handleBusinessError(w, err, "не удалось получить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", t.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, t)
}

func (h *TodoHandler) PatchTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTodoRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	if request.Title == nil && request.Description == nil && request.Status == nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("error", "empty_update"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не передано ни одного поля для обновления")
		return
	}

	if request.Status != nil && !todo.ValidStatus(*request.Status) {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "status"),
			zap.String("error", "wrong_value"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "допустимые статусы: pending, completed")
		return
	}

	var updated *todo.Todo
	var err error

	// текстовые поля меняются напрямую, смена статуса идёт через
	// каскадный движок
	options := []todo.Option{}
	if request.Title != nil {
		options = append(options, todo.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, todo.WithDescription(*request.Description))
	}

	if len(options) > 0 {
		logger.Info("HTTP: запрос к сервису обновления данных")
		updated, err = h.TodoService.UpdateTodo(r.Context(), id, options...)
		if err != nil {
			handleBusinessError(w, err, "не удалось обновить задачу")
			return
		}
	}

	if request.Status != nil {
		logger.Info("HTTP: запрос к сервису смены статуса")
		updated, err = h.TodoService.ChangeStatus(r.Context(), id, *request.Status)
		if err != nil {
			handleBusinessError(w, err, "не удалось сменить статус")
			return
		}
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, updated)
}

func (h *TodoHandler) DeleteTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	if err := h.TodoService.DeleteTodo(r.Context(), id); err != nil {
		handleBusinessError(w, err, "не удалось удалить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена вместе с подзадачами",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("message", "задача удалена"))
}

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TodoService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	healthCheck(w)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id:"+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}

	return id, true
}
