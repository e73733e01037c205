package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
	rep "github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TodoService struct {
	repo TodoRepository
	llm  Generator
}

func NewTodoService(repo TodoRepository, llm Generator) TodoService {
	return TodoService{
		repo: repo,
		llm:  llm,
	}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TodoService) CreateTodo(ctx context.Context, userID, title, description string, parentID *uuid.UUID) (*todo.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	// подзадача может ссылаться только на существующую задачу верхнего уровня
	if parentID != nil {
		parent, err := s.repo.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, rep.ErrNotFound) {
				logger.Info("Service: Родительская задача не найдена", zap.String("parent_id", parentID.String()))
				return nil, NewNotFound(parentID.String())
			}
			return nil, NewStoreFailure("get_parent", err)
		}
		if !parent.IsTopLevel() {
			return nil, NewValidationError("parent_id", "родитель должен быть задачей верхнего уровня")
		}
	}

	todoToCreate := &todo.Todo{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      todo.StatusPending,
		ParentID:    parentID,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, todoToCreate); err != nil {
		return nil, NewStoreFailure("create", err)
	}
	return todoToCreate, nil
}

func (s *TodoService) GetTodoByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewStoreFailure("get", err)
	}
	return t, nil
}

// UpdateTodo меняет поля задачи без побочных эффектов на семью.
// Смена статуса идёт отдельным путём через ChangeStatus.
func (s *TodoService) UpdateTodo(ctx context.Context, id uuid.UUID, options ...todo.Option) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewStoreFailure("get", err)
	}

	for _, opt := range options {
		opt(t)
	}

	if strings.TrimSpace(t.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, NewStoreFailure("update", err)
	}
	return t, nil
}

// DeleteTodo удаляет задачу вместе со всеми её подзадачами
func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(id.String())
		}
		return NewStoreFailure("get", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return NewStoreFailure("delete", err)
	}
	return nil
}

// ListTree возвращает дерево задач пользователя: верхний уровень по
// убыванию created_at, подзадачи по возрастанию. Фильтр по датам
// применяется только к задачам верхнего уровня.
func (s *TodoService) ListTree(ctx context.Context, userID string, r *daterange.Range) ([]*TodoNode, error) {
	parents, err := s.repo.ListTopLevel(ctx, userID, r)
	if err != nil {
		return nil, NewStoreFailure("list_top_level", err)
	}

	nodes := make([]*TodoNode, 0, len(parents))
	for _, parent := range parents {
		children, err := s.repo.ListByParent(ctx, parent.ID)
		if err != nil {
			return nil, NewStoreFailure("list_by_parent", err)
		}
		nodes = append(nodes, newNode(parent, children))
	}
	return nodes, nil
}
