package handlers

import (
	"context"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/llm"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/service"

	"github.com/google/uuid"
)

type TodoService interface {
	HealthCheck(context.Context) error
	CreateTodo(ctx context.Context, userID, title, description string, parentID *uuid.UUID) (*todo.Todo, error)
	GetTodoByID(context.Context, uuid.UUID) (*todo.Todo, error)
	ListTree(ctx context.Context, userID string, r *daterange.Range) ([]*service.TodoNode, error)
	UpdateTodo(context.Context, uuid.UUID, ...todo.Option) (*todo.Todo, error)
	ChangeStatus(context.Context, uuid.UUID, todo.Status) (*todo.Todo, error)
	DeleteTodo(context.Context, uuid.UUID) error
	Decompose(ctx context.Context, userID, taskText string) (*service.DecomposeResult, error)
}

// Streamer - потоковый вариант генерации для чата и улучшения промптов
type Streamer interface {
	Stream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error)
}
