package service

import (
	"context"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"

	"github.com/google/uuid"
)

type TodoRepository interface {
	Create(context.Context, *todo.Todo) error
	CreateBatch(context.Context, []*todo.Todo) error
	Update(context.Context, *todo.Todo) error
	GetByID(context.Context, uuid.UUID) (*todo.Todo, error)
	ListByParent(context.Context, uuid.UUID) ([]*todo.Todo, error)
	ListTopLevel(context.Context, string, *daterange.Range) ([]*todo.Todo, error)
	Delete(context.Context, uuid.UUID) error
	HealthCheck(context.Context) error
}

// Generator - внешняя способность генерации текста (для декомпозиции)
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
