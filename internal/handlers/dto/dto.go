package dto

import (
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/llm"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

type UpdateTodoRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *todo.Status `json:"status,omitempty"`
}

type DecomposeRequest struct {
	Task string `json:"task"`
}

type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type PromptEnhanceRequest struct {
	Prompt string `json:"prompt"`
}
