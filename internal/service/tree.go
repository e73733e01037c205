package service

import (
	"sort"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
)

// TodoNode - задача верхнего уровня вместе с её подзадачами
type TodoNode struct {
	*todo.Todo
	SubTasks []*todo.Todo `json:"sub_tasks"`
}

// newNode группирует подзадачи под родителем и фиксирует порядок
// отображения: по возрастанию created_at, при совпадении меток времени
// (грубость часов при пакетном создании) - по возрастанию строкового id
func newNode(parent *todo.Todo, children []*todo.Todo) *TodoNode {
	sorted := make([]*todo.Todo, len(children))
	copy(sorted, children)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID.String() < sorted[j].ID.String()
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	return &TodoNode{
		Todo:     parent,
		SubTasks: sorted,
	}
}
