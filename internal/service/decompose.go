package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const decomposeSystemPrompt = `You are a task decomposition assistant. The user gives you one broad task and you break it down into 3-5 small concrete steps.
Rules:
1. Every step must be specific and actionable
2. Steps must follow a logical order
3. Return only the list of steps, one step per line
4. Do not add numbering or any other formatting
5. Reply in the same language as the task`

const maxSteps = 5

// маркеры нумерации и буллитов в ответе модели ("1. ", "1、", "- ", "• ")
var (
	numberMarker = regexp.MustCompile(`^[\d]+[.、)\]]\s*`)
	bulletMarker = regexp.MustCompile(`^[-•]\s*`)
)

// parseSteps разбирает сырой ответ модели на шаги: построчно, с обрезкой
// пробелов и маркеров перечисления, пустые строки отбрасываются,
// не больше maxSteps шагов
func parseSteps(raw string) []string {
	steps := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = numberMarker.ReplaceAllString(line, "")
		line = bulletMarker.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		steps = append(steps, line)
		if len(steps) == maxSteps {
			break
		}
	}
	return steps
}

// Phase фиксирует, до какой фазы дошла двухфазная запись декомпозиции
type Phase string

const (
	PhaseNone          Phase = "none"
	PhaseParentCreated Phase = "parent_created"
	PhaseCompleted     Phase = "completed"
)

type DecomposeResult struct {
	Parent   *todo.Todo   `json:"main_task"`
	SubTasks []*todo.Todo `json:"sub_tasks"`
	Phase    Phase        `json:"-"`
}

// Decompose разбивает текст задачи на подзадачи через внешнюю модель и
// создаёт родителя с упорядоченными детьми. До создания родителя никакие
// строки не пишутся; если упала запись детей, созданный родитель
// возвращается вместе с ошибкой (фаза parent_created), чтобы вызывающий
// видел частичное состояние, а не гадал по содержимому хранилища.
func (s *TodoService) Decompose(ctx context.Context, userID, taskText string) (*DecomposeResult, error) {
	if strings.TrimSpace(taskText) == "" {
		return nil, NewValidationError("task", "задача не может быть пустой")
	}

	raw, err := s.llm.Complete(ctx, decomposeSystemPrompt, taskText)
	if err != nil {
		logger.Error("Service: Ошибка вызова модели", err)
		return nil, NewAIUnavailable(err)
	}

	steps := parseSteps(raw)
	if len(steps) == 0 {
		logger.Warn("Service: Модель не вернула ни одного шага",
			zap.Int("raw_len", len(raw)))
		return nil, NewDecompositionEmpty()
	}

	now := time.Now()
	parent := &todo.Todo{
		ID:        uuid.New(),
		Title:     taskText,
		Status:    todo.StatusPending,
		UserID:    userID,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, parent); err != nil {
		return &DecomposeResult{Phase: PhaseNone}, NewStoreFailure("create_parent", err)
	}

	// created_at детей строго возрастает с шагом в секунду: сортировка
	// по created_at сама восстанавливает порядок шагов
	subTasks := make([]*todo.Todo, 0, len(steps))
	for i, step := range steps {
		subTasks = append(subTasks, &todo.Todo{
			ID:        uuid.New(),
			Title:     step,
			Status:    todo.StatusPending,
			ParentID:  &parent.ID,
			UserID:    userID,
			CreatedAt: now.Add(time.Duration(i+1) * time.Second),
		})
	}

	if err := s.repo.CreateBatch(ctx, subTasks); err != nil {
		logger.Error("Service: Подзадачи не созданы, родитель остался без детей", err,
			zap.String("parent_id", parent.ID.String()))
		return &DecomposeResult{Parent: parent, Phase: PhaseParentCreated}, NewStoreFailure("create_subtasks", err)
	}

	logger.Info("Service: Задача разобрана на подзадачи",
		zap.String("parent_id", parent.ID.String()),
		zap.Int("steps", len(steps)))

	return &DecomposeResult{
		Parent:   parent,
		SubTasks: subTasks,
		Phase:    PhaseCompleted,
	}, nil
}
