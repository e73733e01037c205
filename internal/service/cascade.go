package service

import (
	"context"
	"errors"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
	rep "github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Каскад статусов работает ровно на два яруса: смена статуса родителя
// безусловно проставляется всем подзадачам, смена статуса подзадачи
// пересчитывает статус родителя по совокупности всех подзадач.
// При конкурентных изменениях побеждает последняя зафиксированная запись;
// следующая выборка дерева показывает согласованное состояние.

// cascadeDown возвращает подзадачи, которым нужно проставить новый статус
func cascadeDown(children []*todo.Todo, status todo.Status) []*todo.Todo {
	changed := []*todo.Todo{}
	for _, c := range children {
		if c.Status != status {
			c.Status = status
			changed = append(changed, c)
		}
	}
	return changed
}

// reconcileParent вычисляет статус родителя по снимку всех подзадач:
// все завершены - родитель завершён, иначе родитель ожидает.
// Для пустой семьи статус родителя не трогается.
func reconcileParent(parent *todo.Todo, siblings []*todo.Todo) (todo.Status, bool) {
	if len(siblings) == 0 {
		return parent.Status, false
	}

	next := todo.StatusCompleted
	for _, s := range siblings {
		if s.Status != todo.StatusCompleted {
			next = todo.StatusPending
			break
		}
	}
	return next, next != parent.Status
}

// ChangeStatus применяет смену статуса задачи и поддерживает инвариант
// "родитель завершён тогда и только тогда, когда завершены все подзадачи".
// Любая ошибка хранилища возвращается вызывающему: частично применённый
// каскад допустим и обнаруживается повторной выборкой дерева.
func (s *TodoService) ChangeStatus(ctx context.Context, id uuid.UUID, status todo.Status) (*todo.Todo, error) {
	if !todo.ValidStatus(status) {
		return nil, NewValidationError("status", "допустимы только pending и completed")
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewStoreFailure("get", err)
	}

	t.Status = status
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, NewStoreFailure("update", err)
	}

	if t.IsTopLevel() {
		if err := s.cascadeToChildren(ctx, t.ID, status); err != nil {
			return nil, err
		}
	} else {
		if err := s.reconcileFamily(ctx, *t.ParentID); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (s *TodoService) cascadeToChildren(ctx context.Context, parentID uuid.UUID, status todo.Status) error {
	children, err := s.repo.ListByParent(ctx, parentID)
	if err != nil {
		return NewStoreFailure("list_by_parent", err)
	}

	for _, c := range cascadeDown(children, status) {
		if err := s.repo.Update(ctx, c); err != nil {
			logger.Error("Service: Каскад на подзадачу не применён", err,
				zap.String("parent_id", parentID.String()),
				zap.String("child_id", c.ID.String()))
			return NewStoreFailure("cascade_child", err)
		}
	}

	logger.Info("Service: Каскад статуса применён к подзадачам",
		zap.String("parent_id", parentID.String()),
		zap.Int("children", len(children)))
	return nil
}

func (s *TodoService) reconcileFamily(ctx context.Context, parentID uuid.UUID) error {
	// перечитываем всех братьев, включая только что обновлённого
	siblings, err := s.repo.ListByParent(ctx, parentID)
	if err != nil {
		return NewStoreFailure("list_by_parent", err)
	}

	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(parentID.String())
		}
		return NewStoreFailure("get_parent", err)
	}

	next, changed := reconcileParent(parent, siblings)
	if !changed {
		return nil
	}

	parent.Status = next
	if err := s.repo.Update(ctx, parent); err != nil {
		logger.Error("Service: Статус родителя не пересчитан", err,
			zap.String("parent_id", parentID.String()))
		return NewStoreFailure("reconcile_parent", err)
	}

	logger.Info("Service: Статус родителя пересчитан",
		zap.String("parent_id", parentID.String()),
		zap.String("status", string(next)))
	return nil
}
