package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
	repo "github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository"

	"github.com/google/uuid"
)

type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.create(todoToCreate)
}

// CreateBatch добавляет группу задач за одну блокировку:
// либо все, либо ни одной
func (s *TodoStorage) CreateBatch(ctx context.Context, todos []*todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, t := range todos {
		if err := s.create(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *TodoStorage) create(todoToCreate *todo.Todo) error {
	// оркестратор декомпозиции задаёт created_at сам - не перетираем
	if todoToCreate.CreatedAt.IsZero() {
		todoToCreate.CreatedAt = time.Now()
	}

	s.storage[todoToCreate.ID] = todoToCreate
	s.ids = append(s.ids, todoToCreate.ID)
	return nil
}

func (s *TodoStorage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[todoToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	todoToUpdate.UpdatedAt = &now
	s.storage[todoToUpdate.ID] = todoToUpdate

	return nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	todoToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return todoToGet, nil
}

// ListByParent возвращает подзадачи по возрастанию created_at,
// при равных метках - по возрастанию строкового id
func (s *TodoStorage) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.ParentID != nil && *t.ParentID == parentID {
			res = append(res, t)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID.String() < res[j].ID.String()
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})

	return res, nil
}

// ListTopLevel возвращает задачи верхнего уровня пользователя
// по убыванию created_at, с необязательным фильтром по датам
func (s *TodoStorage) ListTopLevel(ctx context.Context, userID string, r *daterange.Range) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.ParentID != nil || t.UserID != userID {
			continue
		}
		if r != nil && !r.Contains(t.CreatedAt) {
			continue
		}
		res = append(res, t)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	return res, nil
}

// Delete удаляет задачу вместе с её подзадачами под одной блокировкой
func (s *TodoStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	toDelete := []uuid.UUID{id}
	for _, childID := range s.ids {
		t := s.storage[childID]
		if t.ParentID != nil && *t.ParentID == id {
			toDelete = append(toDelete, childID)
		}
	}

	for _, delID := range toDelete {
		delete(s.storage, delID)
		for ind, val := range s.ids {
			if val == delID {
				s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
				break
			}
		}
	}
	return nil
}
