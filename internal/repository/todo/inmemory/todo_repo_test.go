package inmemory

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
	repo "github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

func newTodo(userID, title string, parentID *uuid.UUID, createdAt time.Time) *todo.Todo {
	return &todo.Todo{
		ID:        uuid.New(),
		Title:     title,
		Status:    todo.StatusPending,
		ParentID:  parentID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// TestTodoStorage_CreateAndGet тестирует создание и чтение задачи
func TestTodoStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	created := newTodo("user-1", "Test Task", nil, time.Time{})
	require.NoError(t, storage.Create(ctx, created))

	// created_at проставляется при создании, если не задан
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Task", got.Title)
	assert.Equal(t, todo.StatusPending, got.Status)
}

// TestTodoStorage_CreatePreservesCreatedAt тестирует сохранение
// заданного вызывающим created_at
func TestTodoStorage_CreatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	stamp := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	created := newTodo("user-1", "Test Task", nil, stamp)
	require.NoError(t, storage.Create(ctx, created))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(stamp))
}

// TestTodoStorage_GetByID_NotFound тестирует чтение несуществующей задачи
func TestTodoStorage_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	_, err := storage.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// TestTodoStorage_Update тестирует обновление задачи
func TestTodoStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	created := newTodo("user-1", "Test Task", nil, time.Time{})
	require.NoError(t, storage.Create(ctx, created))

	created.Title = "Updated Task"
	created.Status = todo.StatusCompleted
	require.NoError(t, storage.Update(ctx, created))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Task", got.Title)
	assert.Equal(t, todo.StatusCompleted, got.Status)
	require.NotNil(t, got.UpdatedAt)
}

// TestTodoStorage_Update_NotFound тестирует обновление несуществующей задачи
func TestTodoStorage_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	err := storage.Update(ctx, newTodo("user-1", "ghost", nil, time.Time{}))
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// TestTodoStorage_Delete_Cascade тестирует каскадное удаление подзадач
func TestTodoStorage_Delete_Cascade(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	parent := newTodo("user-1", "parent", nil, time.Time{})
	require.NoError(t, storage.Create(ctx, parent))

	child1 := newTodo("user-1", "child 1", &parent.ID, time.Time{})
	child2 := newTodo("user-1", "child 2", &parent.ID, time.Time{})
	require.NoError(t, storage.CreateBatch(ctx, []*todo.Todo{child1, child2}))

	other := newTodo("user-1", "other", nil, time.Time{})
	require.NoError(t, storage.Create(ctx, other))

	require.NoError(t, storage.Delete(ctx, parent.ID))

	_, err := storage.GetByID(ctx, parent.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = storage.GetByID(ctx, child1.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = storage.GetByID(ctx, child2.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// чужие задачи не задеты
	_, err = storage.GetByID(ctx, other.ID)
	assert.NoError(t, err)
}

// TestTodoStorage_Delete_NotFound тестирует удаление несуществующей задачи
func TestTodoStorage_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	err := storage.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// TestTodoStorage_ListTopLevel тестирует выборку верхнего уровня:
// только свои задачи без родителя, по убыванию created_at
func TestTodoStorage_ListTopLevel(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()
	base := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	older := newTodo("user-1", "older", nil, base)
	newer := newTodo("user-1", "newer", nil, base.Add(time.Hour))
	foreign := newTodo("user-2", "foreign", nil, base)
	require.NoError(t, storage.CreateBatch(ctx, []*todo.Todo{older, newer, foreign}))

	sub := newTodo("user-1", "sub", &older.ID, base)
	require.NoError(t, storage.Create(ctx, sub))

	res, err := storage.ListTopLevel(ctx, "user-1", nil)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "newer", res[0].Title)
	assert.Equal(t, "older", res[1].Title)
}

// TestTodoStorage_ListTopLevel_DateRange тестирует фильтр по диапазону дат
func TestTodoStorage_ListTopLevel_DateRange(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()

	inside := newTodo("user-1", "inside", nil, time.Date(2024, time.June, 15, 23, 30, 0, 0, time.Local))
	before := newTodo("user-1", "before", nil, time.Date(2024, time.June, 14, 23, 59, 59, 0, time.Local))
	after := newTodo("user-1", "after", nil, time.Date(2024, time.June, 16, 0, 0, 0, 0, time.Local))
	require.NoError(t, storage.CreateBatch(ctx, []*todo.Todo{inside, before, after}))

	r := daterange.Custom("2024-06-15", "2024-06-15")
	res, err := storage.ListTopLevel(ctx, "user-1", r)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "inside", res[0].Title)
}

// TestTodoStorage_ListByParent тестирует порядок подзадач:
// по возрастанию created_at, при равных метках - по строковому id
func TestTodoStorage_ListByParent(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()
	base := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	parent := newTodo("user-1", "parent", nil, base)
	require.NoError(t, storage.Create(ctx, parent))

	second := newTodo("user-1", "second", &parent.ID, base.Add(2*time.Second))
	first := newTodo("user-1", "first", &parent.ID, base.Add(time.Second))
	require.NoError(t, storage.CreateBatch(ctx, []*todo.Todo{second, first}))

	res, err := storage.ListByParent(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "first", res[0].Title)
	assert.Equal(t, "second", res[1].Title)
}

// TestTodoStorage_ListByParent_TieBreak тестирует детерминированный
// порядок при одинаковом created_at
func TestTodoStorage_ListByParent_TieBreak(t *testing.T) {
	ctx := context.Background()
	storage := NewTodoStorage()
	base := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	parent := newTodo("user-1", "parent", nil, base)
	require.NoError(t, storage.Create(ctx, parent))

	subA := newTodo("user-1", "a", &parent.ID, base)
	subA.ID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	subB := newTodo("user-1", "b", &parent.ID, base)
	subB.ID = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	require.NoError(t, storage.CreateBatch(ctx, []*todo.Todo{subB, subA}))

	res, err := storage.ListByParent(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Title)
	assert.Equal(t, "b", res[1].Title)
}
