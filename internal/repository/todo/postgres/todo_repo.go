package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/logger"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/models/todo"
	repo "github.com/dengyh1993/Ai-ToDoList-Demo/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()

	query := `INSERT INTO todos
				(id, title, description, status, parent_id, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`

	createdAt := todoToCreate.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := s.pool.QueryRow(ctx, query,
		todoToCreate.ID,
		todoToCreate.Title,
		todoToCreate.Description,
		todoToCreate.Status,
		todoToCreate.ParentID,
		todoToCreate.UserID,
		createdAt,
	).Scan(&todoToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// CreateBatch добавляет группу подзадач в одной транзакции
func (s *Storage) CreateBatch(ctx context.Context, todos []*todo.Todo) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO todos
				(id, title, description, status, parent_id, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, t := range todos {
		_, err := tx.Exec(ctx, query,
			t.ID,
			t.Title,
			t.Description,
			t.Status,
			t.ParentID,
			t.UserID,
			t.CreatedAt,
		)
		if err != nil {
			logger.Error("Repository: Не удалось добавить подзадачу", err,
				zap.String("task_id", t.ID.String()))
			return fmt.Errorf("добавление подзадачи: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	start := time.Now()

	query := `UPDATE todos
			SET title = $1,
				description = $2,
				status = $3,
				updated_at = NOW()
			WHERE id = $4
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		todoToUpdate.Title,
		todoToUpdate.Description,
		todoToUpdate.Status,
		todoToUpdate.ID,
	).Scan(&todoToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				status,
				parent_id,
				user_id,
				created_at,
				updated_at
				FROM todos
				WHERE id = $1`

	t := &todo.Todo{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.ParentID,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

// ListByParent возвращает подзадачи по возрастанию created_at,
// при равных метках порядок детерминирован по строковому id
func (s *Storage) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				status,
				parent_id,
				user_id,
				created_at,
				updated_at
				FROM todos
				WHERE parent_id = $1
				ORDER BY created_at ASC, id::text ASC`

	rows, err := s.pool.Query(ctx, query, parentID)
	if err != nil {
		logger.Error("Repository: Не удалось получить подзадачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение подзадач: %w", err)
	}
	defer rows.Close()

	return s.scanList(rows, start)
}

// ListTopLevel возвращает задачи верхнего уровня (parent_id IS NULL)
// по убыванию created_at, с необязательным фильтром по датам
func (s *Storage) ListTopLevel(ctx context.Context, userID string, r *daterange.Range) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				status,
				parent_id,
				user_id,
				created_at,
				updated_at
				FROM todos
				WHERE user_id = $1 AND parent_id IS NULL`
	args := []any{userID}

	if r != nil {
		from, to, err := r.Bounds(time.Local)
		if err != nil {
			return nil, fmt.Errorf("разбор интервала дат: %w", err)
		}
		query += ` AND created_at BETWEEN $2 AND $3`
		args = append(args, from, to)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	return s.scanList(rows, start)
}

// Delete удаляет задачу и все её подзадачи в одной транзакции:
// осиротевших подзадач после удаления не остаётся
func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM todos WHERE parent_id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить подзадачи", err)
		return fmt.Errorf("удаление подзадач: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) scanList(rows pgx.Rows, start time.Time) ([]*todo.Todo, error) {
	res := []*todo.Todo{}
	for rows.Next() {
		t := &todo.Todo{}
		err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.ParentID,
			&t.UserID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logger.Error("Repository: Ошибка чтения строки", err)
			return nil, fmt.Errorf("чтение строки: %w", err)
		}
		res = append(res, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return res, nil
}
