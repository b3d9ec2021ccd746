package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
)

var (
	ErrorNotFound      = errors.New("not found")
	ErrorConflict      = errors.New("conflict")
	ErrorInvalidStatus = errors.New("invalid status")
)

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if t.Status == "" {
		t.Status = model.StatusPending
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, priority, status, assignee_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, priority, status, assignee_id, created_at, updated_at
	`, t.Title, t.Description, t.Priority, t.Status, t.AssigneeID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, priority, status, assignee_id, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) GetPendingOrderedByPriority(ctx context.Context) ([]model.Task, error) {
	// Порядок (priority ASC, created_at ASC) - контракт планировщика,
	// id добивает стабильность при равных created_at.
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, priority, status, assignee_id, created_at, updated_at
		FROM tasks
		WHERE status = 'pending'
		ORDER BY priority ASC, created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateStatus переводит задачу в newStatus внутри транзакции и возвращает
// предыдущий статус - именно его оркестратор кладет в undo-стек.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id int64, newStatus model.Status) (model.Status, error) {
	if !newStatus.Valid() { // Отклоняем до какого-либо обращения к строке
		return "", ErrorInvalidStatus
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) // После Commit - безвредный no-op

	var prev model.Status
	err = tx.QueryRow(ctx, `
		SELECT status FROM tasks WHERE id = $1 FOR UPDATE
	`, id).Scan(&prev)
	if err == pgx.ErrNoRows {
		return "", ErrorNotFound
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE tasks SET status = $2, updated_at = now() WHERE id = $1
	`, id, newStatus); err != nil {
		return "", mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return prev, nil
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error) {
	query := `
		SELECT id, title, description, priority, status, assignee_id, created_at, updated_at
		FROM tasks
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, filter.Status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503": // unique_violation, foreign_key_violation
			return ErrorConflict
		case "23514": // check_violation - статус вне enum'а
			return ErrorInvalidStatus
		}
	}
	return err
}
