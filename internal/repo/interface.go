package repo

import (
	"context"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
)

// TaskRepository определяет интерфейс хранилища для задач.
// Оркестратор видит БД только через него.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	// GetPendingOrderedByPriority возвращает все pending-задачи,
	// отсортированные по (priority ASC, created_at ASC) - это контракт,
	// на который опирается планировщик.
	GetPendingOrderedByPriority(ctx context.Context) ([]model.Task, error)
	// UpdateStatus переводит задачу в newStatus и возвращает статус,
	// который был до перехода. Неизвестный статус отклоняется до
	// какой-либо мутации.
	UpdateStatus(ctx context.Context, id int64, newStatus model.Status) (model.Status, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error)
	GetStats(ctx context.Context) (Stats, error)
}

// UserRepository - интерфейс хранилища для пользователей
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
}
