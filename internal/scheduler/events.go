package scheduler

import (
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
)

// Events - события конвейера. Оркестратор только сообщает факты,
// как их журналировать - решает приложение.
type Events interface {
	TaskEnqueued(t model.Task)
	TaskPersisted(t model.Task)
	TaskFailed(t model.Task, err error)
	TaskExecuted(t model.Task, priority int)
	UndoApplied(taskID int64, restored model.Status)
}

// NopEvents отбрасывает все события.
type NopEvents struct{}

func (NopEvents) TaskEnqueued(model.Task)         {}
func (NopEvents) TaskPersisted(model.Task)        {}
func (NopEvents) TaskFailed(model.Task, error)    {}
func (NopEvents) TaskExecuted(model.Task, int)    {}
func (NopEvents) UndoApplied(int64, model.Status) {}

// LogEvents пишет события конвейера в zap.
type LogEvents struct {
	logger *zap.Logger
}

func NewLogEvents(logger *zap.Logger) *LogEvents {
	return &LogEvents{logger: logger}
}

func (e *LogEvents) TaskEnqueued(t model.Task) {
	e.logger.Info("task enqueued",
		zap.String("title", t.Title),
		zap.Int("priority", t.Priority),
	)
}

func (e *LogEvents) TaskPersisted(t model.Task) {
	e.logger.Info("task persisted",
		zap.Int64("task_id", t.ID),
		zap.String("title", t.Title),
	)
}

func (e *LogEvents) TaskFailed(t model.Task, err error) {
	e.logger.Error("task failed",
		zap.Int64("task_id", t.ID),
		zap.String("title", t.Title),
		zap.Error(err),
	)
}

func (e *LogEvents) TaskExecuted(t model.Task, priority int) {
	e.logger.Info("task executed",
		zap.Int64("task_id", t.ID),
		zap.String("title", t.Title),
		zap.Int("priority", priority),
		zap.String("status", string(t.Status)),
	)
}

func (e *LogEvents) UndoApplied(taskID int64, restored model.Status) {
	e.logger.Info("undo applied",
		zap.Int64("task_id", taskID),
		zap.String("restored_status", string(restored)),
	)
}
