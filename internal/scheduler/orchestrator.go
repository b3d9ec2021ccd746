package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
	"github.com/BuzzLyutic/task-pipeline/internal/repo"
	"github.com/BuzzLyutic/task-pipeline/internal/structures"
)

var ErrNothingToUndo = errors.New("nothing to undo")

// Orchestrator гоняет задачи по конвейеру:
// очередь приема -> хранилище -> приоритетная куча -> исполнение -> undo-стек.
//
// Структуры в памяти однопоточные. Оркестратор не синхронизируется сам,
// сериализацию обращений обеспечивает вызывающий слой.
type Orchestrator struct {
	repo   repo.TaskRepository
	ingest *structures.Queue[model.Task]
	sched  *structures.PriorityQueue[model.Task]
	undo   *structures.Stack[model.UndoAction]
	events Events
}

// Конструктор
func NewOrchestrator(r repo.TaskRepository, events Events) *Orchestrator {
	if events == nil {
		events = NopEvents{}
	}
	return &Orchestrator{
		repo:   r,
		ingest: structures.NewQueue[model.Task](),
		sched:  structures.NewPriorityQueue[model.Task](),
		undo:   structures.NewStack[model.UndoAction](),
		events: events,
	}
}

// SubmitNewTask ставит новую задачу в очередь приема. Хранилище на этом
// шаге не трогаем, ID у задачи еще нет.
func (o *Orchestrator) SubmitNewTask(title, description string, priority int, assigneeID *int64) model.Task {
	task := model.Task{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      model.StatusPending,
		AssigneeID:  assigneeID,
	}
	o.ingest.Enqueue(task)
	o.events.TaskEnqueued(task)
	return task
}

// ProcessNewTaskQueue досуха выгребает очередь приема в хранилище и
// возвращает число сохраненных задач. Порядок сохранения совпадает с
// порядком постановки. Задача, которую не удалось сохранить, выбывает,
// остальные обрабатываются дальше.
func (o *Orchestrator) ProcessNewTaskQueue(ctx context.Context) int {
	persisted := 0
	for {
		task, ok := o.ingest.Dequeue()
		if !ok {
			break
		}
		created, err := o.repo.Create(ctx, task)
		if err != nil {
			o.events.TaskFailed(task, err)
			continue
		}
		persisted++
		o.events.TaskPersisted(created)
	}
	return persisted
}

// LoadTasksIntoScheduler переносит все pending-задачи из хранилища в
// приоритетную кучу и возвращает число загруженных.
func (o *Orchestrator) LoadTasksIntoScheduler(ctx context.Context) (int, error) {
	pending, err := o.repo.GetPendingOrderedByPriority(ctx)
	if err != nil {
		return 0, fmt.Errorf("load pending tasks: %w", err)
	}
	for _, task := range pending {
		o.sched.Insert(task, task.Priority)
	}
	return len(pending), nil
}

// RunTaskScheduler исполняет задачи из кучи в порядке срочности.
// Каждая задача проходит pending -> in_progress -> completed; undo-запись
// остается только от первого перехода. Если перевести задачу в
// in_progress не удалось, она пропускается и цикл продолжается.
func (o *Orchestrator) RunTaskScheduler(ctx context.Context) int {
	executed := 0
	for {
		priority, task, ok := o.sched.ExtractMin()
		if !ok {
			break
		}

		prev, err := o.repo.UpdateStatus(ctx, task.ID, model.StatusInProgress)
		if err != nil {
			// Перехода не было, откатывать нечего
			o.events.TaskFailed(task, err)
			continue
		}
		task.Status = model.StatusInProgress
		o.undo.Push(model.UndoAction{
			Kind:           model.UndoStatusRevert,
			TaskID:         task.ID,
			PreviousStatus: prev,
		})
		executed++

		if _, err := o.repo.UpdateStatus(ctx, task.ID, model.StatusCompleted); err != nil {
			o.events.TaskFailed(task, err)
		} else {
			task.Status = model.StatusCompleted
		}
		o.events.TaskExecuted(task, priority)
	}
	return executed
}

// UndoLastAction снимает последнее undo-действие и проигрывает его через
// хранилище. Действие расходуется в любом случае, даже если откат в
// хранилище не удался.
func (o *Orchestrator) UndoLastAction(ctx context.Context) error {
	action, ok := o.undo.Pop()
	if !ok {
		return ErrNothingToUndo
	}

	switch action.Kind {
	case model.UndoStatusRevert:
		if _, err := o.repo.UpdateStatus(ctx, action.TaskID, action.PreviousStatus); err != nil {
			return fmt.Errorf("revert task %d: %w", action.TaskID, err)
		}
		o.events.UndoApplied(action.TaskID, action.PreviousStatus)
		return nil
	default:
		return fmt.Errorf("unknown undo action %q", action.Kind)
	}
}

// QueueLen возвращает длину очереди приема.
func (o *Orchestrator) QueueLen() int { return o.ingest.Len() }

// SchedulerLen возвращает число задач, ожидающих в куче.
func (o *Orchestrator) SchedulerLen() int { return o.sched.Len() }

// UndoDepth возвращает глубину undo-стека.
func (o *Orchestrator) UndoDepth() int { return o.undo.Len() }
