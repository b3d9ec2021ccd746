package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
	"github.com/BuzzLyutic/task-pipeline/internal/repo"
	"github.com/BuzzLyutic/task-pipeline/internal/scheduler"
)

var (
	ErrValidation = errors.New("validation error")
)

// PipelineService - фасад над оркестратором для HTTP-слоя и фонового
// прогона. Структуры оркестратора однопоточные, поэтому все обращения
// к нему идут под одним мьютексом.
type PipelineService struct {
	mu   sync.Mutex
	orch *scheduler.Orchestrator
	repo repo.TaskRepository
}

func NewPipelineService(orch *scheduler.Orchestrator, repo repo.TaskRepository) *PipelineService {
	return &PipelineService{orch: orch, repo: repo}
}

// Submit валидирует данные задачи и ставит ее в очередь приема.
func (s *PipelineService) Submit(title, description string, priority int, assigneeID *int64) (model.Task, error) {
	if err := s.validate(title, priority); err != nil { // Валидация до постановки в очередь
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.SubmitNewTask(title, description, priority, assigneeID), nil
}

// ProcessQueue сохраняет накопленные задачи в хранилище.
func (s *PipelineService) ProcessQueue(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.ProcessNewTaskQueue(ctx)
}

// LoadScheduler загружает pending-задачи в приоритетную кучу.
func (s *PipelineService) LoadScheduler(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.LoadTasksIntoScheduler(ctx)
}

// RunScheduler исполняет задачи из кучи в порядке срочности.
func (s *PipelineService) RunScheduler(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.RunTaskScheduler(ctx)
}

// CycleResult - итоги одного полного прогона конвейера.
type CycleResult struct {
	Persisted int `json:"persisted"`
	Loaded    int `json:"loaded"`
	Executed  int `json:"executed"`
}

// RunCycle прогоняет конвейер целиком: прием, загрузка, исполнение.
// Все три шага идут под одной блокировкой, чтобы параллельный Submit
// не вклинился в середину цикла.
func (s *PipelineService) RunCycle(ctx context.Context) (CycleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := CycleResult{}
	res.Persisted = s.orch.ProcessNewTaskQueue(ctx)

	loaded, err := s.orch.LoadTasksIntoScheduler(ctx)
	if err != nil {
		return res, err
	}
	res.Loaded = loaded
	res.Executed = s.orch.RunTaskScheduler(ctx)
	return res, nil
}

// Undo откатывает последний исполненный переход статуса.
func (s *PipelineService) Undo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.UndoLastAction(ctx)
}

// PipelineState - моментальный снимок структур конвейера.
type PipelineState struct {
	QueueLen     int `json:"queue_len"`
	SchedulerLen int `json:"scheduler_len"`
	UndoDepth    int `json:"undo_depth"`
}

func (s *PipelineService) State() PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PipelineState{
		QueueLen:     s.orch.QueueLen(),
		SchedulerLen: s.orch.SchedulerLen(),
		UndoDepth:    s.orch.UndoDepth(),
	}
}

// Чтение и удаление не затрагивают структуры в памяти и идут мимо
// мьютекса, репозиторий потокобезопасен сам по себе.

func (s *PipelineService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *PipelineService) List(ctx context.Context, filter model.TaskFilter, limit int) ([]model.Task, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, filter, limit)
}

func (s *PipelineService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *PipelineService) GetStats(ctx context.Context) (repo.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *PipelineService) validate(title string, priority int) error {
	if strings.TrimSpace(title) == "" {
		return ErrValidation
	}
	if priority < 1 || priority > 5 {
		return ErrValidation
	}
	return nil
}
