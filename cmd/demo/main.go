package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/config"
	"github.com/BuzzLyutic/task-pipeline/internal/repo"
	"github.com/BuzzLyutic/task-pipeline/internal/scheduler"
)

// Демонстрационный прогон конвейера целиком: пять задач через очередь
// приема, сохранение в БД, планировщик по срочности и один откат.
func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}

	ctx := context.Background()
	taskRepo := repo.NewTaskRepo(pool)
	orch := scheduler.NewOrchestrator(taskRepo, scheduler.NewLogEvents(logger))

	alice := int64(1)
	bob := int64(2)

	// Шаг 1: задачи копятся в очереди приема, БД пока не трогаем
	orch.SubmitNewTask("Fix login bug", "Login page crashes", 1, &alice)
	orch.SubmitNewTask("Deploy to prod", "Push v2.0", 2, &alice)
	orch.SubmitNewTask("Update docs", "Add new API endpoints", 4, &bob)
	orch.SubmitNewTask("Refactor legacy code", "Clean up utils.go", 5, &bob)
	orch.SubmitNewTask("Email team about meeting", "10am Friday", 1, &alice)

	// Шаг 2: очередь сбрасывается в хранилище в порядке постановки
	persisted := orch.ProcessNewTaskQueue(ctx)
	logger.Info("intake queue drained", zap.Int("persisted", persisted))

	// Шаг 3: pending-задачи загружаются в приоритетную кучу
	loaded, err := orch.LoadTasksIntoScheduler(ctx)
	if err != nil {
		logger.Fatal("failed to load scheduler", zap.Error(err))
	}
	logger.Info("scheduler loaded", zap.Int("loaded", loaded))

	// Шаг 4: исполнение в порядке срочности, 1 важнее 5
	executed := orch.RunTaskScheduler(ctx)
	logger.Info("scheduler drained", zap.Int("executed", executed))

	// Шаг 5: один откат возвращает последнюю задачу в предыдущий статус
	if err := orch.UndoLastAction(ctx); err != nil {
		logger.Warn("undo failed", zap.Error(err))
	}

	// Повторный цикл добил бы откатанную задачу, оставляем ее как есть
	logger.Info("demo finished",
		zap.Int("undo_depth", orch.UndoDepth()),
		zap.Int("queue_len", orch.QueueLen()),
	)
}
