package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/config"
	"github.com/BuzzLyutic/task-pipeline/internal/handler"
	"github.com/BuzzLyutic/task-pipeline/internal/repo"
	"github.com/BuzzLyutic/task-pipeline/internal/scheduler"
	"github.com/BuzzLyutic/task-pipeline/internal/service"
	"github.com/BuzzLyutic/task-pipeline/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL) // Создаем новое соединение к БД
	if err != nil {
		log.Fatal("Failed to connect to Database.") // Fatal потому что дальнейшая работа теряет смысл
	}
	defer pool.Close() // Запланированное закрытие соединения

	if err := pool.Ping(context.Background()); err != nil { // Пытаемся пингануть БД
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	// Собираем конвейер
	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	orch := scheduler.NewOrchestrator(taskRepo, scheduler.NewLogEvents(logger))
	pipeline := service.NewPipelineService(orch, taskRepo)
	users := service.NewUserService(userRepo)

	taskHandler := handler.NewTaskHandler(pipeline, logger)
	userHandler := handler.NewUserHandler(users, logger)

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/{id}", taskHandler.Get)
		r.Delete("/{id}", taskHandler.Delete)
	})

	r.Route("/api/pipeline", func(r chi.Router) {
		r.Get("/", taskHandler.State)
		r.Post("/process", taskHandler.ProcessQueue)
		r.Post("/load", taskHandler.LoadScheduler)
		r.Post("/run", taskHandler.RunScheduler)
		r.Post("/cycle", taskHandler.RunCycle)
	})

	r.Post("/api/undo", taskHandler.Undo)
	r.Get("/api/stats", taskHandler.Stats)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/{id}", userHandler.Get)
	})

	// Фоновый прогон конвейера, если включен в конфиге
	var runner *worker.Runner
	if cfg.PipelineInterval > 0 {
		runner = worker.NewRunner(pipeline, logger, cfg.PipelineInterval)
		runner.Start(context.Background())
	}

	srv := http.Server{ // Создаем сервер
		Addr: ":" + cfg.Port,
		Handler: r,
		ReadTimeout: 10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func ()  { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	if runner != nil {
		runner.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
