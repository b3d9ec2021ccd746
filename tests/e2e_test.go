package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/handler"
	"github.com/BuzzLyutic/task-pipeline/internal/model"
	"github.com/BuzzLyutic/task-pipeline/internal/repo"
	"github.com/BuzzLyutic/task-pipeline/internal/scheduler"
	"github.com/BuzzLyutic/task-pipeline/internal/service"
	"github.com/BuzzLyutic/task-pipeline/internal/worker"
)

// setupE2EServer поднимает сервер с маршрутами как в cmd/app.
// При interval > 0 дополнительно стартует фоновый прогон конвейера.
func setupE2EServer(t *testing.T, interval time.Duration) (*httptest.Server, func()) {
	pool, cleanup := SetupTestDB(t)

	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	orch := scheduler.NewOrchestrator(taskRepo, nil)
	pipeline := service.NewPipelineService(orch, taskRepo)
	users := service.NewUserService(userRepo)
	logger := zap.NewNop()
	taskHandler := handler.NewTaskHandler(pipeline, logger)
	userHandler := handler.NewUserHandler(users, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
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

	var runner *worker.Runner
	if interval > 0 {
		runner = worker.NewRunner(pipeline, logger, interval)
		runner.Start(context.Background())
	}

	server := httptest.NewServer(r)

	cleanupFunc := func() {
		if runner != nil {
			runner.Stop()
		}
		server.Close()
		cleanup()
	}

	return server, cleanupFunc
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()

	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	resp.Body.Close()
}

func submitCanonicalTasks(t *testing.T, serverURL string) {
	t.Helper()

	fixtures := []struct {
		title       string
		description string
		priority    int
	}{
		{"Fix login bug", "Login page crashes", 1},
		{"Deploy to prod", "Push v2.0", 2},
		{"Update docs", "Add new API endpoints", 4},
		{"Refactor legacy code", "Clean up utils.go", 5},
		{"Email team about meeting", "10am Friday", 1},
	}
	for _, f := range fixtures {
		resp := postJSON(t, serverURL+"/api/tasks", map[string]interface{}{
			"title":       f.title,
			"description": f.description,
			"priority":    f.priority,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestE2E_PipelineWorkflow(t *testing.T) {
	server, cleanup := setupE2EServer(t, 0)
	defer cleanup()

	// 1. Пять задач встают в очередь приема
	submitCanonicalTasks(t, server.URL)

	resp, err := http.Get(server.URL + "/api/pipeline")
	require.NoError(t, err)
	var state service.PipelineState
	decodeBody(t, resp, &state)
	assert.Equal(t, service.PipelineState{QueueLen: 5}, state)

	// 2. Очередь сбрасывается в хранилище в порядке постановки
	resp = postJSON(t, server.URL+"/api/pipeline/process", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var processed map[string]int
	decodeBody(t, resp, &processed)
	assert.Equal(t, 5, processed["persisted"])

	resp, err = http.Get(server.URL + "/api/tasks?status=pending&limit=10")
	require.NoError(t, err)
	var tasks []model.Task
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 5)

	idByTitle := make(map[string]int64, len(tasks))
	for _, task := range tasks {
		idByTitle[task.Title] = task.ID
	}
	// FIFO сохранения: ID растут в порядке постановки
	assert.Less(t, idByTitle["Fix login bug"], idByTitle["Deploy to prod"])
	assert.Less(t, idByTitle["Deploy to prod"], idByTitle["Update docs"])
	assert.Less(t, idByTitle["Update docs"], idByTitle["Refactor legacy code"])
	assert.Less(t, idByTitle["Refactor legacy code"], idByTitle["Email team about meeting"])

	// 3. Загрузка в планировщик
	resp = postJSON(t, server.URL+"/api/pipeline/load", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loaded map[string]int
	decodeBody(t, resp, &loaded)
	assert.Equal(t, 5, loaded["loaded"])

	// 4. Исполнение по срочности
	resp = postJSON(t, server.URL+"/api/pipeline/run", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var executed map[string]int
	decodeBody(t, resp, &executed)
	assert.Equal(t, 5, executed["executed"])

	resp, err = http.Get(server.URL + "/api/stats")
	require.NoError(t, err)
	var stats repo.Stats
	decodeBody(t, resp, &stats)
	assert.Equal(t, 5, stats.TotalTasks)
	assert.Equal(t, 5, stats.ByStatus["completed"])

	// 5. Откат: последней исполнялась задача с приоритетом 5
	resp = postJSON(t, server.URL+"/api/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/tasks?status=pending")
	require.NoError(t, err)
	var reverted []model.Task
	decodeBody(t, resp, &reverted)
	require.Len(t, reverted, 1)
	assert.Equal(t, "Refactor legacy code", reverted[0].Title)

	// 6. Undo-стек выгребается до конца, дальше 404
	for i := 0; i < 4; i++ {
		resp = postJSON(t, server.URL+"/api/undo", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	resp = postJSON(t, server.URL+"/api/undo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/stats")
	require.NoError(t, err)
	decodeBody(t, resp, &stats)
	assert.Equal(t, 5, stats.ByStatus["pending"], "все откаты вернули задачи в pending")
}

func TestE2E_RunnerProcessing(t *testing.T) {
	server, cleanup := setupE2EServer(t, 300*time.Millisecond)
	defer cleanup()

	submitCanonicalTasks(t, server.URL)

	// Фоновый прогон сам дотащит задачи до completed
	success := WaitForCondition(t, 15*time.Second, func() bool {
		resp, err := http.Get(server.URL + "/api/stats")
		if err != nil {
			return false
		}
		var stats repo.Stats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			resp.Body.Close()
			return false
		}
		resp.Body.Close()
		return stats.ByStatus["completed"] >= 5
	})

	assert.True(t, success, "runner should complete all tasks")
}

func TestE2E_ReadAndDelete(t *testing.T) {
	server, cleanup := setupE2EServer(t, 0)
	defer cleanup()

	resp := postJSON(t, server.URL+"/api/tasks", map[string]interface{}{
		"title":    "E2E Test Task",
		"priority": 3,
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/pipeline/process", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/tasks")
	require.NoError(t, err)
	var tasks []model.Task
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 1)
	created := tasks[0]

	// Get
	resp, err = http.Get(fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched model.Task
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "E2E Test Task", fetched.Title)

	// Delete
	req, _ := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID), nil)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Verify deletion
	resp, err = http.Get(fmt.Sprintf("%s/api/tasks/%d", server.URL, created.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_UsersAndAssignment(t *testing.T) {
	server, cleanup := setupE2EServer(t, 0)
	defer cleanup()

	resp := postJSON(t, server.URL+"/api/users", model.User{Username: "charlie"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")
	var created model.User
	decodeBody(t, resp, &created)
	require.NotZero(t, created.ID)
	assert.Equal(t, fmt.Sprintf("/api/users/%d", created.ID), location)

	resp, err := http.Get(server.URL + location)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched model.User
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "charlie", fetched.Username)

	// Задача с исполнителем проходит конвейер и сохраняет ссылку
	resp = postJSON(t, server.URL+"/api/tasks", map[string]interface{}{
		"title":       "Onboard charlie",
		"priority":    2,
		"assignee_id": created.ID,
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/pipeline/process", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/tasks")
	require.NoError(t, err)
	var tasks []model.Task
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].AssigneeID)
	assert.Equal(t, created.ID, *tasks[0].AssigneeID)
}

func TestE2E_FilteringAndPagination(t *testing.T) {
	server, cleanup := setupE2EServer(t, 0)
	defer cleanup()

	for i := 0; i < 15; i++ {
		resp := postJSON(t, server.URL+"/api/tasks", map[string]interface{}{
			"title":    fmt.Sprintf("Task %d", i),
			"priority": (i % 5) + 1,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()
	}
	resp := postJSON(t, server.URL+"/api/pipeline/process", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	t.Run("filter by status", func(t *testing.T) {
		resp, _ := http.Get(server.URL + "/api/tasks?status=pending")
		var tasks []model.Task
		decodeBody(t, resp, &tasks)

		require.NotEmpty(t, tasks)
		for _, task := range tasks {
			assert.Equal(t, model.StatusPending, task.Status)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		resp, _ := http.Get(server.URL + "/api/tasks?limit=5")
		var tasks []model.Task
		decodeBody(t, resp, &tasks)

		assert.Len(t, tasks, 5)
	})
}

func TestE2E_HealthCheck(t *testing.T) {
	server, cleanup := setupE2EServer(t, 0)
	defer cleanup()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	decodeBody(t, resp, &health)

	assert.Equal(t, "ok", health["status"])
}
