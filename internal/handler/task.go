package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
	"github.com/BuzzLyutic/task-pipeline/internal/service"
	"github.com/BuzzLyutic/task-pipeline/pkg/respond"
)

type TaskHandler struct {
	service *service.PipelineService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.PipelineService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

type submitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	AssigneeID  *int64 `json:"assignee_id"`
}

// Create принимает задачу в очередь конвейера. Ответ 202: задача еще не
// в хранилище и ID у нее появится после прогона очереди.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Submit(req.Title, req.Description, req.Priority, req.AssigneeID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusAccepted, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter model.TaskFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := model.Status(status)
		filter.Status = &s
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tasks, err := h.service.List(r.Context(), filter, limit)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.NoContent(w)
}

// State отдает длины очереди приема, кучи планировщика и undo-стека.
func (h *TaskHandler) State(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.service.State())
}

// ProcessQueue сбрасывает очередь приема в хранилище.
func (h *TaskHandler) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	persisted := h.service.ProcessQueue(r.Context())
	respond.JSON(w, r, http.StatusOK, map[string]int{"persisted": persisted})
}

// LoadScheduler переносит pending-задачи из хранилища в кучу.
func (h *TaskHandler) LoadScheduler(w http.ResponseWriter, r *http.Request) {
	loaded, err := h.service.LoadScheduler(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]int{"loaded": loaded})
}

// RunScheduler исполняет все задачи из кучи.
func (h *TaskHandler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	executed := h.service.RunScheduler(r.Context())
	respond.JSON(w, r, http.StatusOK, map[string]int{"executed": executed})
}

// RunCycle прогоняет полный цикл конвейера за один запрос.
func (h *TaskHandler) RunCycle(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RunCycle(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, res)
}

// Undo откатывает последний переход статуса.
func (h *TaskHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Undo(r.Context()); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]bool{"undone": true})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	handleErrors(h.logger, w, r, err)
}
