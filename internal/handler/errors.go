package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/repo"
	"github.com/BuzzLyutic/task-pipeline/internal/scheduler"
	"github.com/BuzzLyutic/task-pipeline/internal/service"
	"github.com/BuzzLyutic/task-pipeline/pkg/respond"
)

// Единый маппинг доменных ошибок на HTTP-статусы для всех хендлеров.
func handleErrors(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, scheduler.ErrNothingToUndo):
		respond.Error(w, r, http.StatusNotFound, "nothing to undo")
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict")
	case errors.Is(err, repo.ErrorInvalidStatus):
		respond.Error(w, r, http.StatusBadRequest, "invalid status")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	default:
		logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
