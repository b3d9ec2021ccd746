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

type UserHandler struct {
	service *service.UserService
	logger  *zap.Logger
}

func NewUserHandler(srv *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleErrors(h.logger, w, r, err)
		return
	}

	respond.Created(w, r, fmt.Sprintf("/api/users/%d", user.ID), user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleErrors(h.logger, w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, user)
}
