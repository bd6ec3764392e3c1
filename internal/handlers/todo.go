package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"todoapp/internal/logger"
	"todoapp/internal/models"
	"todoapp/internal/reqctx"
	"todoapp/internal/services"
	helpers "todoapp/internal/utils/helpers"
	"todoapp/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc *services.TodoService
}

func NewTodoHandler(svc *services.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

type todoRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"max=500"`
	Priority    int    `json:"priority" validate:"gte=1,lte=5"`
	Complete    bool   `json:"complete"`
}

// List godoc
// @Summary List the caller's todos
// @Tags todos
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Todo
// @Router /todos [get]
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	todos, err := h.svc.ListForOwner(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("listing todos failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not list todos")
		return
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	helpers.JSON(w, http.StatusOK, todos)
}

// Get godoc
// @Summary Fetch one of the caller's todos
// @Tags todos
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} models.Todo
// @Failure 404 {object} helpers.Response
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	todo, err := h.svc.GetForOwner(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			helpers.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		logger.WithCtx(r.Context()).Error("fetching todo failed", zap.Int("todo_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not fetch todo")
		return
	}

	helpers.JSON(w, http.StatusOK, todo)
}

// Create godoc
// @Summary Create a todo
// @Tags todos
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body todoRequest true "Todo data"
// @Success 201 {object} models.Todo
// @Failure 400 {object} helpers.Response
// @Router /todos [post]
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON in todo Create", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if details := validation.Struct(req); details != nil {
		helpers.JSON(w, http.StatusBadRequest, map[string]any{"details": details})
		return
	}

	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     userID,
	}

	if err := h.svc.Create(r.Context(), todo); err != nil {
		log.Error("creating todo failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not create todo")
		return
	}

	helpers.JSON(w, http.StatusCreated, todo)
}

// Update godoc
// @Summary Update one of the caller's todos
// @Tags todos
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param input body todoRequest true "Todo data"
// @Success 200 {object} models.Todo
// @Failure 404 {object} helpers.Response
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON in todo Update", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if details := validation.Struct(req); details != nil {
		helpers.JSON(w, http.StatusBadRequest, map[string]any{"details": details})
		return
	}

	todo := &models.Todo{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     userID,
	}

	if err := h.svc.Update(r.Context(), todo); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			helpers.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		log.Error("updating todo failed", zap.Int("todo_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not update todo")
		return
	}

	helpers.JSON(w, http.StatusOK, todo)
}

// Delete godoc
// @Summary Delete one of the caller's todos
// @Tags todos
// @Security ApiKeyAuth
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteForOwner(r.Context(), id, userID); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			helpers.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		logger.WithCtx(r.Context()).Error("deleting todo failed", zap.Int("todo_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminList godoc
// @Summary List all todos (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Todo
// @Failure 403 {object} helpers.Response
// @Router /admin/todos [get]
func (h *TodoHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListAll(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("listing all todos failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not list todos")
		return
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	helpers.JSON(w, http.StatusOK, todos)
}

// AdminDelete godoc
// @Summary Delete any todo (admin)
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 403 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /admin/todos/{id} [delete]
func (h *TodoHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			helpers.Error(w, http.StatusNotFound, "todo not found")
			return
		}
		logger.WithCtx(r.Context()).Error("admin delete failed", zap.Int("todo_id", id), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "could not delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
