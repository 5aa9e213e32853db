package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todotracker/internal/adapter/http/dto"
	"todotracker/internal/adapter/http/mapper"
	"todotracker/internal/adapter/http/middleware"
	"todotracker/internal/adapter/http/validation"
	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
	"todotracker/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks serves GET /todos?view=&date=&priority=.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	view, err := domain.ParseView(c.Query("view"))
	if err != nil {
		writeError(c, err, apierrors.MsgFailListTask)
		return
	}

	q := domain.TaskQuery{View: view}
	switch view {
	case domain.ViewByDate:
		if q.Date, err = validation.ParseQueryDate(c.Query("date")); err != nil {
			writeError(c, err, apierrors.MsgFailListTask)
			return
		}
	case domain.ViewByPriority:
		q.Priority = domain.TaskPriority(c.Query("priority"))
	}

	h.listTasks(c, q)
}

func (h *TaskHandler) ListTasksByDate(c *gin.Context) {
	date, err := validation.ParseQueryDate(c.Param("date"))
	if err != nil {
		writeError(c, err, apierrors.MsgFailListTask)
		return
	}
	h.listTasks(c, domain.TaskQuery{View: domain.ViewByDate, Date: date})
}

func (h *TaskHandler) ListTasksByPriority(c *gin.Context) {
	h.listTasks(c, domain.TaskQuery{View: domain.ViewByPriority, Priority: domain.TaskPriority(c.Param("priority"))})
}

func (h *TaskHandler) listTasks(c *gin.Context, q domain.TaskQuery) {
	tasks, err := h.taskService.ListTasks(c.Request.Context(), middleware.GetUserID(c), q)
	if err != nil {
		writeError(c, err, apierrors.MsgFailListTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, apierrors.MsgFailGetTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	raw, err := decodeBody(c, &req)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		writeError(c, err, apierrors.MsgFailCreateTask)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

// UpdateTask serves both PUT and PATCH: either way only the fields present
// in the body change.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	raw, err := decodeBody(c, &req)
	if err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err, apierrors.MsgFailUpdateTask)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err, apierrors.MsgFailDeleteTask)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: apierrors.GetTransErrorMsg(apierrors.MsgTaskDeleted, middleware.GetLang(c)),
	})
}

func (h *TaskHandler) GetStats(c *gin.Context) {
	stats, err := h.taskService.GetStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err, apierrors.MsgFailTaskStats)
		return
	}

	c.JSON(http.StatusOK, mapper.ToStatsResponse(stats))
}

// MaxTaskBodyBytes bounds a task payload: the longest title and description
// fully \u-escaped, plus room for the other members.
const MaxTaskBodyBytes = 6*(4*domain.MaxTitleLength+domain.MaxDescriptionLength) + 4096

func decodeBody(c *gin.Context, req any) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxTaskBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.NewValidationError("body", "too large")
		}
		return nil, domain.NewValidationError("body", "could not be read")
	}
	return validation.DecodeTaskBody(body, req)
}

// writeError maps a service error to its HTTP status. failMsg is the message
// used for unexpected failures.
func writeError(c *gin.Context, err error, failMsg string) {
	lang := middleware.GetLang(c)

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateFieldError(http.StatusBadRequest, invalidMsgFor(failMsg), lang, vErr.Field),
		)
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(
			http.StatusUnauthorized,
			apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, lang),
		)
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.Is(err, domain.ErrStoreUnavailable):
		zap.L().Warn("task store unavailable", append(requestFields(c), zap.Error(err))...)
		c.JSON(
			http.StatusServiceUnavailable,
			apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgStoreUnavailable, lang),
		)
	default:
		zap.L().Error("task request failed", append(requestFields(c), zap.String("message_id", failMsg), zap.Error(err))...)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failMsg, lang),
		)
	}
}

func requestFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{
		zap.String("path", c.FullPath()),
		zap.String("owner_id", middleware.GetUserID(c)),
	}
	if id := c.Param("id"); id != "" {
		fields = append(fields, zap.String("task_id", id))
	}
	return fields
}

func invalidMsgFor(failMsg string) string {
	if failMsg == apierrors.MsgFailListTask {
		return apierrors.MsgInvalidTaskQuery
	}
	return apierrors.MsgInvalidTaskPayload
}
