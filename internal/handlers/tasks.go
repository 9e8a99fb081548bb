package handlers

import (
	"net/http"

	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(h.db, userID, input)
	if err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusCreated, task, "Task created")
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasks(h.db, userID)
	if err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusOK, tasks, "")
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.GetTaskByID(h.db, userID, id)
	if err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusOK, task, "")
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(h.db, userID, id, input)
	if err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusOK, task, "Task updated")
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.CompleteTask(h.db, userID, id)
	if err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusOK, task, "Task completed")
}

func (h *TaskHandler) IncompleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.IncompleteTask(h.db, userID, id)
	if err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusOK, task, "Task marked incomplete")
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.taskService.DeleteTask(h.db, userID, id); err != nil {
		handleServiceError(c, err, "task not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"id": id}, "Task deleted")
}
