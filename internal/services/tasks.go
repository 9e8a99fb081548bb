package services

import (
	"fmt"
	"time"

	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskInput struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Tags        models.TagList      `json:"tags"`
	DueDate     *time.Time          `json:"due_date"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, userID uuid.UUID, input TaskInput) (models.Task, error)
	GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error)
	GetTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	UpdateTask(db *gorm.DB, userID, id uuid.UUID, input TaskInput) (models.Task, error)
	CompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error)
	IncompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error)
	DeleteTask(db *gorm.DB, userID, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID uuid.UUID, input TaskInput) (models.Task, error) {
	now := time.Now()

	status := input.Status
	if status == "" {
		status = models.StatusNotStarted
	}

	priority := input.Priority
	if priority == "" {
		priority = models.ClassifyPriority(input.Title, input.DueDate, now)
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Tags:        input.Tags,
		DueDate:     input.DueDate,
	}
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return appendHistory(tx, &task, models.ActionCreated, "Task created")
	})
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	return task, err
}

func (s *TaskServiceImpl) GetTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID, id uuid.UUID, input TaskInput) (models.Task, error) {
	task, err := s.GetTaskByID(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	task.Title = input.Title
	task.Description = input.Description
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.Tags = input.Tags
	task.DueDate = input.DueDate

	if task.Status == models.StatusCompleted && task.CompletedAt == nil {
		now := time.Now()
		task.CompletedAt = &now
	}
	if task.Status != models.StatusCompleted {
		task.CompletedAt = nil
	}

	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return appendHistory(tx, &task, models.ActionUpdated, "Task updated")
	})
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskServiceImpl) CompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	task, err := s.GetTaskByID(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	task.Complete(time.Now())

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return appendHistory(tx, &task, models.ActionCompleted, "Task completed")
	})
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskServiceImpl) IncompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	task, err := s.GetTaskByID(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	task.Incomplete()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return appendHistory(tx, &task, models.ActionIncompleted, "Task marked incomplete")
	})
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	task, err := s.GetTaskByID(db, userID, id)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Older history entries keep the title snapshot but lose the task
		// reference once the task is gone.
		if err := tx.Model(&models.HistoryEntry{}).
			Where("task_id = ?", task.ID).
			Update("task_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", task.ID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&task).Error; err != nil {
			return err
		}

		entry := models.HistoryEntry{
			ID:          uuid.Must(uuid.NewV4()),
			UserID:      task.UserID,
			TaskID:      nil,
			TaskTitle:   task.Title,
			Action:      models.ActionDeleted,
			Description: fmt.Sprintf("Task %q deleted", task.Title),
		}
		return tx.Create(&entry).Error
	})
}

func appendHistory(tx *gorm.DB, task *models.Task, action models.HistoryAction, description string) error {
	taskID := task.ID
	entry := models.HistoryEntry{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      task.UserID,
		TaskID:      &taskID,
		TaskTitle:   task.Title,
		Action:      action,
		Description: description,
	}
	return tx.Create(&entry).Error
}
