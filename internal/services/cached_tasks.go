package services

import (
	"fmt"
	"time"

	"taskify/internal/cache"
	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService decorates TaskService with read-through caching.
// Mutations invalidate the task entry and the owner's list caches.
type CachedTaskService struct {
	taskService TaskService
	cache       cache.Cache
}

func NewCachedTaskService(taskService TaskService, cacheInstance cache.Cache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id.String())
}

func userTasksKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s", userID.String())
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, userID uuid.UUID, input TaskInput) (models.Task, error) {
	task, err := s.taskService.CreateTask(db, userID, input)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(task.ID), task, 30*time.Minute)
	s.cache.Delete(userTasksKey(userID))

	return task, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(id), &cached); err == nil && cached.UserID == userID {
		return cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, userID, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) GetTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var cached []models.Task
	if err := s.cache.Get(userTasksKey(userID), &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.GetTasks(db, userID)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(userTasksKey(userID), tasks, 10*time.Minute)

	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, userID, id uuid.UUID, input TaskInput) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, userID, id, input)
	if err != nil {
		return task, err
	}

	s.invalidate(userID, id)
	s.cache.Set(taskKey(id), task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) CompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	task, err := s.taskService.CompleteTask(db, userID, id)
	if err != nil {
		return task, err
	}

	s.invalidate(userID, id)
	s.cache.Set(taskKey(id), task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) IncompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	task, err := s.taskService.IncompleteTask(db, userID, id)
	if err != nil {
		return task, err
	}

	s.invalidate(userID, id)
	s.cache.Set(taskKey(id), task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, userID, id); err != nil {
		return err
	}

	s.invalidate(userID, id)

	return nil
}

func (s *CachedTaskService) invalidate(userID, id uuid.UUID) {
	s.cache.Delete(taskKey(id))
	s.cache.Delete(userTasksKey(userID))
}

func (s *CachedTaskService) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}
