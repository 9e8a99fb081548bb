package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskify/internal/handlers"
	"taskify/internal/models"
	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Popup   *string         `json:"popup"`
	Error   *string         `json:"error"`
}

type MockTaskService struct {
	shouldReturnError bool
	returnNotFound    bool
	validationErr     error
	tasks             []models.Task
}

func (m *MockTaskService) CreateTask(db *gorm.DB, userID uuid.UUID, input services.TaskInput) (models.Task, error) {
	if m.validationErr != nil {
		return models.Task{}, m.validationErr
	}
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	task := models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: userID,
		Title:  input.Title,
		Status: models.StatusNotStarted,
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MockTaskService) GetTaskByID(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}

	for _, task := range m.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{ID: id, UserID: userID, Title: "Test Task", Status: models.StatusNotStarted}, nil
}

func (m *MockTaskService) GetTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	if m.shouldReturnError {
		return nil, gorm.ErrInvalidData
	}
	return m.tasks, nil
}

func (m *MockTaskService) UpdateTask(db *gorm.DB, userID, id uuid.UUID, input services.TaskInput) (models.Task, error) {
	if m.validationErr != nil {
		return models.Task{}, m.validationErr
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	return models.Task{ID: id, UserID: userID, Title: input.Title}, nil
}

func (m *MockTaskService) CompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	return models.Task{ID: id, UserID: userID, Status: models.StatusCompleted}, nil
}

func (m *MockTaskService) IncompleteTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	return models.Task{ID: id, UserID: userID, Status: models.StatusInProgress}, nil
}

func (m *MockTaskService) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	if m.returnNotFound {
		return gorm.ErrRecordNotFound
	}
	if m.shouldReturnError {
		return gorm.ErrInvalidData
	}
	return nil
}

func setupTaskHandler() (*handlers.TaskHandler, *MockTaskService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTaskService{}
	handler := handlers.NewTaskHandler(nil, mockService)
	router := gin.New()

	// Mock authentication middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.Must(uuid.NewV4()).String())
		c.Next()
	})

	return handler, mockService, router
}

func TestCreateTask(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.POST("/tasks", handler.CreateTask)

	input := services.TaskInput{
		Title:       "Test Task",
		Description: "Test Description",
	}

	inputJSON, _ := json.Marshal(input)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(inputJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}
	if !env.Success {
		t.Error("Expected success to be true")
	}
	if env.Popup == nil || *env.Popup != "Task created" {
		t.Errorf("Expected popup 'Task created', got %v", env.Popup)
	}
}

func TestCreateTaskInvalidJSON(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.POST("/tasks", handler.CreateTask)

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTaskValidationError(t *testing.T) {
	handler, mockService, router := setupTaskHandler()

	router.POST("/tasks", handler.CreateTask)

	mockService.validationErr = models.ErrTitleTooLong

	inputJSON, _ := json.Marshal(services.TaskInput{Title: "long"})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(inputJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}
	if env.Success {
		t.Error("Expected success to be false")
	}
	if env.Error == nil {
		t.Error("Expected an error message")
	}
}

func TestCreateTaskUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewTaskHandler(nil, &MockTaskService{})
	router := gin.New()

	router.POST("/tasks", handler.CreateTask)

	inputJSON, _ := json.Marshal(services.TaskInput{Title: "Test"})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(inputJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestGetTaskByID(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.GET("/tasks/:id", handler.GetTaskByID)

	taskID := uuid.Must(uuid.NewV4())

	req, _ := http.NewRequest("GET", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}

	var task models.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Errorf("Failed to unmarshal task: %v", err)
	}
	if task.Title != "Test Task" {
		t.Errorf("Expected title 'Test Task', got '%s'", task.Title)
	}
}

func TestGetTaskByIDNotFound(t *testing.T) {
	handler, mockService, router := setupTaskHandler()

	router.GET("/tasks/:id", handler.GetTaskByID)

	mockService.returnNotFound = true

	taskID := uuid.Must(uuid.NewV4())

	req, _ := http.NewRequest("GET", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetTasks(t *testing.T) {
	handler, mockService, router := setupTaskHandler()

	router.GET("/tasks", handler.GetTasks)

	mockService.tasks = []models.Task{
		{Title: "Task 1", Status: models.StatusNotStarted},
		{Title: "Task 2", Status: models.StatusCompleted},
	}

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(env.Data, &tasks); err != nil {
		t.Errorf("Failed to unmarshal tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(tasks))
	}
}

func TestUpdateTask(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.PUT("/tasks/:id", handler.UpdateTask)

	taskID := uuid.Must(uuid.NewV4())
	inputJSON, _ := json.Marshal(services.TaskInput{
		Title:       "Updated Task",
		Description: "Updated Description",
	})

	req, _ := http.NewRequest("PUT", "/tasks/"+taskID.String(), bytes.NewBuffer(inputJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestCompleteTask(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.PATCH("/tasks/:id/complete", handler.CompleteTask)

	taskID := uuid.Must(uuid.NewV4())

	req, _ := http.NewRequest("PATCH", "/tasks/"+taskID.String()+"/complete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}

	var task models.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Errorf("Failed to unmarshal task: %v", err)
	}
	if task.Status != models.StatusCompleted {
		t.Errorf("Expected status %s, got %s", models.StatusCompleted, task.Status)
	}
}

func TestIncompleteTask(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.PATCH("/tasks/:id/incomplete", handler.IncompleteTask)

	taskID := uuid.Must(uuid.NewV4())

	req, _ := http.NewRequest("PATCH", "/tasks/"+taskID.String()+"/incomplete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	handler, _, router := setupTaskHandler()

	router.DELETE("/tasks/:id", handler.DeleteTask)

	taskID := uuid.Must(uuid.NewV4())

	req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}
	if env.Popup == nil || *env.Popup != "Task deleted" {
		t.Errorf("Expected popup 'Task deleted', got %v", env.Popup)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	handler, mockService, router := setupTaskHandler()

	router.DELETE("/tasks/:id", handler.DeleteTask)

	mockService.returnNotFound = true

	taskID := uuid.Must(uuid.NewV4())

	req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
