// Package client is a Go SDK for the Taskify API. A Client performs one
// HTTP call per method and unwraps the server's response envelope; TaskStore
// and HistoryStore layer local state and view composition on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvAPIURL overrides the default server address.
	EnvAPIURL = "TASKIFY_API_URL"

	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second
	apiPrefix      = "/api/v1"
)

// APIError is a non-2xx response from the server, carrying the envelope's
// error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

type Config struct {
	// BaseURL of the server, without the /api/v1 prefix. Falls back to
	// TASKIFY_API_URL, then to http://localhost:8080.
	BaseURL string
	// HTTPClient to use; a cookie-jar client with a 30s timeout by default.
	HTTPClient *http.Client
	// Credentials holds the token and user between calls. A fresh in-memory
	// store is created when nil.
	Credentials *CredentialStore
	// OnUnauthorized fires after any call returns 401 and the stored
	// credentials have been cleared. UIs navigate to the login screen here.
	OnUnauthorized func()
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	creds          *CredentialStore
	onUnauthorized func()
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvAPIURL)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Timeout: defaultTimeout, Jar: jar}
	}

	creds := cfg.Credentials
	if creds == nil {
		creds = NewCredentialStore("")
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		creds:          creds,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

func (c *Client) Credentials() *CredentialStore {
	return c.creds
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Popup   *string         `json:"popup"`
	Error   *string         `json:"error"`
}

// do performs one request and decodes the envelope's data into out. A 401
// clears the stored credentials and fires the unauthorized hook before the
// error is returned.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 400 {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.creds.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		message := ""
		if env.Error != nil {
			message = *env.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// Tasks

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodGet, apiPrefix+"/tasks/"+id, nil, &task)
	return task, err
}

func (c *Client) CreateTask(ctx context.Context, input TaskInput) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPost, apiPrefix+"/tasks", input, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, input TaskInput) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPut, apiPrefix+"/tasks/"+id, input, &task)
	return task, err
}

func (c *Client) CompleteTask(ctx context.Context, id string) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPatch, apiPrefix+"/tasks/"+id+"/complete", nil, &task)
	return task, err
}

func (c *Client) IncompleteTask(ctx context.Context, id string) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPatch, apiPrefix+"/tasks/"+id+"/incomplete", nil, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/tasks/"+id, nil, nil)
}

// History

func (c *Client) History(ctx context.Context, page, limit int) ([]HistoryEntry, PageInfo, error) {
	path := apiPrefix + "/history?page=" + strconv.Itoa(page) + "&page_size=" + strconv.Itoa(limit)

	var data struct {
		Items      []HistoryEntry   `json:"items"`
		Pagination serverPagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, PageInfo{}, err
	}

	return data.Items, data.Pagination.toPageInfo(), nil
}

func (c *Client) DeleteHistoryEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/history/"+id, nil, nil)
}

// Stats

func (c *Client) WeeklyStats(ctx context.Context) (WeeklyStats, error) {
	var stats WeeklyStats
	err := c.do(ctx, http.MethodGet, apiPrefix+"/stats/weekly", nil, &stats)
	return stats, err
}

// Notifications

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (Notification, error) {
	var notification Notification
	err := c.do(ctx, http.MethodPatch, apiPrefix+"/notifications/"+id+"/read", nil, &notification)
	return notification, err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var data struct {
		MarkedRead int64 `json:"marked_read"`
	}
	err := c.do(ctx, http.MethodPatch, apiPrefix+"/notifications/mark-all-read", nil, &data)
	return data.MarkedRead, err
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var data struct {
		Count int64 `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, apiPrefix+"/notifications/unread/count", nil, &data)
	return data.Count, err
}

// Health

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Auth endpoints. The Auth type layers credential persistence on top.

func (c *Client) Signup(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/signup",
		map[string]string{"email": email, "password": password}, &result)
	return result, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/login",
		map[string]string{"email": email, "password": password}, &result)
	return result, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, apiPrefix+"/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, apiPrefix+"/auth/me", nil, &user)
	return user, err
}
