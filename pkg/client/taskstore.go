package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// DueBucket groups tasks by due-date proximity for filtering.
type DueBucket string

const (
	DueOverdue  DueBucket = "overdue"
	DueToday    DueBucket = "today"
	DueThisWeek DueBucket = "this_week"
	DueLater    DueBucket = "later"
	DueNone     DueBucket = "none"
)

// Filter narrows the visible tasks. Zero values match everything; Tags
// matches tasks carrying at least one of the given tags.
type Filter struct {
	Status   string
	Priority string
	Tags     []string
	Due      DueBucket
}

type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

type Sort struct {
	Field      SortField
	Descending bool
}

// View is the composed presentation of the store: filter, then sort, then
// free-text search, in that order.
type View struct {
	Filter Filter
	Sort   Sort
	Search string
}

// TaskStore keeps an in-memory copy of the user's tasks, refreshed from the
// server. Mutations wait for server confirmation before local state changes.
type TaskStore struct {
	client *Client

	mu    sync.RWMutex
	tasks []Task
}

func NewTaskStore(client *Client) *TaskStore {
	return &TaskStore{client: client}
}

// Refresh replaces local state with the server's task list.
func (s *TaskStore) Refresh(ctx context.Context) error {
	tasks, err := s.client.ListTasks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

func (s *TaskStore) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

func (s *TaskStore) Create(ctx context.Context, input TaskInput) (Task, error) {
	task, err := s.client.CreateTask(ctx, input)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	// The server lists newest first; keep local order consistent.
	s.tasks = append([]Task{task}, s.tasks...)
	s.mu.Unlock()
	return task, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, input TaskInput) (Task, error) {
	task, err := s.client.UpdateTask(ctx, id, input)
	if err != nil {
		return Task{}, err
	}

	s.replace(task)
	return task, nil
}

func (s *TaskStore) Complete(ctx context.Context, id string) (Task, error) {
	task, err := s.client.CompleteTask(ctx, id)
	if err != nil {
		return Task{}, err
	}

	s.replace(task)
	return task, nil
}

func (s *TaskStore) Incomplete(ctx context.Context, id string) (Task, error) {
	task, err := s.client.IncompleteTask(ctx, id)
	if err != nil {
		return Task{}, err
	}

	s.replace(task)
	return task, nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *TaskStore) replace(updated Task) {
	s.mu.Lock()
	for i, task := range s.tasks {
		if task.ID == updated.ID {
			s.tasks[i] = updated
			break
		}
	}
	s.mu.Unlock()
}

// ViewTasks applies filter, sort and search over the local tasks, in that
// order, and returns the result without mutating the store.
func (s *TaskStore) ViewTasks(view View) []Task {
	tasks := s.Tasks()

	tasks = applyFilter(tasks, view.Filter, time.Now())
	applySort(tasks, view.Sort)
	tasks = applySearch(tasks, view.Search)

	return tasks
}

func applyFilter(tasks []Task, filter Filter, now time.Time) []Task {
	filtered := tasks[:0:0]
	for _, task := range tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(task.Tags, filter.Tags) {
			continue
		}
		if filter.Due != "" && dueBucket(task, now) != filter.Due {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

func hasAnyTag(taskTags, wanted []string) bool {
	for _, tag := range taskTags {
		for _, want := range wanted {
			if tag == want {
				return true
			}
		}
	}
	return false
}

func dueBucket(task Task, now time.Time) DueBucket {
	if task.DueDate == nil {
		return DueNone
	}

	due := *task.DueDate
	if due.Before(now) {
		return DueOverdue
	}

	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if due.Before(endOfToday) {
		return DueToday
	}
	if due.Before(now.AddDate(0, 0, 7)) {
		return DueThisWeek
	}
	return DueLater
}

var priorityRank = map[string]int{
	PriorityLow:           0,
	PriorityMedium:        1,
	PriorityHigh:          2,
	PriorityVeryImportant: 3,
}

func applySort(tasks []Task, s Sort) {
	if s.Field == "" {
		return
	}

	less := func(a, b Task) bool {
		switch s.Field {
		case SortByDueDate:
			return a.DueDate.Before(*b.DueDate)
		case SortByPriority:
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if s.Field == SortByDueDate {
			// tasks without a due date sort last regardless of direction
			if a.DueDate == nil {
				return false
			}
			if b.DueDate == nil {
				return true
			}
		}
		if s.Descending {
			return less(b, a)
		}
		return less(a, b)
	})
}

func applySearch(tasks []Task, query string) []Task {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return tasks
	}

	matched := tasks[:0:0]
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), query) ||
			strings.Contains(strings.ToLower(task.Description), query) {
			matched = append(matched, task)
		}
	}
	return matched
}
