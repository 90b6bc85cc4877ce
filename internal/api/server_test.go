package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/infrastructure/storage"
	"github.com/sh1dan/infoseek/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memRepo is a map-backed TaskRepository for handler tests.
type memRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.SearchTask
	order []string
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: map[string]domain.SearchTask{}}
}

func (m *memRepo) CreateTask(ctx context.Context, task domain.SearchTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
	m.order = append(m.order, task.ID)
	return nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return storage.ErrTaskNotFound
	}
	task.Status = status
	m.tasks[taskID] = task
	return nil
}

func (m *memRepo) AddResult(ctx context.Context, result domain.SearchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[result.TaskID]
	if !ok {
		return storage.ErrTaskNotFound
	}
	task.Results = append(task.Results, result)
	m.tasks[result.TaskID] = task
	return nil
}

func (m *memRepo) GetTask(ctx context.Context, taskID string) (domain.SearchTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return domain.SearchTask{}, storage.ErrTaskNotFound
	}
	return task, nil
}

func (m *memRepo) ListTasks(ctx context.Context) ([]domain.SearchTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]domain.SearchTask, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		tasks = append(tasks, m.tasks[m.order[i]])
	}
	return tasks, nil
}

// memQueue records enqueued requests; err makes every enqueue fail.
type memQueue struct {
	mu   sync.Mutex
	reqs []domain.ScrapeRequest
	err  error
}

func (q *memQueue) Enqueue(req domain.ScrapeRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.reqs = append(q.reqs, req)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *memRepo, *memQueue) {
	t.Helper()
	repo := newMemRepo()
	queue := &memQueue{}
	server := NewServer(repo, queue, nil)
	return server.Router(), repo, queue
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTask(t *testing.T) {
	router, repo, queue := setup(t)

	w := postJSON(router, "/api/tasks", gin.H{"keyword": "wybory", "article_count": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task domain.SearchTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "wybory", task.Keyword)
	assert.Equal(t, 5, task.ArticleCount)
	assert.Equal(t, domain.StatusPending, task.Status)

	stored, err := repo.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)

	require.Len(t, queue.reqs, 1)
	assert.Equal(t, task.ID, queue.reqs[0].TaskID)
	assert.Equal(t, 5, queue.reqs[0].ArticleCount)
}

func TestCreateTaskDefaultsArticleCount(t *testing.T) {
	router, _, queue := setup(t)

	w := postJSON(router, "/api/tasks", gin.H{"keyword": "wybory"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, queue.reqs, 1)
	assert.Equal(t, domain.DefaultArticleCount, queue.reqs[0].ArticleCount)
}

func TestCreateTaskValidation(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
		code string
	}{
		{name: "missing keyword", body: gin.H{"article_count": 3}, code: "missing_keyword"},
		{name: "count too low", body: gin.H{"keyword": "x", "article_count": 0}, code: "invalid_article_count"},
		{name: "count too high", body: gin.H{"keyword": "x", "article_count": 21}, code: "invalid_article_count"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, repo, queue := setup(t)

			w := postJSON(router, "/api/tasks", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error.Code)

			assert.Empty(t, queue.reqs)
			assert.Empty(t, repo.order)
		})
	}
}

func TestCreateTaskMalformedBody(t *testing.T) {
	router, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader([]byte("{nope")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTaskQueueFull(t *testing.T) {
	repo := newMemRepo()
	queue := &memQueue{err: usecase.ErrQueueFull}
	router := NewServer(repo, queue, nil).Router()

	w := postJSON(router, "/api/tasks", gin.H{"keyword": "wybory"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	require.Len(t, repo.order, 1)
	task, err := repo.GetTask(context.Background(), repo.order[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, task.Status)
}

func TestGetTask(t *testing.T) {
	router, repo, _ := setup(t)
	require.NoError(t, repo.CreateTask(context.Background(), domain.SearchTask{
		ID:      "task-1",
		Keyword: "wybory",
		Status:  domain.StatusCompleted,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/task-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var task domain.SearchTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, domain.StatusCompleted, task.Status)
}

func TestGetTaskNotFound(t *testing.T) {
	router, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestListTasks(t *testing.T) {
	router, repo, _ := setup(t)
	require.NoError(t, repo.CreateTask(context.Background(), domain.SearchTask{ID: "t1", Keyword: "a"}))
	require.NoError(t, repo.CreateTask(context.Background(), domain.SearchTask{ID: "t2", Keyword: "b"}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []domain.SearchTask `json:"tasks"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "t2", resp.Tasks[0].ID)
}
