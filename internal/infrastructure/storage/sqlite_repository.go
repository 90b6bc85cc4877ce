// Package storage persists tasks, results, and rendered artifacts.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// ErrTaskNotFound is returned when a task id has no row.
var ErrTaskNotFound = errors.New("task not found")

// SQLiteRepository persists search tasks and their results in sqlite.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.TaskRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database and ensures the schema.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return repo, nil
}

func (r *SQLiteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_tasks (
		id TEXT PRIMARY KEY,
		keyword TEXT NOT NULL,
		article_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS search_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL REFERENCES search_tasks(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		source_url TEXT NOT NULL,
		pdf_file TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_task ON search_results(task_id);`

	_, err := r.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTask inserts a new task row.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task domain.SearchTask) error {
	query := sq.Insert("search_tasks").
		Columns("id", "keyword", "article_count", "status", "created_at").
		Values(task.ID, task.Keyword, task.ArticleCount, string(task.Status), task.CreatedAt.UTC().Format(time.RFC3339))

	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// UpdateStatus moves a task through its lifecycle.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	query := sq.Update("search_tasks").
		Set("status", string(status)).
		Where(sq.Eq{"id": taskID})

	res, err := query.RunWith(r.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// AddResult appends one successful article to its task.
func (r *SQLiteRepository) AddResult(ctx context.Context, result domain.SearchResult) error {
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := sq.Insert("search_results").
		Columns("task_id", "title", "source_url", "pdf_file", "created_at").
		Values(result.TaskID, result.Title, result.SourceURL, result.PDFFile, createdAt.UTC().Format(time.RFC3339))

	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetTask loads one task with its results.
func (r *SQLiteRepository) GetTask(ctx context.Context, taskID string) (domain.SearchTask, error) {
	query := sq.Select("id", "keyword", "article_count", "status", "created_at").
		From("search_tasks").
		Where(sq.Eq{"id": taskID})

	row := query.RunWith(r.db).QueryRowContext(ctx)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SearchTask{}, ErrTaskNotFound
	}
	if err != nil {
		return domain.SearchTask{}, fmt.Errorf("query task: %w", err)
	}

	results, err := r.taskResults(ctx, taskID)
	if err != nil {
		return domain.SearchTask{}, err
	}
	task.Results = results
	return task, nil
}

// ListTasks returns all tasks, newest first, with results nested.
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]domain.SearchTask, error) {
	query := sq.Select("id", "keyword", "article_count", "status", "created_at").
		From("search_tasks").
		OrderBy("created_at DESC", "id")

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.SearchTask{}
	index := map[string]int{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Results = []domain.SearchResult{}
		index[task.ID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if len(tasks) == 0 {
		return tasks, nil
	}

	resultRows, err := sq.Select("id", "task_id", "title", "source_url", "pdf_file", "created_at").
		From("search_results").
		OrderBy("created_at DESC", "id DESC").
		RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer resultRows.Close()

	for resultRows.Next() {
		result, err := scanResult(resultRows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if i, ok := index[result.TaskID]; ok {
			tasks[i].Results = append(tasks[i].Results, result)
		}
	}
	if err := resultRows.Err(); err != nil {
		return nil, fmt.Errorf("result rows iteration: %w", err)
	}

	return tasks, nil
}

func (r *SQLiteRepository) taskResults(ctx context.Context, taskID string) ([]domain.SearchResult, error) {
	rows, err := sq.Select("id", "task_id", "title", "source_url", "pdf_file", "created_at").
		From("search_results").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at DESC", "id DESC").
		RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("result rows iteration: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.SearchTask, error) {
	var (
		task      domain.SearchTask
		status    string
		createdAt string
	)
	if err := row.Scan(&task.ID, &task.Keyword, &task.ArticleCount, &status, &createdAt); err != nil {
		return domain.SearchTask{}, err
	}
	task.Status = domain.TaskStatus(status)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		task.CreatedAt = t
	}
	return task, nil
}

func scanResult(row rowScanner) (domain.SearchResult, error) {
	var (
		result    domain.SearchResult
		createdAt string
	)
	if err := row.Scan(&result.ID, &result.TaskID, &result.Title, &result.SourceURL, &result.PDFFile, &createdAt); err != nil {
		return domain.SearchResult{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		result.CreatedAt = t
	}
	return result, nil
}
