package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

// Store keeps tasks in a private in-memory SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open creates the named in-memory database and its schema. An empty name
// picks a unique one, so separate stores never share rows.
func Open(name string, logger *slog.Logger) (*Store, error) {
	if name == "" {
		name = uuid.NewString()
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The database lives only as long as its last connection, and a single
	// connection serializes every mutation.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	s := &Store{db: conn, logger: logger.With(slog.String("db", name))}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database; its contents are gone afterwards.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            description TEXT,
            priority INTEGER NOT NULL DEFAULT 1 CHECK (priority BETWEEN 1 AND 5),
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in_progress', 'completed')),
            created_at INTEGER NOT NULL,
            updated_at INTEGER NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const taskColumns = `id, title, description, priority, status, created_at, updated_at`

// Create validates in and inserts it. AUTOINCREMENT keeps ids from being
// reused after deletes.
func (s *Store) Create(ctx context.Context, in models.NewTask) (models.Task, error) {
	t := in.Task()
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}

	now := storage.Now()
	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(title, description, priority, status, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)`,
		t.Title, nullString(t.Description), t.Priority, string(t.Status), now.UnixNano(), now.UnixNano())
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}

	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	s.logger.Debug("task created", slog.Int64("id", id))
	return t, nil
}

// Get retrieves a task by id.
func (s *Store) Get(ctx context.Context, id int64) (models.Task, error) {
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q queryer, id int64) (models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NotFound(id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update applies the supplied fields of patch inside a transaction so the
// read, validation and write happen as one step.
func (s *Store) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getTask(ctx, tx, id)
	if err != nil {
		return models.Task{}, err
	}

	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return models.Task{}, err
	}
	next.UpdatedAt = storage.Touch(current.UpdatedAt)

	_, err = tx.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?, updated_at = ? WHERE id = ?`,
		next.Title, nullString(next.Description), next.Priority, string(next.Status), next.UpdatedAt.UnixNano(), id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("commit update: %w", err)
	}

	s.logger.Debug("task updated", slog.Int64("id", id))
	return next, nil
}

// Complete marks the task completed.
func (s *Store) Complete(ctx context.Context, id int64) (models.Task, error) {
	return s.Update(ctx, id, models.CompletePatch())
}

// Delete removes a task by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFound(id)
	}
	s.logger.Debug("task deleted", slog.Int64("id", id))
	return nil
}

// ClearCompleted deletes every completed task in a single statement.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE status = ?`, string(models.StatusCompleted))
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	s.logger.Debug("completed tasks cleared", slog.Int64("count", affected))
	return int(affected), nil
}

// Snapshot returns every task ordered by id, which is insertion order.
func (s *Store) Snapshot(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		status      string
		created     int64
		updated     int64
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &t.Priority, &status, &created, &updated); err != nil {
		return models.Task{}, err
	}
	if description.Valid {
		d := description.String
		t.Description = &d
	}
	t.Status = models.TaskStatus(status)
	t.CreatedAt = time.Unix(0, created).UTC()
	t.UpdatedAt = time.Unix(0, updated).UTC()
	return t, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
