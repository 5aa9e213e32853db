package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
)

const taskColumns = `id, owner_id, title, description, priority, status, due_date, created_at, updated_at`

const insertTaskQuery = `
INSERT INTO tasks (` + taskColumns + `)
VALUES (:id, :owner_id, :title, :description, :priority, :status, :due_date, :created_at, :updated_at)
`

const selectTaskQuery = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

const listOwnerTasksQuery = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`

const deleteTaskQuery = `DELETE FROM tasks WHERE id = ? AND owner_id = ?`

// TaskRepository stores tasks in a SQL database. Queries are written with
// "?" placeholders and rebound for the connection's driver.
type TaskRepository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

type taskRow struct {
	ID          string       `db:"id"`
	OwnerID     string       `db:"owner_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Priority    string       `db:"priority"`
	Status      string       `db:"status"`
	DueDate     sql.NullTime `db:"due_date"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now, newID: uuid.NewString}
}

func (r *TaskRepository) Create(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	task := domain.NewTask(ownerID, r.newID(), r.timestamp(), input)
	if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, mapDomainTaskToTaskRow(task)); err != nil {
		return domain.Task{}, domain.StoreError("create task", err)
	}

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, id string) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectTaskQuery), id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, domain.StoreError("find task", err)
	}

	return mapTaskRowToDomainTask(row), nil
}

func (r *TaskRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(listOwnerTasksQuery), ownerID); err != nil {
		return nil, domain.StoreError("list tasks", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return tasks, nil
}

// Update writes only the supplied columns and reads the row back inside one
// transaction, so the returned task is the state this call produced.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	query, args := buildUpdateQuery(input, r.timestamp())
	args = append(args, id, ownerID)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, domain.StoreError("update task", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return domain.Task{}, domain.StoreError("update task", err)
	}

	var row taskRow
	if err := tx.GetContext(ctx, &row, tx.Rebind(selectTaskQuery), id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, domain.StoreError("update task", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, domain.StoreError("update task", err)
	}

	return mapTaskRowToDomainTask(row), nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(deleteTaskQuery), id, ownerID)
	if err != nil {
		return domain.StoreError("delete task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.StoreError("delete task", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.StoreError("ping", err)
	}
	return nil
}

// timestamp matches the DATETIME(6) precision used by MySQL.
func (r *TaskRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func buildUpdateQuery(input domain.UpdateTaskInput, now time.Time) (string, []any) {
	sets := []string{"updated_at = ?"}
	args := []any{now}

	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *input.Description)
	}
	if input.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*input.Priority))
	}
	if input.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*input.Status))
	}
	if input.DueDateSet {
		sets = append(sets, "due_date = ?")
		args = append(args, nullTime(input.DueDate))
	}

	return fmt.Sprintf("UPDATE tasks SET %s WHERE id = ? AND owner_id = ?", strings.Join(sets, ", ")), args
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapDomainTaskToTaskRow(task domain.Task) taskRow {
	return taskRow{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		DueDate:     nullTime(task.DueDate),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description,
		Priority:    domain.TaskPriority(row.Priority),
		Status:      domain.TaskStatus(row.Status),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}

	if row.DueDate.Valid {
		value := domain.CalendarDate(row.DueDate.Time.UTC())
		task.DueDate = &value
	}

	return task
}
