package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/critroute/internal/log"
	"github.com/slok/critroute/internal/model"
	"github.com/slok/critroute/internal/storage/sqlite/migrations"
)

const dateLayout = "2006-01-02"

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository, the schema is migrated on creation.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateProjectSchedule stores the project, its tasks, assignees and dependencies in a single transaction.
func (r *Repository) CreateProjectSchedule(ctx context.Context, s model.ProjectSchedule) error {
	if err := validateSchedule(s); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertProject(ctx, tx, s); err != nil {
		return err
	}

	taskIDs, err := insertTasks(ctx, tx, s)
	if err != nil {
		return err
	}

	if err := insertAssignees(ctx, tx, s, taskIDs); err != nil {
		return err
	}

	if err := insertDependencies(ctx, tx, s, taskIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Created project schedule in repository: %s (%d tasks)", s.Project.ID, len(s.Tasks))
	return nil
}

func validateSchedule(s model.ProjectSchedule) error {
	if s.Project.ID == "" {
		return fmt.Errorf("project id is required: %w", model.ErrNotValid)
	}
	for _, t := range s.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d id is required: %w", t.Number, model.ErrNotValid)
		}
		for _, a := range t.Assignees {
			if a.ID == "" {
				return fmt.Errorf("task %d assignee %q id is required: %w", t.Number, a.Name, model.ErrNotValid)
			}
		}
	}
	return nil
}

func insertProject(ctx context.Context, tx *sql.Tx, s model.ProjectSchedule) error {
	p := s.Project
	query := `
		INSERT INTO projects (
			id, owner, title, description, status,
			start_date, time_unit, work_hours_per_day, decimals,
			duration, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		p.ID, p.Owner, p.Title, p.Description, p.Status,
		p.Config.StartDate.Format(dateLayout), p.Config.TimeUnit, p.Config.WorkHoursPerDay, p.Config.Decimals,
		s.Duration, p.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: projects.") {
			return fmt.Errorf("project %s: %w", p.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert project: %w", err)
	}
	return nil
}

// insertTasks inserts the tasks and returns their IDs by task number.
func insertTasks(ctx context.Context, tx *sql.Tx, s model.ProjectSchedule) (map[int]string, error) {
	criticalPosition := make(map[int]int, len(s.CriticalPath))
	for i, n := range s.CriticalPath {
		criticalPosition[n] = i
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (
			id, project_id, number, label, description,
			optimistic, most_likely, pessimistic,
			duration, early_start, early_finish, late_start, late_finish, slack,
			start_date, finish_date, status, critical_position
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare task insert: %w", err)
	}
	defer stmt.Close()

	ids := make(map[int]string, len(s.Tasks))
	for _, t := range s.Tasks {
		var critical *int
		if pos, ok := criticalPosition[t.Number]; ok {
			critical = &pos
		}

		_, err := stmt.ExecContext(ctx,
			t.ID, s.Project.ID, t.Number, t.Label, t.Description,
			t.Optimistic, t.MostLikely, t.Pessimistic,
			t.Duration, t.EarlyStart, t.EarlyFinish, t.LateStart, t.LateFinish, t.Slack,
			t.StartDate.Format(dateLayout), t.FinishDate.Format(dateLayout), t.Status, critical,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.") {
				return nil, fmt.Errorf("task %d: %w", t.Number, model.ErrAlreadyExists)
			}
			return nil, fmt.Errorf("could not insert task %d: %w", t.Number, err)
		}
		ids[t.Number] = t.ID
	}

	return ids, nil
}

func insertAssignees(ctx context.Context, tx *sql.Tx, s model.ProjectSchedule, taskIDs map[int]string) error {
	assigneeIDs := map[string]string{}
	for _, a := range s.Assignees() {
		_, err := tx.ExecContext(ctx, `INSERT INTO assignees (id, project_id, name) VALUES (?, ?, ?)`, a.ID, s.Project.ID, a.Name)
		if err != nil {
			return fmt.Errorf("could not insert assignee %q: %w", a.Name, err)
		}
		assigneeIDs[a.Name] = a.ID
	}

	for _, t := range s.Tasks {
		seen := map[string]bool{}
		for i, a := range t.Assignees {
			if seen[a.Name] {
				continue
			}
			seen[a.Name] = true

			_, err := tx.ExecContext(ctx, `INSERT INTO task_assignees (task_id, assignee_id, position) VALUES (?, ?, ?)`,
				taskIDs[t.Number], assigneeIDs[a.Name], i)
			if err != nil {
				return fmt.Errorf("could not link assignee %q to task %d: %w", a.Name, t.Number, err)
			}
		}
	}

	return nil
}

func insertDependencies(ctx context.Context, tx *sql.Tx, s model.ProjectSchedule, taskIDs map[int]string) error {
	children := make(map[int][]int, len(s.Tasks))
	for _, t := range s.Tasks {
		children[t.Number] = t.Children
	}

	for _, t := range s.Tasks {
		occurrences := map[int]int{}
		for parentPos, p := range t.Parents {
			parentID, ok := taskIDs[p]
			if !ok {
				return fmt.Errorf("task %d depends on unknown task %d: %w", t.Number, p, model.ErrNotValid)
			}

			childPos := nthIndex(children[p], t.Number, occurrences[p])
			if childPos < 0 {
				return fmt.Errorf("task %d is not a child of task %d: %w", t.Number, p, model.ErrNotValid)
			}
			occurrences[p]++

			_, err := tx.ExecContext(ctx, `
				INSERT INTO task_dependencies (parent_task_id, child_task_id, parent_position, child_position)
				VALUES (?, ?, ?, ?)`,
				parentID, taskIDs[t.Number], parentPos, childPos)
			if err != nil {
				return fmt.Errorf("could not insert dependency %d -> %d: %w", p, t.Number, err)
			}
		}
	}

	return nil
}

// nthIndex returns the index of the nth (0 based) occurrence of v in values, -1 if missing.
func nthIndex(values []int, v, nth int) int {
	for i, value := range values {
		if value != v {
			continue
		}
		if nth == 0 {
			return i
		}
		nth--
	}
	return -1
}

// GetProjectSchedule retrieves a project schedule by project ID.
func (r *Repository) GetProjectSchedule(ctx context.Context, projectID string) (*model.ProjectSchedule, error) {
	query := projectSelect + ` WHERE id = ?`

	var s model.ProjectSchedule
	p, duration, err := scanProject(r.db.QueryRowContext(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", projectID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query project: %w", err)
	}
	s.Project = p
	s.Duration = duration

	if err := r.loadTasks(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadAssignees(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadDependencies(ctx, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *Repository) loadTasks(ctx context.Context, s *model.ProjectSchedule) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, number, label, description,
			optimistic, most_likely, pessimistic,
			duration, early_start, early_finish, late_start, late_finish, slack,
			start_date, finish_date, status, critical_position
		FROM tasks
		WHERE project_id = ?
		ORDER BY number
	`, s.Project.ID)
	if err != nil {
		return fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	critical := map[int]int{}
	for rows.Next() {
		var t model.ScheduledTask
		var startDate, finishDate string
		var criticalPos sql.NullInt64
		err := rows.Scan(
			&t.ID, &t.Number, &t.Label, &t.Description,
			&t.Optimistic, &t.MostLikely, &t.Pessimistic,
			&t.Duration, &t.EarlyStart, &t.EarlyFinish, &t.LateStart, &t.LateFinish, &t.Slack,
			&startDate, &finishDate, &t.Status, &criticalPos,
		)
		if err != nil {
			return fmt.Errorf("could not scan task: %w", err)
		}

		if t.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
			return fmt.Errorf("invalid task %d start date: %w", t.Number, err)
		}
		if t.FinishDate, err = time.Parse(dateLayout, finishDate); err != nil {
			return fmt.Errorf("invalid task %d finish date: %w", t.Number, err)
		}
		if criticalPos.Valid {
			critical[int(criticalPos.Int64)] = t.Number
		}

		t.ProjectID = s.Project.ID
		t.Decimals = s.Project.Config.Decimals
		t.Parents = []int{}
		t.Children = []int{}
		s.Tasks = append(s.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating task rows: %w", err)
	}

	for i := 0; i < len(critical); i++ {
		s.CriticalPath = append(s.CriticalPath, critical[i])
	}

	return nil
}

func (r *Repository) loadAssignees(ctx context.Context, s *model.ProjectSchedule) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.number, a.id, a.name
		FROM task_assignees ta
		JOIN tasks t ON t.id = ta.task_id
		JOIN assignees a ON a.id = ta.assignee_id
		WHERE t.project_id = ?
		ORDER BY t.number, ta.position
	`, s.Project.ID)
	if err != nil {
		return fmt.Errorf("could not query assignees: %w", err)
	}
	defer rows.Close()

	index := taskIndex(s)
	for rows.Next() {
		var number int
		var a model.Assignee
		if err := rows.Scan(&number, &a.ID, &a.Name); err != nil {
			return fmt.Errorf("could not scan assignee: %w", err)
		}
		t := &s.Tasks[index[number]]
		t.Assignees = append(t.Assignees, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating assignee rows: %w", err)
	}

	return nil
}

func (r *Repository) loadDependencies(ctx context.Context, s *model.ProjectSchedule) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.number, c.number, d.parent_position, d.child_position
		FROM task_dependencies d
		JOIN tasks p ON p.id = d.parent_task_id
		JOIN tasks c ON c.id = d.child_task_id
		WHERE c.project_id = ?
	`, s.Project.ID)
	if err != nil {
		return fmt.Errorf("could not query dependencies: %w", err)
	}
	defer rows.Close()

	type edge struct{ parent, child, parentPos, childPos int }
	var edges []edge
	for rows.Next() {
		var e edge
		if err := rows.Scan(&e.parent, &e.child, &e.parentPos, &e.childPos); err != nil {
			return fmt.Errorf("could not scan dependency: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating dependency rows: %w", err)
	}

	// Size the lists first so positions can be set directly.
	index := taskIndex(s)
	for _, e := range edges {
		s.Tasks[index[e.child]].Parents = append(s.Tasks[index[e.child]].Parents, 0)
		s.Tasks[index[e.parent]].Children = append(s.Tasks[index[e.parent]].Children, 0)
	}
	for _, e := range edges {
		s.Tasks[index[e.child]].Parents[e.parentPos] = e.parent
		s.Tasks[index[e.parent]].Children[e.childPos] = e.child
	}

	return nil
}

func taskIndex(s *model.ProjectSchedule) map[int]int {
	index := make(map[int]int, len(s.Tasks))
	for i, t := range s.Tasks {
		index[t.Number] = i
	}
	return index
}

// ListProjects returns the projects of an owner (all when empty), newest first.
func (r *Repository) ListProjects(ctx context.Context, owner string) ([]model.Project, error) {
	query := projectSelect + `
		WHERE (? = '' OR owner = ?)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, owner, owner)
	if err != nil {
		return nil, fmt.Errorf("could not query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, _, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, nil
}

// DeleteProject deletes a project, its tasks, assignees and dependencies are removed in cascade.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("could not delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %s: %w", projectID, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted project from repository: %s", projectID)
	return nil
}

const projectSelect = `
	SELECT
		id, owner, title, description, status,
		start_date, time_unit, work_hours_per_day, decimals,
		duration, created_at
	FROM projects
`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (model.Project, float64, error) {
	var p model.Project
	var startDate string
	var duration float64
	var createdAt int64

	err := s.Scan(
		&p.ID, &p.Owner, &p.Title, &p.Description, &p.Status,
		&startDate, &p.Config.TimeUnit, &p.Config.WorkHoursPerDay, &p.Config.Decimals,
		&duration, &createdAt,
	)
	if err != nil {
		return model.Project{}, 0, err
	}

	p.Config.StartDate, err = time.Parse(dateLayout, startDate)
	if err != nil {
		return model.Project{}, 0, fmt.Errorf("invalid project start date: %w", err)
	}
	p.CreatedAt = timeFromUnix(createdAt)

	return p, duration, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }
