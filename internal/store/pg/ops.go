package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"talentos.org/internal/ops"
)

const incidentColumns = `id, talent_id, persona_id, severity, category, description,
	status, reported_by, reported_at, resolved_at, resolved_by, resolution`

func (s *Store) CreateIncident(ctx context.Context, inc *ops.Incident) error {
	_, err := s.db.ExecContext(ctx, `
		insert into incidents (`+incidentColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, inc.ID, nullIfEmpty(inc.TalentID), nullIfEmpty(inc.PersonaID), inc.Severity,
		nullIfEmpty(inc.Category), inc.Description, inc.Status, inc.ReportedBy,
		inc.ReportedAt, nullTime(inc.ResolvedAt), nullIfEmpty(inc.ResolvedBy),
		nullIfEmpty(inc.Resolution))
	return err
}

func (s *Store) GetIncident(ctx context.Context, id string) (*ops.Incident, error) {
	inc, err := scanIncident(s.db.QueryRowContext(ctx, `
		select `+incidentColumns+` from incidents where id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ops.ErrNotFound
	}
	return inc, err
}

func (s *Store) ListIncidents(ctx context.Context, filter ops.IncidentFilter) ([]*ops.Incident, error) {
	query := `select ` + incidentColumns + ` from incidents`
	args := []any{}
	where := ""
	appendClause := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		if where == "" {
			where = fmt.Sprintf(" where %s = $%d", column, len(args))
		} else {
			where += fmt.Sprintf(" and %s = $%d", column, len(args))
		}
	}
	appendClause("talent_id", filter.TalentID)
	appendClause("status", filter.Status)
	appendClause("severity", filter.Severity)
	query += where + ` order by reported_at desc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIncidents(rows)
}

func (s *Store) ResolveIncident(ctx context.Context, inc *ops.Incident) error {
	res, err := s.db.ExecContext(ctx, `
		update incidents
		set status = $2, resolved_at = $3, resolved_by = $4, resolution = $5
		where id = $1
	`, inc.ID, inc.Status, nullTime(inc.ResolvedAt), nullIfEmpty(inc.ResolvedBy),
		nullIfEmpty(inc.Resolution))
	if err != nil {
		return err
	}
	return requireRow(res, ops.ErrNotFound)
}

func (s *Store) CountActiveIncidents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from incidents where status = 'open'
	`).Scan(&n)
	return n, err
}

func (s *Store) ListOpenIncidentsByMinSeverity(ctx context.Context, min string) ([]*ops.Incident, error) {
	severities := severitiesAtOrAbove(min)
	placeholders := make([]string, len(severities))
	args := make([]any, len(severities))
	for i, sev := range severities {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = sev
	}
	rows, err := s.db.QueryContext(ctx, `
		select `+incidentColumns+` from incidents
		where status = 'open' and severity in (`+strings.Join(placeholders, ", ")+`)
		order by reported_at desc
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIncidents(rows)
}

func severitiesAtOrAbove(min string) []string {
	order := []string{ops.SeverityLow, ops.SeverityMedium, ops.SeverityHigh, ops.SeverityCritical}
	for i, sev := range order {
		if sev == min {
			return order[i:]
		}
	}
	return order
}

func collectIncidents(rows *sql.Rows) ([]*ops.Incident, error) {
	out := make([]*ops.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func scanIncident(row rowScanner) (*ops.Incident, error) {
	var (
		inc        ops.Incident
		talentID   sql.NullString
		personaID  sql.NullString
		category   sql.NullString
		resolvedAt sql.NullTime
		resolvedBy sql.NullString
		resolution sql.NullString
	)
	err := row.Scan(&inc.ID, &talentID, &personaID, &inc.Severity, &category,
		&inc.Description, &inc.Status, &inc.ReportedBy, &inc.ReportedAt,
		&resolvedAt, &resolvedBy, &resolution)
	if err != nil {
		return nil, err
	}
	inc.TalentID = talentID.String
	inc.PersonaID = personaID.String
	inc.Category = category.String
	inc.ResolvedAt = timePtr(resolvedAt)
	inc.ResolvedBy = resolvedBy.String
	inc.Resolution = resolution.String
	return &inc, nil
}

func (s *Store) CreateWellbeingEntry(ctx context.Context, e *ops.WellbeingEntry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into wellbeing_entries (id, talent_id, mood_score, stress_score, notes, recorded_by, recorded_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.TalentID, e.MoodScore, e.StressScore, nullIfEmpty(e.Notes), e.RecordedBy, e.RecordedAt)
	return err
}

func (s *Store) ListWellbeingByTalent(ctx context.Context, talentID string, limit int) ([]*ops.WellbeingEntry, error) {
	if limit <= 0 {
		limit = ops.WellbeingHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, talent_id, mood_score, stress_score, notes, recorded_by, recorded_at
		from wellbeing_entries
		where talent_id = $1
		order by recorded_at desc
		limit $2
	`, talentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*ops.WellbeingEntry, 0)
	for rows.Next() {
		var (
			e     ops.WellbeingEntry
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.TalentID, &e.MoodScore, &e.StressScore, &notes, &e.RecordedBy, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

const taskColumns = `id, title, description, talent_id, assigned_to, priority,
	status, deadline, created_by, created_at, completed_at`

func (s *Store) CreateTask(ctx context.Context, t *ops.Task) error {
	_, err := s.db.ExecContext(ctx, `
		insert into tasks (`+taskColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, t.ID, t.Title, nullIfEmpty(t.Description), nullIfEmpty(t.TalentID),
		nullIfEmpty(t.AssignedTo), t.Priority, t.Status, nullTime(t.Deadline),
		t.CreatedBy, t.CreatedAt, nullTime(t.CompletedAt))
	return err
}

func (s *Store) GetTask(ctx context.Context, id string) (*ops.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `
		select `+taskColumns+` from tasks where id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ops.ErrNotFound
	}
	return t, err
}

func (s *Store) ListTasks(ctx context.Context, filter ops.TaskFilter) ([]*ops.Task, error) {
	query := `select ` + taskColumns + ` from tasks`
	args := []any{}
	where := ""
	appendClause := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		if where == "" {
			where = fmt.Sprintf(" where %s = $%d", column, len(args))
		} else {
			where += fmt.Sprintf(" and %s = $%d", column, len(args))
		}
	}
	appendClause("talent_id", filter.TalentID)
	appendClause("assigned_to", filter.AssignedTo)
	appendClause("status", filter.Status)
	query += where + ` order by created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) SetTaskStatus(ctx context.Context, t *ops.Task) error {
	res, err := s.db.ExecContext(ctx, `
		update tasks set status = $2, completed_at = $3 where id = $1
	`, t.ID, t.Status, nullTime(t.CompletedAt))
	if err != nil {
		return err
	}
	return requireRow(res, ops.ErrNotFound)
}

func (s *Store) CountPendingTasks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from tasks where status = 'pending'
	`).Scan(&n)
	return n, err
}

func (s *Store) ListOverdueTasks(ctx context.Context, now time.Time) ([]*ops.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+taskColumns+` from tasks
		where status <> 'completed' and deadline is not null and deadline < $1
		order by deadline
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]*ops.Task, error) {
	out := make([]*ops.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(row rowScanner) (*ops.Task, error) {
	var (
		t           ops.Task
		description sql.NullString
		talentID    sql.NullString
		assignedTo  sql.NullString
		deadline    sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &description, &talentID, &assignedTo,
		&t.Priority, &t.Status, &deadline, &t.CreatedBy, &t.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.TalentID = talentID.String
	t.AssignedTo = assignedTo.String
	t.Deadline = timePtr(deadline)
	t.CompletedAt = timePtr(completedAt)
	return &t, nil
}
