package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campuswatch/campuswatch/pkg/tracking"
)

// CaseRepository is the SQLite-backed tracking.CaseStore.
type CaseRepository struct {
	db *sql.DB
}

// NewCaseRepository wraps an open database handle.
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

var _ tracking.CaseStore = (*CaseRepository)(nil)

func (r *CaseRepository) Get(ctx context.Context, id string) (*tracking.Case, error) {
	cs := &tracking.Case{}
	var collegeID sql.NullInt64
	var collegeName sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.status, c.progress, c.last_updated, c.assigned_to,
		       c.priority, c.category, c.estimated_completion, c.notes,
		       c.escalation_count, c.college_id, col.name
		FROM cases c
		LEFT JOIN colleges col ON col.id = c.college_id
		WHERE c.id = ?`, id).Scan(
		&cs.ID, &cs.Status, &cs.Progress, &cs.LastUpdated, &cs.AssignedTo,
		&cs.Priority, &cs.Category, &cs.EstimatedCompletion, &cs.Notes,
		&cs.EscalationCount, &collegeID, &collegeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying case %s: %w", id, err)
	}

	if collegeID.Valid {
		cs.CollegeID = collegeID.Int64
	}
	if collegeName.Valid {
		cs.College = collegeName.String
	}

	if cs.Escalations, err = r.escalations(ctx, id); err != nil {
		return nil, err
	}
	if cs.AuthorizedUsers, err = r.authorizedUsers(ctx, id); err != nil {
		return nil, err
	}

	return cs, nil
}

func (r *CaseRepository) escalations(ctx context.Context, id string) ([]tracking.Escalation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT target, reason, date, status
		FROM case_escalations
		WHERE case_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying escalations for case %s: %w", id, err)
	}
	defer rows.Close()

	var out []tracking.Escalation
	for rows.Next() {
		var e tracking.Escalation
		if err := rows.Scan(&e.To, &e.Reason, &e.Date, &e.Status); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *CaseRepository) authorizedUsers(ctx context.Context, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM case_authorized_users WHERE case_id = ? ORDER BY user_id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying authorized users for case %s: %w", id, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *CaseRepository) Save(ctx context.Context, cs *tracking.Case) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE cases SET
			status = ?, progress = ?, last_updated = ?, assigned_to = ?,
			priority = ?, category = ?, estimated_completion = ?, notes = ?,
			escalation_count = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		cs.Status, cs.Progress, cs.LastUpdated, cs.AssignedTo,
		cs.Priority, cs.Category, cs.EstimatedCompletion, cs.Notes,
		cs.EscalationCount, cs.ID)
	if err != nil {
		return fmt.Errorf("updating case %s: %w", cs.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tracking.ErrCaseNotFound
	}

	// Escalations are append-only; rewrite the set to keep positions dense.
	if _, err := tx.ExecContext(ctx, `DELETE FROM case_escalations WHERE case_id = ?`, cs.ID); err != nil {
		return fmt.Errorf("clearing escalations for case %s: %w", cs.ID, err)
	}
	if err := insertEscalations(ctx, tx, cs); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *CaseRepository) Create(ctx context.Context, cs *tracking.Case) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var collegeID sql.NullInt64
	if cs.CollegeID != 0 {
		collegeID = sql.NullInt64{Int64: cs.CollegeID, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cases (id, college_id, status, progress, last_updated,
			assigned_to, priority, category, estimated_completion, notes,
			escalation_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cs.ID, collegeID, cs.Status, cs.Progress, cs.LastUpdated,
		cs.AssignedTo, cs.Priority, cs.Category, cs.EstimatedCompletion,
		cs.Notes, cs.EscalationCount); err != nil {
		return fmt.Errorf("inserting case %s: %w", cs.ID, err)
	}

	if err := insertEscalations(ctx, tx, cs); err != nil {
		return err
	}

	for _, u := range cs.AuthorizedUsers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO case_authorized_users (case_id, user_id) VALUES (?, ?)`,
			cs.ID, u); err != nil {
			return fmt.Errorf("inserting authorized user for case %s: %w", cs.ID, err)
		}
	}

	return tx.Commit()
}

func insertEscalations(ctx context.Context, tx *sql.Tx, cs *tracking.Case) error {
	for i, e := range cs.Escalations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO case_escalations (case_id, position, target, reason, date, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			cs.ID, i, e.To, e.Reason, e.Date, e.Status); err != nil {
			return fmt.Errorf("inserting escalation %d for case %s: %w", i, cs.ID, err)
		}
	}
	return nil
}

// LinkComplaint attaches the originating complaint to a case.
func (r *CaseRepository) LinkComplaint(ctx context.Context, caseID string, complaintID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cases SET complaint_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		complaintID, caseID)
	if err != nil {
		return fmt.Errorf("linking complaint %d to case %s: %w", complaintID, caseID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tracking.ErrCaseNotFound
	}
	return nil
}

// ComplaintID returns the linked complaint's row ID, 0 when the case
// has no complaint attached.
func (r *CaseRepository) ComplaintID(ctx context.Context, caseID string) (int64, error) {
	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT complaint_id FROM cases WHERE id = ?`, caseID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, tracking.ErrCaseNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying complaint link for case %s: %w", caseID, err)
	}
	return id.Int64, nil
}
