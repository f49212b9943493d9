package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrComplaintNotFound is returned when the complaint ID is unknown.
var ErrComplaintNotFound = errors.New("complaint not found")

// Complaint is a raw submission as persisted. Authority and status keep
// their intake defaults until staff review them.
type Complaint struct {
	ID          int64
	UserID      string
	CollegeID   sql.NullInt64
	CollegeName string
	Description string
	Authority   string
	Status      string
	Escalated   bool
	EscalatedTo sql.NullString
	EvidenceURL sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  sql.NullTime
}

// Intake defaults.
const (
	ComplaintAuthorityPending = "Pending Analysis"
	ComplaintStatusPending    = "Pending"
)

// ComplaintRepository persists complaint submissions.
type ComplaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create inserts a complaint and returns its generated ID. Empty
// authority/status fall back to the intake defaults.
func (r *ComplaintRepository) Create(ctx context.Context, c *Complaint) (int64, error) {
	if c.Authority == "" {
		c.Authority = ComplaintAuthorityPending
	}
	if c.Status == "" {
		c.Status = ComplaintStatusPending
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO complaints (user_id, college_id, college_name, complaint_desc,
			authority, status, escalated, escalated_to, evidence_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.CollegeID, c.CollegeName, c.Description,
		c.Authority, c.Status, c.Escalated, c.EscalatedTo, c.EvidenceURL)
	if err != nil {
		return 0, fmt.Errorf("inserting complaint: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

const complaintColumns = `id, user_id, college_id, college_name, complaint_desc,
	authority, status, escalated, escalated_to, evidence_url,
	created_at, updated_at, resolved_at`

func scanComplaint(row interface{ Scan(...any) error }) (*Complaint, error) {
	c := &Complaint{}
	err := row.Scan(&c.ID, &c.UserID, &c.CollegeID, &c.CollegeName, &c.Description,
		&c.Authority, &c.Status, &c.Escalated, &c.EscalatedTo, &c.EvidenceURL,
		&c.CreatedAt, &c.UpdatedAt, &c.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ComplaintRepository) Get(ctx context.Context, id int64) (*Complaint, error) {
	c, err := scanComplaint(r.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying complaint %d: %w", id, err)
	}
	return c, nil
}

// ListByUser returns a user's complaints, newest first.
func (r *ComplaintRepository) ListByUser(ctx context.Context, userID string) ([]*Complaint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying complaints for user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []*Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkEscalated records the latest escalation target on the complaint.
func (r *ComplaintRepository) MarkEscalated(ctx context.Context, id int64, target string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE complaints
		SET escalated = 1, escalated_to = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, target, id)
	if err != nil {
		return fmt.Errorf("marking complaint %d escalated: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

// MarkResolved stamps the complaint's resolution time and status.
func (r *ComplaintRepository) MarkResolved(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE complaints
		SET status = 'Resolved', resolved_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking complaint %d resolved: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrComplaintNotFound
	}
	return nil
}
