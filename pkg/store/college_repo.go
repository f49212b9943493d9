package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCollegeNotFound is returned when the college ID or name is unknown.
var ErrCollegeNotFound = errors.New("college not found")

// College aggregates complaint counters per institution.
type College struct {
	ID               int64
	Name             string
	Location         string
	Verified         bool
	TotalComplaints  int
	SolvedComplaints int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CollegeRepository persists college records.
type CollegeRepository struct {
	db *sql.DB
}

func NewCollegeRepository(db *sql.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

const collegeColumns = `id, name, location, verified, total_complaints, solved_complaints, created_at, updated_at`

func scanCollege(row interface{ Scan(...any) error }) (*College, error) {
	c := &College{}
	err := row.Scan(&c.ID, &c.Name, &c.Location, &c.Verified, &c.TotalComplaints, &c.SolvedComplaints,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CollegeRepository) Get(ctx context.Context, id int64) (*College, error) {
	c, err := scanCollege(r.db.QueryRowContext(ctx,
		`SELECT `+collegeColumns+` FROM colleges WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollegeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying college %d: %w", id, err)
	}
	return c, nil
}

// GetByName looks a college up by its exact name.
func (r *CollegeRepository) GetByName(ctx context.Context, name string) (*College, error) {
	c, err := scanCollege(r.db.QueryRowContext(ctx,
		`SELECT `+collegeColumns+` FROM colleges WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollegeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying college %q: %w", name, err)
	}
	return c, nil
}

// GetOrCreate returns the college with the given name, creating it on
// first sight. Location is only written on creation.
func (r *CollegeRepository) GetOrCreate(ctx context.Context, name, location string) (*College, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCollegeNotFound) {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO colleges (name, location) VALUES (?, ?)`, name, location)
	if err != nil {
		// Lost a race with a concurrent insert; re-read.
		if again, lookupErr := r.GetByName(ctx, name); lookupErr == nil {
			return again, nil
		}
		return nil, fmt.Errorf("inserting college %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// List returns colleges matching the optional name search and location
// filter, ordered by name.
func (r *CollegeRepository) List(ctx context.Context, search, location string) ([]*College, error) {
	query := `SELECT ` + collegeColumns + ` FROM colleges`
	var clauses []string
	var args []any
	if search != "" {
		clauses = append(clauses, `name LIKE ?`)
		args = append(args, "%"+search+"%")
	}
	if location != "" {
		clauses = append(clauses, `location = ?`)
		args = append(args, location)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying colleges: %w", err)
	}
	defer rows.Close()

	var out []*College
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Locations returns the distinct non-empty locations on record.
func (r *CollegeRepository) Locations(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT location FROM colleges WHERE location != '' ORDER BY location`)
	if err != nil {
		return nil, fmt.Errorf("querying college locations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// IncrementTotal bumps the college's complaint counter.
func (r *CollegeRepository) IncrementTotal(ctx context.Context, id int64) error {
	return r.increment(ctx, id, `total_complaints`)
}

// IncrementSolved bumps the college's solved counter.
func (r *CollegeRepository) IncrementSolved(ctx context.Context, id int64) error {
	return r.increment(ctx, id, `solved_complaints`)
}

func (r *CollegeRepository) increment(ctx context.Context, id int64, column string) error {
	// column is one of two trusted literals, never user input.
	res, err := r.db.ExecContext(ctx,
		`UPDATE colleges SET `+column+` = `+column+` + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("incrementing %s for college %d: %w", column, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCollegeNotFound
	}
	return nil
}
